package router

import (
	"net/http"

	quizHandler "triviaboard/internal/quiz"
	"triviaboard/internal/quiz/repository"
	"triviaboard/internal/quiz/service"
	"triviaboard/middleware"
	"triviaboard/pkg/metrics"
	"triviaboard/socket"

	"github.com/gorilla/mux"
)

func Setup(repo *repository.QuizRepository, hub *socket.Hub, m *metrics.Metrics, allowedOrigin string) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware, middleware.MetricsMiddleware(m))

	// mux skips Use middleware for unmatched requests, so wrap these by hand.
	unmatched := func(h http.Handler) http.Handler {
		return middleware.LoggingMiddleware(middleware.MetricsMiddleware(m)(h))
	}
	r.NotFoundHandler = unmatched(quizHandler.NotFound())
	r.MethodNotAllowedHandler = unmatched(quizHandler.MethodNotAllowed())

	// Live leaderboard feed
	r.HandleFunc("/ws/leaderboard/{year}", func(w http.ResponseWriter, req *http.Request) {
		socket.ServeWs(hub, w, req, mux.Vars(req)["year"])
	}).Methods(http.MethodGet)

	// REST API
	quizService := service.NewQuizService(repo, hub, m)
	h := quizHandler.NewQuizHandler(quizService)

	r.HandleFunc("/quiz", h.GetQuiz).Methods(http.MethodPost)
	r.HandleFunc("/scores", h.UpdateScore).Methods(http.MethodPut)
	r.HandleFunc("/addq", h.AddQuestion).Methods(http.MethodPost)
	r.HandleFunc("/leaderboard/{year}", h.GetLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/categories", h.GetCategories).Methods(http.MethodGet)

	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	return middleware.CORSMiddleware(allowedOrigin)(r)
}
