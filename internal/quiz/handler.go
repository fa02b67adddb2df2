package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"triviaboard/internal/quiz/model"
	"triviaboard/internal/quiz/service"
	"triviaboard/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const (
	msgMissingQuiz   = "Missing parameters. Ensure category, playerid, and name are provided."
	msgMissingScores = "Missing parameters. Ensure playerid and option (correct or wrong) are provided."
	msgMissingAddQ   = "Missing parameters. Ensure category, question, options, and answer are provided."
	msgInvalidBody   = "Invalid request body."
)

type QuizHandler struct {
	Service  *service.QuizService
	validate *validator.Validate
}

func NewQuizHandler(service *service.QuizService) *QuizHandler {
	return &QuizHandler{Service: service, validate: validator.New()}
}

func (h *QuizHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	var req model.QuizRequest
	if !h.bind(w, r, &req, msgMissingQuiz) {
		return
	}

	q, err := h.Service.GetQuestion(req.Category)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to get question for player %s: %v", req.PlayerID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Sugar.Debugf("Served question %s to player %s (%s)", q.ID, req.PlayerID, req.Name)
	writeJSON(w, http.StatusOK, model.QuizResponse{Question: q, Answer: q.Answer, Link: q.Link})
}

func (h *QuizHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	var req model.ScoreRequest
	if !h.bind(w, r, &req, msgMissingScores) {
		return
	}

	resp, err := h.Service.UpdateScore(req.PlayerID, req.Option)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to update score for player %s: %v", req.PlayerID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *QuizHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	var req model.AddQuestionRequest
	if !h.bind(w, r, &req, msgMissingAddQ) {
		return
	}

	resp, err := h.Service.AddQuestion(req)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to add question to %s: %v", req.Category, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *QuizHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	year := mux.Vars(r)["year"]
	writeJSON(w, http.StatusOK, model.LeaderboardResponse{Leaderboard: h.Service.GetLeaderboard(year)})
}

func (h *QuizHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.CategoriesResponse{Categories: h.Service.Categories()})
}

func NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found.")
	})
}

func MethodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})
}

// bind decodes the JSON body into dst and runs the presence checks. An empty
// body counts as all fields missing. It writes the 400 itself and reports
// whether the handler may continue.
func (h *QuizHandler) bind(w http.ResponseWriter, r *http.Request, dst any, missingMsg string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, missingMsg)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}
