package service

import (
	"fmt"
	"strings"

	"triviaboard/internal/quiz/model"
	"triviaboard/internal/quiz/repository"
	"triviaboard/pkg/metrics"
)

// ScoreNotifier receives every persisted score change, in save order.
// NotifyScore must not block.
type ScoreNotifier interface {
	NotifyScore(year string, player model.PlayerScore)
}

type QuizService struct {
	Repo     *repository.QuizRepository
	Notifier ScoreNotifier
	Metrics  *metrics.Metrics
}

func NewQuizService(repo *repository.QuizRepository, notifier ScoreNotifier, m *metrics.Metrics) *QuizService {
	return &QuizService{Repo: repo, Notifier: notifier, Metrics: m}
}

// GetQuestion picks a random question. The answer is returned as stored;
// clients run in practice mode and reveal it themselves.
func (s *QuizService) GetQuestion(category string) (model.Question, error) {
	q, err := s.Repo.GetQuestion(strings.ToLower(category))
	if err != nil {
		return model.Question{}, err
	}
	s.Metrics.QuestionsServed.Inc()
	return q, nil
}

func (s *QuizService) UpdateScore(playerID, option string) (*model.MessageResponse, error) {
	option = strings.ToLower(option)
	var notify repository.ScoreFunc
	if s.Notifier != nil {
		notify = s.Notifier.NotifyScore
	}
	_, player, err := s.Repo.UpdateScore(playerID, option, notify)
	if err != nil {
		return nil, err
	}

	outcome := "wrong"
	if option == "correct" {
		outcome = "correct"
	}
	s.Metrics.ScoreUpdates.WithLabelValues(outcome).Inc()

	return &model.MessageResponse{
		Message: fmt.Sprintf("Score updated successfully for player %s.", player.Name),
	}, nil
}

func (s *QuizService) AddQuestion(req model.AddQuestionRequest) (*model.AddQuestionResponse, error) {
	category := strings.ToLower(req.Category)
	q, err := s.Repo.AddQuestion(category, req.Question, req.Options, strings.ToUpper(req.Answer))
	if err != nil {
		return nil, err
	}
	s.Metrics.QuestionsAdded.Inc()

	return &model.AddQuestionResponse{
		Message:  fmt.Sprintf("Question added successfully to category \"%s\".", category),
		Question: q,
	}, nil
}

func (s *QuizService) GetLeaderboard(year string) []model.PlayerScore {
	return s.Repo.GetLeaderboard(year)
}

func (s *QuizService) Categories() []string {
	return s.Repo.Categories()
}
