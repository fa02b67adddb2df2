package service

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"triviaboard/internal/quiz/model"
	"triviaboard/internal/quiz/repository"
	"triviaboard/pkg/metrics"
	"triviaboard/store"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedScore struct {
	year   string
	player model.PlayerScore
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []recordedScore
}

func (f *fakeNotifier) NotifyScore(year string, player model.PlayerScore) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedScore{year: year, player: player})
}

func newService(t *testing.T) (*QuizService, *fakeNotifier) {
	t.Helper()
	dir := t.TempDir()
	questions := filepath.Join(dir, "questions.json")
	leaderboard := filepath.Join(dir, "leaderboard.json")
	require.NoError(t, os.WriteFile(questions, []byte(`{"science":[{"id":"1","question":"Q?","options":["A","B"],"answer":"A"}]}`), 0o644))
	require.NoError(t, os.WriteFile(leaderboard, []byte(`{"2024":[{"id":"p1","name":"Al","score":0}]}`), 0o644))

	repo, err := repository.Load(store.NewFileBackend(), questions, leaderboard)
	require.NoError(t, err)

	notifier := &fakeNotifier{}
	return NewQuizService(repo, notifier, metrics.New()), notifier
}

func TestGetQuestionLowercasesCategory(t *testing.T) {
	svc, _ := newService(t)

	q, err := svc.GetQuestion("SciEnce")
	require.NoError(t, err)
	assert.Equal(t, "1", q.ID)
	assert.Equal(t, float64(1), testutil.ToFloat64(svc.Metrics.QuestionsServed))
}

func TestUpdateScoreBuildsMessageAndNotifies(t *testing.T) {
	svc, notifier := newService(t)

	resp, err := svc.UpdateScore("p1", "CORRECT")
	require.NoError(t, err)
	assert.Equal(t, "Score updated successfully for player Al.", resp.Message)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "2024", notifier.calls[0].year)
	assert.Equal(t, 1, notifier.calls[0].player.Score)
	assert.Equal(t, float64(1), testutil.ToFloat64(svc.Metrics.ScoreUpdates.WithLabelValues("correct")))
}

func TestUpdateScoreUnknownPlayerDoesNotNotify(t *testing.T) {
	svc, notifier := newService(t)

	_, err := svc.UpdateScore("ghost", "correct")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, notifier.calls)
}

func TestAddQuestionNormalizesCategoryAndAnswer(t *testing.T) {
	svc, _ := newService(t)

	resp, err := svc.AddQuestion(model.AddQuestionRequest{
		Category: "History",
		Question: "Who?",
		Options:  []string{"Ada", "Grace"},
		Answer:   "b",
	})
	require.NoError(t, err)
	assert.Equal(t, `Question added successfully to category "history".`, resp.Message)
	assert.Equal(t, "B", resp.Question.Answer)
	assert.Equal(t, []string{"Ada", "Grace"}, resp.Question.Options)

	got, err := svc.GetQuestion("history")
	require.NoError(t, err)
	assert.Equal(t, resp.Question, got)
	assert.Equal(t, []string{"history", "science"}, svc.Categories())
}

func TestGetLeaderboardAbsentYear(t *testing.T) {
	svc, _ := newService(t)

	assert.Empty(t, svc.GetLeaderboard("1999"))
	assert.Len(t, svc.GetLeaderboard("2024"), 1)
}

func TestConcurrentScoreUpdatesReachNotifierInOrder(t *testing.T) {
	svc, notifier := newService(t)
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.UpdateScore("p1", "correct")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, notifier.calls, n)
	for i, call := range notifier.calls {
		assert.Equal(t, i+1, call.player.Score)
	}
}
