package repository

import (
	"cmp"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"triviaboard/internal/quiz/model"
	"triviaboard/pkg/logger"
	"triviaboard/store"

	"github.com/google/uuid"
)

// ErrNotFound matches every missing-category and missing-player error.
var ErrNotFound = errors.New("not found")

type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string        { return e.msg }
func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

type playerLocation struct {
	year string
	pos  int
}

// QuizRepository owns the two in-memory documents. Reads share the lock;
// every mutation holds it exclusively until its document is persisted.
type QuizRepository struct {
	backend         store.Backend
	questionsName   string
	leaderboardName string

	mu          sync.RWMutex
	categories  model.Categories
	leaderboard model.Leaderboard
	players     map[string]playerLocation
	pick        func(n int) int
}

// Load reads both documents from the backend. Callers treat an error as
// fatal: the service cannot run without its data.
func Load(backend store.Backend, questionsName, leaderboardName string) (*QuizRepository, error) {
	r := &QuizRepository{
		backend:         backend,
		questionsName:   questionsName,
		leaderboardName: leaderboardName,
		pick:            rand.Intn,
	}
	if err := store.LoadDocument(backend, questionsName, &r.categories); err != nil {
		return nil, err
	}
	if err := store.LoadDocument(backend, leaderboardName, &r.leaderboard); err != nil {
		return nil, err
	}
	if r.categories == nil {
		r.categories = model.Categories{}
	}
	if r.leaderboard == nil {
		r.leaderboard = model.Leaderboard{}
	}
	r.indexPlayers()
	return r, nil
}

// indexPlayers maps each player id to its first occurrence, scanning years
// in yearOrder.
func (r *QuizRepository) indexPlayers() {
	r.players = make(map[string]playerLocation)
	for _, year := range r.years() {
		for i, p := range r.leaderboard[year] {
			if _, seen := r.players[p.ID]; !seen {
				r.players[p.ID] = playerLocation{year: year, pos: i}
			}
		}
	}
}

func (r *QuizRepository) years() []string {
	years := make([]string, 0, len(r.leaderboard))
	for y := range r.leaderboard {
		years = append(years, y)
	}
	slices.SortFunc(years, yearOrder)
	return years
}

// yearOrder sorts integer keys numerically ahead of every other key, which
// sort as text. "0042" is not an integer key.
func yearOrder(a, b string) int {
	na, aInt := integerKey(a)
	nb, bInt := integerKey(b)
	switch {
	case aInt && bInt:
		return cmp.Compare(na, nb)
	case aInt:
		return -1
	case bInt:
		return 1
	}
	return strings.Compare(a, b)
}

func integerKey(s string) (uint64, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || strconv.FormatUint(n, 10) != s {
		return 0, false
	}
	return n, true
}

// GetQuestion returns a uniformly random question of category.
func (r *QuizRepository) GetQuestion(category string) (model.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	questions := r.categories[category]
	if len(questions) == 0 {
		return model.Question{}, &notFoundError{msg: fmt.Sprintf("No questions found for category \"%s\".", category)}
	}
	q := questions[r.pick(len(questions))]
	q.Options = slices.Clone(q.Options)
	return q, nil
}

// ScoreFunc observes a persisted score change. It runs under the write lock,
// so calls arrive in the order the changes were saved and must not block.
type ScoreFunc func(year string, player model.PlayerScore)

// UpdateScore adds one point for a "correct" outcome and removes one for
// anything else. It returns the year the player was found under and the
// updated record. notify may be nil.
func (r *QuizRepository) UpdateScore(playerID, outcome string, notify ScoreFunc) (string, model.PlayerScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, ok := r.players[playerID]
	if !ok {
		return "", model.PlayerScore{}, &notFoundError{msg: fmt.Sprintf("Player with id \"%s\" not found.", playerID)}
	}

	delta := -1
	if outcome == "correct" {
		delta = 1
	}
	player := &r.leaderboard[loc.year][loc.pos]
	player.Score += delta

	if err := store.SaveDocument(r.backend, r.leaderboardName, r.leaderboard); err != nil {
		player.Score -= delta
		logger.Sugar.Errorf("Failed to persist score for player %s: %v", playerID, err)
		return "", model.PlayerScore{}, err
	}
	if notify != nil {
		notify(loc.year, *player)
	}
	return loc.year, *player, nil
}

// AddQuestion appends a new question to category, creating the category on
// first use.
func (r *QuizRepository) AddQuestion(category, question string, options []string, answer string) (model.Question, error) {
	q := model.Question{
		ID:       uuid.NewString(),
		Question: question,
		Options:  slices.Clone(options),
		Answer:   answer,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	previous, existed := r.categories[category]
	r.categories[category] = append(previous, q)

	if err := store.SaveDocument(r.backend, r.questionsName, r.categories); err != nil {
		if existed {
			r.categories[category] = previous
		} else {
			delete(r.categories, category)
		}
		logger.Sugar.Errorf("Failed to persist question for category %s: %v", category, err)
		return model.Question{}, err
	}
	return q, nil
}

// GetLeaderboard returns a copy of the year's records, or an empty slice
// when the year has none.
func (r *QuizRepository) GetLeaderboard(year string) []model.PlayerScore {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := r.leaderboard[year]
	if players == nil {
		return []model.PlayerScore{}
	}
	return slices.Clone(players)
}

// Categories lists the known category names in sorted order.
func (r *QuizRepository) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.categories))
	for name := range r.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats reports document sizes.
func (r *QuizRepository) Stats() (categories, questions, years, players int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, qs := range r.categories {
		questions += len(qs)
	}
	for _, ps := range r.leaderboard {
		players += len(ps)
	}
	return len(r.categories), questions, len(r.leaderboard), players
}
