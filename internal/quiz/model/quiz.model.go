package model

// Question is one trivia record inside a category of questions.json.
type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
	Link     string   `json:"link,omitempty"`
}

// PlayerScore is one row of a year's leaderboard in leaderboard.json.
type PlayerScore struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Categories maps a lowercase category name to its questions in insertion order.
type Categories map[string][]Question

// Leaderboard maps a year key to its player records in insertion order.
type Leaderboard map[string][]PlayerScore

type QuizRequest struct {
	Category string `json:"category" validate:"required"`
	PlayerID string `json:"playerid" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

type QuizResponse struct {
	Question Question `json:"question"`
	Answer   string   `json:"answer"`
	Link     string   `json:"link,omitempty"`
}

type ScoreRequest struct {
	PlayerID string `json:"playerid" validate:"required"`
	Option   string `json:"option" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AddQuestionRequest struct {
	Category string   `json:"category" validate:"required"`
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options" validate:"required"`
	Answer   string   `json:"answer" validate:"required"`
}

type AddQuestionResponse struct {
	Message  string   `json:"message"`
	Question Question `json:"question"`
}

type LeaderboardResponse struct {
	Leaderboard []PlayerScore `json:"leaderboard"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
