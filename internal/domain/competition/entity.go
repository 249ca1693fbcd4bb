package competition

import "time"

// ProblemCounts describes how many problems of each difficulty a competition
// draws.
type ProblemCounts struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// Competition is a scheduled group contest. Scoring and matchmaking live
// upstream; the gateway only creates and displays them.
type Competition struct {
	ID              string        `json:"id"`
	GroupID         string        `json:"group_id"`
	Title           string        `json:"title"`
	StartTime       time.Time     `json:"start_time"`
	DurationMinutes int           `json:"duration_minutes"`
	Problems        ProblemCounts `json:"problem_counts"`
	CreatedAt       time.Time     `json:"created_at"`
}

// CreateCompetitionRequest is the payload for scheduling a group competition.
type CreateCompetitionRequest struct {
	GroupID         string        `json:"group_id" binding:"required"`
	Title           string        `json:"title" binding:"required"`
	StartTime       time.Time     `json:"start_time" binding:"required"`
	DurationMinutes int           `json:"duration_minutes" binding:"required,min=10"`
	Problems        ProblemCounts `json:"problem_counts"`
}

// CreateDuelRequest is the payload for challenging another member to a duel.
type CreateDuelRequest struct {
	GroupID    string `json:"group_id" binding:"required"`
	OpponentID string `json:"opponent_id" binding:"required"`
	Difficulty string `json:"difficulty"`
}

// Duel is a one-on-one challenge between two group members.
type Duel struct {
	ID           string    `json:"id"`
	GroupID      string    `json:"group_id"`
	ChallengerID string    `json:"challenger_id"`
	OpponentID   string    `json:"opponent_id"`
	Difficulty   string    `json:"difficulty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
