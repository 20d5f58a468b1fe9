package qna

import "time"

// Question is a community question as stored and ranked. Questions are
// immutable inputs to the recommender for the duration of a scoring pass.
type Question struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Content     string    `json:"content" db:"content"`
	Category    string    `json:"category" db:"category"`
	AskedBy     string    `json:"asked_by" db:"asked_by"`
	AnswerCount int       `json:"answer_count" db:"answer_count"`
	FlowerCount int       `json:"flower_count" db:"flower_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	ImportedAt  time.Time `json:"imported_at" db:"imported_at"`
}

// User is the per-user aggregate the trust service scores. AnswerCount and
// FlowerCount are maintained by the main site whenever the user answers or
// receives an upvote; ReliabilityScore (stored as a 0-1 fraction) and
// TrustLevel are derived, written back only by the trust service.
type User struct {
	ID               string    `json:"id" db:"id"`
	DisplayName      string    `json:"display_name" db:"display_name"`
	AnswerCount      int       `json:"answer_count" db:"answer_count"`
	FlowerCount      int       `json:"flower_count" db:"flower_count"`
	LastActiveAt     time.Time `json:"last_active_at" db:"last_active_at"`
	ReliabilityScore float64   `json:"reliability_score" db:"reliability_score"`
	TrustLevel       string    `json:"trust_level" db:"trust_level"`
}
