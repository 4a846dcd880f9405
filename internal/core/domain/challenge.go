package domain

import "time"

// ChallengeTask is a single step inside a challenge.
type ChallengeTask struct {
	Title    string `json:"title"`
	Complete bool   `json:"complete"`
}

// Challenge groups tasks with an optional personal note and scan context.
type Challenge struct {
	ID           string
	UserID       string
	Title        string
	Description  string
	Tasks        []ChallengeTask
	PersonalNote string
	ScanResult   []map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
