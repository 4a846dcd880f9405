package domain

import "time"

// SurveyQuestion is a globally ordered onboarding question.
type SurveyQuestion struct {
	ID           string
	QuestionText string
	Options      []string
	OrderNumber  int
}

// SurveyAnswer records a user's single answer to a question.
// (user_id, question_id) is unique: a question can only be answered once.
type SurveyAnswer struct {
	ID         string
	UserID     string
	QuestionID string
	Answer     string
	CreatedAt  time.Time

	// Question is populated on reads that join the question row.
	Question *SurveyQuestion
}
