package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lambojac/mirriora/internal/core/domain"
)

// ErrorResponse is the uniform error envelope: success is always false and
// message carries the client-facing reason.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, message string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Success: false,
		Message: message,
		TraceID: traceIDStr,
	}
}

// MessageResponse is the uniform success envelope for operations with no payload.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func newMessageResponse(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}

// UserSummary is the sanitized account projection returned by the API.
// Credential and code material never appears here.
type UserSummary struct {
	ID         string    `json:"id"`
	FullName   string    `json:"fullName"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

func newUserSummary(user domain.User) UserSummary {
	return UserSummary{
		ID:         user.ID,
		FullName:   user.FullName,
		Email:      user.Email,
		Phone:      user.Phone,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse contains registration results and next steps.
type RegisterResponse struct {
	Success          bool        `json:"success"`
	Message          string      `json:"message"`
	VerificationSent bool        `json:"verificationSent"`
	User             UserSummary `json:"user"`
}

// LoginRequest defines the login payload. Identifier is an email or phone.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token and the account projection.
type LoginResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}

// VerifyOTPRequest holds the account verification payload.
type VerifyOTPRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	OTP        string `json:"otp" binding:"required"`
}

// ResendOTPRequest asks for a fresh one-time code.
type ResendOTPRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

// PasswordResetRequest initiates the reset state machine.
type PasswordResetRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

// PasswordResetResponse reports where the reset code went.
type PasswordResetResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	MaskedDestination string `json:"maskedDestination,omitempty"`
}

// VerifyResetOTPRequest holds the reset code check payload. Identifier is
// optional; older clients send the code alone.
type VerifyResetOTPRequest struct {
	Identifier string `json:"identifier"`
	OTP        string `json:"otp" binding:"required"`
}

// VerifyResetOTPResponse identifies the account whose code was accepted.
type VerifyResetOTPResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	UserID     string `json:"userId"`
	Identifier string `json:"identifier"`
}

// ResetPasswordRequest commits the new password.
type ResetPasswordRequest struct {
	Identifier      string `json:"identifier" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// ChangePasswordRequest rotates the password of the authenticated account.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// DeleteAccountRequest confirms deletion with the current password.
type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// ProfileResponse wraps the account projection.
type ProfileResponse struct {
	Success bool        `json:"success"`
	User    UserSummary `json:"user"`
}

// JournalPayload is the API view of a journal entry.
type JournalPayload struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newJournalPayload(journal domain.Journal) JournalPayload {
	return JournalPayload{
		ID:          journal.ID,
		Title:       journal.Title,
		Description: journal.Description,
		CreatedAt:   journal.CreatedAt,
		UpdatedAt:   journal.UpdatedAt,
	}
}

// JournalCreateRequest defines the payload for creating a journal entry.
type JournalCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// JournalUpdateRequest defines a partial journal update.
type JournalUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// JournalResponse wraps a single journal entry.
type JournalResponse struct {
	Success bool           `json:"success"`
	Journal JournalPayload `json:"journal"`
}

// JournalListResponse wraps a journal collection.
type JournalListResponse struct {
	Success  bool             `json:"success"`
	Journals []JournalPayload `json:"journals"`
}

// ChallengeTaskPayload is the API view of a challenge task.
type ChallengeTaskPayload struct {
	Title    string `json:"title"`
	Complete bool   `json:"complete"`
}

// ChallengePayload is the API view of a challenge.
type ChallengePayload struct {
	ID           string                 `json:"id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	Tasks        []ChallengeTaskPayload `json:"tasks"`
	PersonalNote string                 `json:"personalNote,omitempty"`
	ScanResult   []map[string]any       `json:"scanResult,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

func newChallengePayload(challenge domain.Challenge) ChallengePayload {
	tasks := make([]ChallengeTaskPayload, 0, len(challenge.Tasks))
	for _, task := range challenge.Tasks {
		tasks = append(tasks, ChallengeTaskPayload{Title: task.Title, Complete: task.Complete})
	}

	return ChallengePayload{
		ID:           challenge.ID,
		Title:        challenge.Title,
		Description:  challenge.Description,
		Tasks:        tasks,
		PersonalNote: challenge.PersonalNote,
		ScanResult:   challenge.ScanResult,
		CreatedAt:    challenge.CreatedAt,
		UpdatedAt:    challenge.UpdatedAt,
	}
}

// ChallengeCreateRequest defines the payload for creating a challenge.
type ChallengeCreateRequest struct {
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description"`
	Tasks       []ChallengeTaskPayload `json:"tasks"`
	ScanResult  []map[string]any       `json:"scanResult"`
}

// ChallengeNoteRequest replaces the personal note on a challenge.
type ChallengeNoteRequest struct {
	PersonalNote string `json:"personalNote" binding:"required"`
}

// ChallengeResponse wraps a single challenge.
type ChallengeResponse struct {
	Success   bool             `json:"success"`
	Challenge ChallengePayload `json:"challenge"`
}

// ChallengeListResponse wraps a challenge collection.
type ChallengeListResponse struct {
	Success    bool               `json:"success"`
	Challenges []ChallengePayload `json:"challenges"`
}

// SurveyQuestionPayload is the API view of a survey question.
type SurveyQuestionPayload struct {
	ID           string   `json:"id"`
	QuestionText string   `json:"questionText"`
	Options      []string `json:"options"`
	OrderNumber  int      `json:"orderNumber"`
}

func newSurveyQuestionPayload(question domain.SurveyQuestion) SurveyQuestionPayload {
	return SurveyQuestionPayload{
		ID:           question.ID,
		QuestionText: question.QuestionText,
		Options:      question.Options,
		OrderNumber:  question.OrderNumber,
	}
}

// SurveyAnswerPayload is the API view of a recorded answer.
type SurveyAnswerPayload struct {
	ID         string                 `json:"id"`
	QuestionID string                 `json:"questionId"`
	Answer     string                 `json:"answer"`
	CreatedAt  time.Time              `json:"createdAt"`
	Question   *SurveyQuestionPayload `json:"question,omitempty"`
}

func newSurveyAnswerPayload(answer domain.SurveyAnswer) SurveyAnswerPayload {
	payload := SurveyAnswerPayload{
		ID:         answer.ID,
		QuestionID: answer.QuestionID,
		Answer:     answer.Answer,
		CreatedAt:  answer.CreatedAt,
	}

	if answer.Question != nil {
		question := newSurveyQuestionPayload(*answer.Question)
		payload.Question = &question
	}

	return payload
}

// SurveyAnswerRequest submits an answer to a question.
type SurveyAnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

// SurveyQuestionResponse wraps a single question.
type SurveyQuestionResponse struct {
	Success  bool                  `json:"success"`
	Question SurveyQuestionPayload `json:"question"`
}

// SurveyQuestionListResponse wraps a question collection.
type SurveyQuestionListResponse struct {
	Success   bool                    `json:"success"`
	Questions []SurveyQuestionPayload `json:"questions"`
}

// SurveyAnswerResponse wraps a recorded answer.
type SurveyAnswerResponse struct {
	Success bool                `json:"success"`
	Answer  SurveyAnswerPayload `json:"answer"`
}

// SurveyAnswerListResponse wraps an answer collection.
type SurveyAnswerListResponse struct {
	Success bool                  `json:"success"`
	Answers []SurveyAnswerPayload `json:"answers"`
}

// ScanPayload is the API view of scan metadata.
type ScanPayload struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newScanPayload(scan domain.Scan) ScanPayload {
	return ScanPayload{
		ID:          scan.ID,
		FileName:    scan.FileName,
		ContentType: scan.ContentType,
		SizeBytes:   scan.SizeBytes,
		CreatedAt:   scan.CreatedAt,
	}
}

// ScanResponse wraps a single scan.
type ScanResponse struct {
	Success bool        `json:"success"`
	Scan    ScanPayload `json:"scan"`
}

// ScanListResponse wraps a scan collection.
type ScanListResponse struct {
	Success bool          `json:"success"`
	Scans   []ScanPayload `json:"scans"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
