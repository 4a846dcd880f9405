package usecase

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/lambojac/mirriora/internal/core/domain"
	"github.com/lambojac/mirriora/internal/core/port"
	"github.com/lambojac/mirriora/internal/repository"
)

type mockUserRepository struct {
	createErr   error
	createCalls int
	createdUser domain.User

	byID    *domain.User
	byIDErr error

	byEmail     *domain.User
	byEmailErr  error
	byEmailLast string

	byPhone     *domain.User
	byPhoneErr  error
	byPhoneLast string

	byResetHash     *domain.User
	byResetHashErr  error
	byResetHashLast string

	setVerificationErr     error
	setVerificationCalls   int
	setVerificationHash    string
	setVerificationExpires time.Time

	markVerifiedErr   error
	markVerifiedCalls int
	markVerifiedID    string

	setResetErr     error
	setResetCalls   int
	setResetHash    string
	setResetExpires time.Time

	markResetVerifiedErr   error
	markResetVerifiedCalls int
	markResetVerifiedID    string

	commitErr   error
	commitCalls int
	commitID    string
	commitHash  string
	commitAlgo  string

	updatePasswordErr   error
	updatePasswordCalls int
	updatePasswordHash  string

	deleteErr   error
	deleteCalls int
	deleteID    string
}

func (m *mockUserRepository) Create(_ context.Context, user domain.User) error {
	m.createCalls++
	m.createdUser = user
	return m.createErr
}

func (m *mockUserRepository) GetByID(context.Context, string) (*domain.User, error) {
	if m.byIDErr != nil {
		return nil, m.byIDErr
	}
	if m.byID == nil {
		return nil, repository.ErrNotFound
	}
	clone := *m.byID
	return &clone, nil
}

func (m *mockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.byEmailLast = email
	if m.byEmailErr != nil {
		return nil, m.byEmailErr
	}
	if m.byEmail == nil {
		return nil, repository.ErrNotFound
	}
	clone := *m.byEmail
	return &clone, nil
}

func (m *mockUserRepository) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	m.byPhoneLast = phone
	if m.byPhoneErr != nil {
		return nil, m.byPhoneErr
	}
	if m.byPhone == nil {
		return nil, repository.ErrNotFound
	}
	clone := *m.byPhone
	return &clone, nil
}

func (m *mockUserRepository) GetByResetTokenHash(_ context.Context, tokenHash string) (*domain.User, error) {
	m.byResetHashLast = tokenHash
	if m.byResetHashErr != nil {
		return nil, m.byResetHashErr
	}
	if m.byResetHash == nil {
		return nil, repository.ErrNotFound
	}
	clone := *m.byResetHash
	return &clone, nil
}

func (m *mockUserRepository) SetVerificationCode(_ context.Context, _ string, codeHash string, expires time.Time) error {
	m.setVerificationCalls++
	m.setVerificationHash = codeHash
	m.setVerificationExpires = expires
	return m.setVerificationErr
}

func (m *mockUserRepository) MarkVerified(_ context.Context, id string) error {
	m.markVerifiedCalls++
	m.markVerifiedID = id
	return m.markVerifiedErr
}

func (m *mockUserRepository) SetResetToken(_ context.Context, _ string, tokenHash string, expires time.Time) error {
	m.setResetCalls++
	m.setResetHash = tokenHash
	m.setResetExpires = expires
	return m.setResetErr
}

func (m *mockUserRepository) MarkResetVerified(_ context.Context, id string) error {
	m.markResetVerifiedCalls++
	m.markResetVerifiedID = id
	return m.markResetVerifiedErr
}

func (m *mockUserRepository) CommitPassword(_ context.Context, id, passwordHash, passwordAlgo string) error {
	m.commitCalls++
	m.commitID = id
	m.commitHash = passwordHash
	m.commitAlgo = passwordAlgo
	return m.commitErr
}

func (m *mockUserRepository) UpdatePassword(_ context.Context, _ string, passwordHash, _ string) error {
	m.updatePasswordCalls++
	m.updatePasswordHash = passwordHash
	return m.updatePasswordErr
}

func (m *mockUserRepository) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	m.deleteID = id
	return m.deleteErr
}

var _ port.UserRepository = (*mockUserRepository)(nil)

type mockDispatcher struct {
	sent []port.OTPNotification
	err  error
}

func (m *mockDispatcher) SendOTP(_ context.Context, n port.OTPNotification) error {
	m.sent = append(m.sent, n)
	return m.err
}

type mockPublisher struct {
	registered     []domain.UserRegisteredEvent
	verified       []domain.UserVerifiedEvent
	resetRequested []domain.PasswordResetRequestedEvent
	changed        []domain.PasswordChangedEvent
	deleted        []domain.UserDeletedEvent
	err            error
}

func (m *mockPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	m.registered = append(m.registered, event)
	return m.err
}

func (m *mockPublisher) PublishUserVerified(_ context.Context, event domain.UserVerifiedEvent) error {
	m.verified = append(m.verified, event)
	return m.err
}

func (m *mockPublisher) PublishPasswordResetRequested(_ context.Context, event domain.PasswordResetRequestedEvent) error {
	m.resetRequested = append(m.resetRequested, event)
	return m.err
}

func (m *mockPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	m.changed = append(m.changed, event)
	return m.err
}

func (m *mockPublisher) PublishUserDeleted(_ context.Context, event domain.UserDeletedEvent) error {
	m.deleted = append(m.deleted, event)
	return m.err
}

var _ port.EventPublisher = (*mockPublisher)(nil)

type mockJournalRepository struct {
	createErr error
	created   []domain.Journal

	byID    *domain.Journal
	byIDErr error

	listResult []domain.Journal
	listErr    error

	updateErr  error
	updated    []domain.Journal
	deleteErr  error
	deletedIDs []string
}

func (m *mockJournalRepository) Create(_ context.Context, journal domain.Journal) error {
	m.created = append(m.created, journal)
	return m.createErr
}

func (m *mockJournalRepository) GetByID(context.Context, string, string) (*domain.Journal, error) {
	if m.byIDErr != nil {
		return nil, m.byIDErr
	}
	if m.byID == nil {
		return nil, repository.ErrNotFound
	}
	clone := *m.byID
	return &clone, nil
}

func (m *mockJournalRepository) ListByUser(context.Context, string) ([]domain.Journal, error) {
	return m.listResult, m.listErr
}

func (m *mockJournalRepository) Update(_ context.Context, journal domain.Journal) error {
	m.updated = append(m.updated, journal)
	return m.updateErr
}

func (m *mockJournalRepository) Delete(_ context.Context, _ string, id string) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return m.deleteErr
}

var _ port.JournalRepository = (*mockJournalRepository)(nil)

type mockChallengeRepository struct {
	createErr error
	created   []domain.Challenge

	byID    *domain.Challenge
	byIDErr error

	listResult []domain.Challenge
	listErr    error

	updateTasksErr  error
	updatedTasks    []domain.ChallengeTask
	updateNoteErr   error
	updatedNote     string
	deleteErr       error
	deletedIDs      []string
	updateTasksID   string
	updateTasksUser string
}

func (m *mockChallengeRepository) Create(_ context.Context, challenge domain.Challenge) error {
	m.created = append(m.created, challenge)
	return m.createErr
}

func (m *mockChallengeRepository) GetByID(context.Context, string, string) (*domain.Challenge, error) {
	if m.byIDErr != nil {
		return nil, m.byIDErr
	}
	if m.byID == nil {
		return nil, repository.ErrNotFound
	}
	clone := *m.byID
	clone.Tasks = append([]domain.ChallengeTask(nil), m.byID.Tasks...)
	return &clone, nil
}

func (m *mockChallengeRepository) ListByUser(context.Context, string) ([]domain.Challenge, error) {
	return m.listResult, m.listErr
}

func (m *mockChallengeRepository) UpdateTasks(_ context.Context, userID, id string, tasks []domain.ChallengeTask) error {
	m.updateTasksUser = userID
	m.updateTasksID = id
	m.updatedTasks = tasks
	return m.updateTasksErr
}

func (m *mockChallengeRepository) UpdatePersonalNote(_ context.Context, _, _ string, note string) error {
	m.updatedNote = note
	return m.updateNoteErr
}

func (m *mockChallengeRepository) Delete(_ context.Context, _ string, id string) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return m.deleteErr
}

var _ port.ChallengeRepository = (*mockChallengeRepository)(nil)

type mockSurveyRepository struct {
	questions    []domain.SurveyQuestion
	questionsErr error

	unanswered    []domain.SurveyQuestion
	unansweredErr error

	answers    []domain.SurveyAnswer
	answersErr error

	getAnswerResult *domain.SurveyAnswer
	getAnswerErr    error

	createAnswerErr error
	createdAnswers  []domain.SurveyAnswer
}

func (m *mockSurveyRepository) ListQuestions(context.Context) ([]domain.SurveyQuestion, error) {
	return m.questions, m.questionsErr
}

func (m *mockSurveyRepository) ListUnanswered(context.Context, string) ([]domain.SurveyQuestion, error) {
	return m.unanswered, m.unansweredErr
}

func (m *mockSurveyRepository) ListAnswers(context.Context, string) ([]domain.SurveyAnswer, error) {
	return m.answers, m.answersErr
}

func (m *mockSurveyRepository) GetAnswer(context.Context, string, string) (*domain.SurveyAnswer, error) {
	if m.getAnswerErr != nil {
		return nil, m.getAnswerErr
	}
	if m.getAnswerResult == nil {
		return nil, repository.ErrNotFound
	}
	clone := *m.getAnswerResult
	return &clone, nil
}

func (m *mockSurveyRepository) CreateAnswer(_ context.Context, answer domain.SurveyAnswer) error {
	m.createdAnswers = append(m.createdAnswers, answer)
	return m.createAnswerErr
}

var _ port.SurveyRepository = (*mockSurveyRepository)(nil)

type mockScanRepository struct {
	createErr error
	created   []domain.Scan

	byID    *domain.Scan
	byIDErr error

	listResult []domain.Scan
	listErr    error

	deleteErr  error
	deletedIDs []string
}

func (m *mockScanRepository) Create(_ context.Context, scan domain.Scan) error {
	m.created = append(m.created, scan)
	return m.createErr
}

func (m *mockScanRepository) GetByID(context.Context, string, string) (*domain.Scan, error) {
	if m.byIDErr != nil {
		return nil, m.byIDErr
	}
	if m.byID == nil {
		return nil, repository.ErrNotFound
	}
	clone := *m.byID
	return &clone, nil
}

func (m *mockScanRepository) ListByUser(context.Context, string) ([]domain.Scan, error) {
	return m.listResult, m.listErr
}

func (m *mockScanRepository) Delete(_ context.Context, _ string, id string) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return m.deleteErr
}

var _ port.ScanRepository = (*mockScanRepository)(nil)

type mockObjectStore struct {
	uploadErr   error
	uploadKey   string
	uploadType  string
	uploadSize  int64
	uploadCalls int

	downloadErr  error
	downloadData []byte

	deleteErr  error
	deleteKeys []string
}

func (m *mockObjectStore) Upload(_ context.Context, key, contentType string, _ io.Reader, size int64) error {
	m.uploadCalls++
	m.uploadKey = key
	m.uploadType = contentType
	m.uploadSize = size
	return m.uploadErr
}

func (m *mockObjectStore) Download(context.Context, string) (io.ReadCloser, error) {
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	return io.NopCloser(bytes.NewReader(m.downloadData)), nil
}

func (m *mockObjectStore) Delete(_ context.Context, key string) error {
	m.deleteKeys = append(m.deleteKeys, key)
	return m.deleteErr
}

var _ port.ObjectStore = (*mockObjectStore)(nil)
