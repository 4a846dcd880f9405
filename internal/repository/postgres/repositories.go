package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Users      *UserRepository
	Journals   *JournalRepository
	Challenges *ChallengeRepository
	Surveys    *SurveyRepository
	Scans      *ScanRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(pool),
		Journals:   NewJournalRepository(pool),
		Challenges: NewChallengeRepository(pool),
		Surveys:    NewSurveyRepository(pool),
		Scans:      NewScanRepository(pool),
	}
}
