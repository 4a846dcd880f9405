package port

import (
	"context"

	"github.com/lambojac/mirriora/internal/core/domain"
)

// EventPublisher fans domain events out to downstream consumers.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishUserVerified(ctx context.Context, event domain.UserVerifiedEvent) error
	PublishPasswordResetRequested(ctx context.Context, event domain.PasswordResetRequestedEvent) error
	PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error
	PublishUserDeleted(ctx context.Context, event domain.UserDeletedEvent) error
}
