package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"bid-wiser.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	// SetOTP stores a fresh OTP, unconditionally overwriting any prior one.
	SetOTP(ctx context.Context, id uuid.UUID, otp int64, issuedAt time.Time) error
	// MarkVerified sets is_verified and clears the OTP in one write.
	MarkVerified(ctx context.Context, id uuid.UUID) error
	// ClearExpiredOTPs nulls out codes issued before the cutoff on unverified
	// accounts; returns the number of rows touched.
	ClearExpiredOTPs(ctx context.Context, cutoff time.Time) (int64, error)
	// Leaderboard returns users with money_spent > 0 ordered descending,
	// along with the total count of qualifying users.
	Leaderboard(ctx context.Context, limit, offset int) ([]*entities.User, int64, error)
}

// ImageStore accepts an uploaded image and returns a stable reference.
type ImageStore interface {
	Upload(ctx context.Context, upload *entities.ImageUpload) (*entities.ProfileImage, error)
}

// Notifier delivers a message to an email address. Delivery is best-effort:
// failures are reported in the outcome, never raised.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) entities.NotificationOutcome
}
