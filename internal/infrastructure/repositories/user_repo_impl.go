package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"bid-wiser.backend/internal/domain/entities"
	domainerrors "bid-wiser.backend/internal/domain/errors"
	"bid-wiser.backend/internal/infrastructure/models"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := toModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toEntity(&m), nil
}

// GetByEmail gets a user by (normalized) email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toEntity(&m), nil
}

// SetOTP stores a fresh OTP, overwriting any previous one
func (r *UserRepository) SetOTP(ctx context.Context, id uuid.UUID, otp int64, issuedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"otp":           otp,
		"otp_issued_at": issuedAt,
		"updated_at":    time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkVerified sets is_verified and clears the OTP in one write
func (r *UserRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_verified":   true,
		"otp":           nil,
		"otp_issued_at": nil,
		"updated_at":    time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ClearExpiredOTPs nulls out stale codes on unverified accounts
func (r *UserRepository) ClearExpiredOTPs(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("is_verified = ? AND otp IS NOT NULL AND otp_issued_at < ?", false, cutoff).
		Updates(map[string]interface{}{
			"otp":           nil,
			"otp_issued_at": nil,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Leaderboard returns spenders ordered by money_spent descending
func (r *UserRepository) Leaderboard(ctx context.Context, limit, offset int) ([]*entities.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("money_spent > 0").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Model(&models.User{}).
		Where("money_spent > 0").
		Order("money_spent DESC, created_at ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var userModels []models.User
	if err := query.Find(&userModels).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*entities.User, 0, len(userModels))
	for i := range userModels {
		users = append(users, toEntity(&userModels[i]))
	}
	return users, total, nil
}

func toModel(u *entities.User) *models.User {
	m := &models.User{
		ID:                    u.ID,
		UserName:              u.UserName,
		Email:                 u.Email,
		Phone:                 u.Phone,
		PasswordHash:          u.PasswordHash,
		Role:                  string(u.Role),
		Address:               u.Address,
		ProfileImageID:        u.ProfileImage.ID,
		ProfileImageURL:       u.ProfileImage.URL,
		BankAccountNumber:     u.PaymentMethods.BankTransfer.BankAccountNumber,
		BankAccountName:       u.PaymentMethods.BankTransfer.BankAccountName,
		BankName:              u.PaymentMethods.BankTransfer.BankName,
		RazorpayAccountNumber: u.PaymentMethods.RazorpayAccountNumber,
		PaypalEmail:           u.PaymentMethods.PaypalEmail,
		IsVerified:            u.IsVerified,
		MoneySpent:            u.MoneySpent,
	}
	if u.OTP.Valid {
		otp := u.OTP.Int64
		m.OTP = &otp
	}
	if u.OTPIssuedAt.Valid {
		issuedAt := u.OTPIssuedAt.Time
		m.OTPIssuedAt = &issuedAt
	}
	return m
}

func toEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:           m.ID,
		UserName:     m.UserName,
		Email:        m.Email,
		Phone:        m.Phone,
		PasswordHash: m.PasswordHash,
		Role:         entities.Role(m.Role),
		Address:      m.Address,
		ProfileImage: entities.ProfileImage{
			ID:  m.ProfileImageID,
			URL: m.ProfileImageURL,
		},
		PaymentMethods: entities.PaymentMethods{
			BankTransfer: entities.BankTransfer{
				BankAccountNumber: m.BankAccountNumber,
				BankAccountName:   m.BankAccountName,
				BankName:          m.BankName,
			},
			RazorpayAccountNumber: m.RazorpayAccountNumber,
			PaypalEmail:           m.PaypalEmail,
		},
		IsVerified:  m.IsVerified,
		OTP:         null.Int64FromPtr(m.OTP),
		OTPIssuedAt: null.TimeFromPtr(m.OTPIssuedAt),
		MoneySpent:  m.MoneySpent,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
