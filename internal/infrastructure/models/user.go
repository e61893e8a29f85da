package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the persisted account row. The email unique index is the storage
// backstop for the duplicate check done in the usecase; payment profile
// columns are empty placeholders for non-auctioneers rather than NULL.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserName     string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone        string    `gorm:"type:varchar(30);not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(50);not null"`
	Address      string    `gorm:"type:varchar(255);not null"`

	ProfileImageID  string `gorm:"type:varchar(255);not null;default:''"`
	ProfileImageURL string `gorm:"type:varchar(512);not null;default:''"`

	BankAccountNumber     string `gorm:"type:varchar(64);not null;default:''"`
	BankAccountName       string `gorm:"type:varchar(100);not null;default:''"`
	BankName              string `gorm:"type:varchar(100);not null;default:''"`
	RazorpayAccountNumber string `gorm:"type:varchar(64);not null;default:''"`
	PaypalEmail           string `gorm:"type:varchar(255);not null;default:''"`

	IsVerified  bool       `gorm:"not null;default:false"`
	OTP         *int64     `gorm:"type:bigint"`
	OTPIssuedAt *time.Time `gorm:"type:timestamp"`
	MoneySpent  int64      `gorm:"not null;default:0;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
