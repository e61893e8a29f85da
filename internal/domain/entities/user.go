package entities

import (
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Role represents the account role
type Role string

const (
	RoleBidder     Role = "Bidder"
	RoleAuctioneer Role = "Auctioneer"
	RoleSuperAdmin Role = "Super Admin"
)

// ParseRole maps a submitted role string onto the closed enumeration.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.TrimSpace(s)) {
	case RoleBidder:
		return RoleBidder, true
	case RoleAuctioneer:
		return RoleAuctioneer, true
	case RoleSuperAdmin:
		return RoleSuperAdmin, true
	}
	return "", false
}

// RequiresVerification reports whether the role must pass OTP verification
// before a session is issued. Super Admin is an intentional bypass.
func (r Role) RequiresVerification() bool {
	return r != RoleSuperAdmin
}

// requiredPaymentFields is the capability table mapping each role to the
// payment-profile fields it must supply at registration.
var requiredPaymentFields = map[Role][]string{
	RoleAuctioneer: {
		"bankAccountNumber",
		"bankAccountName",
		"bankName",
		"razorpayAccountNumber",
		"paypalEmail",
	},
}

// AllowedImageTypes is the media-type allow list for profile images.
var AllowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// ProfileImage is an opaque reference into the image store.
type ProfileImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// BankTransfer holds the bank transfer group of the payment profile.
type BankTransfer struct {
	BankAccountNumber string `json:"bankAccountNumber"`
	BankAccountName   string `json:"bankAccountName"`
	BankName          string `json:"bankName"`
}

// PaymentMethods holds the full payment profile. For non-Auctioneer roles all
// fields are empty placeholders, never null, so the record shape stays uniform.
type PaymentMethods struct {
	BankTransfer          BankTransfer `json:"bankTransfer"`
	RazorpayAccountNumber string       `json:"razorpayAccountNumber"`
	PaypalEmail           string       `json:"paypalEmail"`
}

// User represents an account
type User struct {
	ID             uuid.UUID      `json:"id"`
	UserName       string         `json:"userName"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	PasswordHash   string         `json:"-"`
	Role           Role           `json:"role"`
	Address        string         `json:"address"`
	ProfileImage   ProfileImage   `json:"profileImage"`
	PaymentMethods PaymentMethods `json:"paymentMethods"`
	IsVerified     bool           `json:"isVerified"`
	OTP            null.Int64     `json:"-"`
	OTPIssuedAt    null.Time      `json:"-"`
	MoneySpent     int64          `json:"moneySpent"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// HasLiveOTP reports whether an OTP is currently set and was issued within ttl.
func (u *User) HasLiveOTP(ttl time.Duration, now time.Time) bool {
	if !u.OTP.Valid {
		return false
	}
	if !u.OTPIssuedAt.Valid {
		// No issuance timestamp recorded; treat the code as live to stay
		// compatible with rows written before expiry enforcement existed.
		return true
	}
	return now.Sub(u.OTPIssuedAt.Time) <= ttl
}

// ImageUpload carries a submitted profile image into the image store.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// RegisterInput represents input for account registration.
type RegisterInput struct {
	UserName string
	Email    string
	Phone    string
	Password string
	Address  string
	Role     string

	BankAccountNumber     string
	BankAccountName       string
	BankName              string
	RazorpayAccountNumber string
	PaypalEmail           string

	Image *ImageUpload
}

// MissingIdentityFields returns the required identity fields absent from the input.
func (in *RegisterInput) MissingIdentityFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"userName", in.UserName},
		{"email", in.Email},
		{"phone", in.Phone},
		{"password", in.Password},
		{"address", in.Address},
		{"role", in.Role},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// MissingPaymentFields returns the payment-profile fields the role requires
// but the input does not supply.
func (in *RegisterInput) MissingPaymentFields(role Role) []string {
	values := map[string]string{
		"bankAccountNumber":     in.BankAccountNumber,
		"bankAccountName":       in.BankAccountName,
		"bankName":              in.BankName,
		"razorpayAccountNumber": in.RazorpayAccountNumber,
		"paypalEmail":           in.PaypalEmail,
	}
	var missing []string
	for _, field := range requiredPaymentFields[role] {
		if strings.TrimSpace(values[field]) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// LoginInput represents input for login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyInput represents input for OTP verification.
type VerifyInput struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// NotificationOutcome reports a best-effort notifier call. A failed send never
// aborts the surrounding state mutation; it is surfaced here instead.
type NotificationOutcome struct {
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}

// NormalizeEmail lower-cases and trims an email so the unique-email invariant
// is effectively case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
