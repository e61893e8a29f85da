package usecases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"bid-wiser.backend/internal/domain/entities"
	domainerrors "bid-wiser.backend/internal/domain/errors"
	"bid-wiser.backend/internal/domain/repositories"
	"bid-wiser.backend/pkg/crypto"
	"bid-wiser.backend/pkg/jwt"
	"bid-wiser.backend/pkg/utils"
)

const otpMailSubject = "Account Verification - BidWiser"

// SessionRevoker invalidates an issued session token until its natural expiry.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

// AccountUsecase orchestrates registration, login, OTP verification and the
// rest of the account lifecycle. Validation and storage failures are fatal;
// notifier failures never are.
type AccountUsecase struct {
	userRepo   repositories.UserRepository
	imageStore repositories.ImageStore
	notifier   repositories.Notifier
	revoker    SessionRevoker
	jwtService *jwt.JWTService
	devMode    bool
	otpTTL     time.Duration
	now        func() time.Time
}

// NewAccountUsecase creates a new account usecase. The environment is passed
// in explicitly so dev-only behavior (OTP echo) is deterministic and testable.
func NewAccountUsecase(
	userRepo repositories.UserRepository,
	imageStore repositories.ImageStore,
	notifier repositories.Notifier,
	revoker SessionRevoker,
	jwtService *jwt.JWTService,
	env string,
	otpTTL time.Duration,
) *AccountUsecase {
	return &AccountUsecase{
		userRepo:   userRepo,
		imageStore: imageStore,
		notifier:   notifier,
		revoker:    revoker,
		jwtService: jwtService,
		devMode:    env == "development",
		otpTTL:     otpTTL,
		now:        time.Now,
	}
}

// RegisterResult is the outcome of a registration.
type RegisterResult struct {
	User *entities.User
	// Token is set only for Super Admin, whose verification is bypassed.
	Token        string
	Notification *entities.NotificationOutcome
	// DevOTP echoes the generated code in development mode only.
	DevOTP int64
}

// LoginResult is the outcome of a login attempt.
type LoginResult struct {
	User                 *entities.User
	Token                string
	RequiresVerification bool
	Notification         *entities.NotificationOutcome
	DevOTP               int64
}

// VerifyResult is the outcome of a successful OTP verification.
type VerifyResult struct {
	User  *entities.User
	Token string
}

// ResendResult is the outcome of an OTP resend.
type ResendResult struct {
	Notification *entities.NotificationOutcome
	DevOTP       int64
}

// Register validates the submitted form, uploads the profile image, persists
// the new account and issues an OTP (or, for Super Admin, a session).
// The duplicate-email check runs before the upload to avoid wasted work.
func (u *AccountUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*RegisterResult, error) {
	if input.Image == nil {
		return nil, domainerrors.Validation("Profile image required")
	}
	if !entities.AllowedImageTypes[input.Image.ContentType] {
		return nil, domainerrors.Validation("File format not supported")
	}
	if missing := input.MissingIdentityFields(); len(missing) > 0 {
		return nil, domainerrors.Validation("Please fill full form, missing: " + strings.Join(missing, ", "))
	}

	role, ok := entities.ParseRole(input.Role)
	if !ok {
		return nil, domainerrors.Validation("Unknown role: " + input.Role)
	}
	if missing := input.MissingPaymentFields(role); len(missing) > 0 {
		return nil, domainerrors.Validation("Please provide your full payment details, missing: " + strings.Join(missing, ", "))
	}

	email := entities.NormalizeEmail(input.Email)
	_, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domainerrors.Duplicate("User already registered")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	image, err := u.imageStore.Upload(ctx, input.Image)
	if err != nil {
		return nil, domainerrors.Upstream("Failed to upload profile image", err)
	}
	if image == nil {
		return nil, domainerrors.Upstream("Image store returned no reference", domainerrors.ErrUpstream)
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		UserName:     strings.TrimSpace(input.UserName),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: passwordHash,
		Role:         role,
		Address:      strings.TrimSpace(input.Address),
		ProfileImage: *image,
		PaymentMethods: entities.PaymentMethods{
			BankTransfer: entities.BankTransfer{
				BankAccountNumber: strings.TrimSpace(input.BankAccountNumber),
				BankAccountName:   strings.TrimSpace(input.BankAccountName),
				BankName:          strings.TrimSpace(input.BankName),
			},
			RazorpayAccountNumber: strings.TrimSpace(input.RazorpayAccountNumber),
			PaypalEmail:           strings.TrimSpace(input.PaypalEmail),
		},
		IsVerified: !role.RequiresVerification(),
	}

	var otp int64
	if role.RequiresVerification() {
		otp, err = crypto.GenerateOTP()
		if err != nil {
			return nil, err
		}
		user.OTP = null.Int64From(otp)
		user.OTPIssuedAt = null.TimeFrom(u.now())
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		// Unique-email index is the backstop for the check-then-insert race.
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Duplicate("User already registered")
		}
		return nil, err
	}

	result := &RegisterResult{User: user}

	if !role.RequiresVerification() {
		token, err := u.jwtService.GenerateToken(user.ID, user.Email, string(user.Role))
		if err != nil {
			return nil, err
		}
		result.Token = token
		return result, nil
	}

	outcome := u.notifier.Send(ctx, user.Email, otpMailSubject, u.otpMessage(otp))
	result.Notification = &outcome
	if u.devMode {
		result.DevOTP = otp
	}
	return result, nil
}

// Login checks credentials. An unverified account always gets a fresh OTP and
// no session; only a verified account yields a session token. Unknown email
// and wrong password are indistinguishable to the caller.
func (u *AccountUsecase) Login(ctx context.Context, input *entities.LoginInput) (*LoginResult, error) {
	email := entities.NormalizeEmail(input.Email)
	password := strings.TrimSpace(input.Password)
	if email == "" || password == "" {
		return nil, domainerrors.Validation("Please provide both email and password")
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Auth("Invalid credentials")
		}
		return nil, err
	}
	if !crypto.CheckPassword(password, user.PasswordHash) {
		return nil, domainerrors.Auth("Invalid credentials")
	}

	if !user.IsVerified {
		otp, err := crypto.GenerateOTP()
		if err != nil {
			return nil, err
		}
		issuedAt := u.now()
		if err := u.userRepo.SetOTP(ctx, user.ID, otp, issuedAt); err != nil {
			return nil, err
		}
		user.OTP = null.Int64From(otp)
		user.OTPIssuedAt = null.TimeFrom(issuedAt)

		outcome := u.notifier.Send(ctx, user.Email, otpMailSubject, u.otpMessage(otp))
		result := &LoginResult{
			User:                 user,
			RequiresVerification: true,
			Notification:         &outcome,
		}
		if u.devMode {
			result.DevOTP = otp
		}
		return result, nil
	}

	token, err := u.jwtService.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}

// VerifyAccount consumes an OTP: on match the account becomes verified, the
// code is cleared and a session is issued in the same step.
func (u *AccountUsecase) VerifyAccount(ctx context.Context, input *entities.VerifyInput) (*VerifyResult, error) {
	email := entities.NormalizeEmail(input.Email)
	code := strings.TrimSpace(input.OTP)
	if email == "" || code == "" {
		return nil, domainerrors.Validation("Email and OTP are required")
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}

	provided, err := strconv.ParseInt(code, 10, 64)
	if err != nil {
		return nil, domainerrors.Auth("Invalid OTP")
	}
	// An expired code fails exactly like a wrong one.
	if !user.HasLiveOTP(u.otpTTL, u.now()) {
		return nil, domainerrors.Auth("Invalid OTP")
	}
	if user.OTP.Int64 != provided {
		return nil, domainerrors.Auth("Invalid OTP")
	}

	if err := u.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	user.IsVerified = true
	user.OTP = null.Int64{}
	user.OTPIssuedAt = null.Time{}

	token, err := u.jwtService.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &VerifyResult{User: user, Token: token}, nil
}

// ResendOTP rotates the verification code on an unverified account. The
// response is success even when delivery fails: the code is saved either way.
func (u *AccountUsecase) ResendOTP(ctx context.Context, email string) (*ResendResult, error) {
	email = entities.NormalizeEmail(email)
	if email == "" {
		return nil, domainerrors.Validation("Email is required")
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}
	if user.IsVerified {
		return nil, domainerrors.AlreadyVerified("Account is already verified")
	}

	otp, err := crypto.GenerateOTP()
	if err != nil {
		return nil, err
	}
	if err := u.userRepo.SetOTP(ctx, user.ID, otp, u.now()); err != nil {
		return nil, err
	}

	outcome := u.notifier.Send(ctx, user.Email, otpMailSubject, u.otpMessage(otp))
	result := &ResendResult{Notification: &outcome}
	if u.devMode {
		result.DevOTP = otp
	}
	return result, nil
}

// Logout revokes the session token until it would have expired anyway.
func (u *AccountUsecase) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return u.revoker.Revoke(ctx, tokenID, time.Until(expiresAt))
}

// GetUserByID gets a user by ID
func (u *AccountUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// Leaderboard returns users with money spent, biggest spenders first.
func (u *AccountUsecase) Leaderboard(ctx context.Context, page, limit int) ([]*entities.User, utils.PaginationMeta, error) {
	params := utils.GetPaginationParams(page, limit)
	users, total, err := u.userRepo.Leaderboard(ctx, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return users, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

func (u *AccountUsecase) otpMessage(otp int64) string {
	return fmt.Sprintf("Your OTP for account verification is: %d. This OTP is valid for %d minutes.", otp, int(u.otpTTL.Minutes()))
}
