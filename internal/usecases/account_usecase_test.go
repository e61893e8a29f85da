package usecases_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"bid-wiser.backend/internal/domain/entities"
	domainerrors "bid-wiser.backend/internal/domain/errors"
	"bid-wiser.backend/internal/usecases"
	"bid-wiser.backend/pkg/crypto"
	"bid-wiser.backend/pkg/jwt"
)

func newAccountUsecaseForTest(
	userRepo *MockUserRepository,
	imageStore *MockImageStore,
	notifier *MockNotifier,
	revoker *MockSessionRevoker,
	env string,
) *usecases.AccountUsecase {
	jwtSvc := jwt.NewJWTService("test-secret", time.Hour)
	return usecases.NewAccountUsecase(userRepo, imageStore, notifier, revoker, jwtSvc, env, 10*time.Minute)
}

func registerInput(role string) *entities.RegisterInput {
	return &entities.RegisterInput{
		UserName:              "Ravi Kumar",
		Email:                 "ravi@mail.com",
		Phone:                 "9876543210",
		Password:              "Password123!",
		Address:               "12 MG Road, Bengaluru",
		Role:                  role,
		BankAccountNumber:     "000111222333",
		BankAccountName:       "Ravi Kumar",
		BankName:              "State Bank",
		RazorpayAccountNumber: "rzp_acc_123",
		PaypalEmail:           "ravi@paypal.com",
		Image: &entities.ImageUpload{
			FileName:    "avatar.png",
			ContentType: "image/png",
			Size:        1024,
			Body:        strings.NewReader("not-a-real-png"),
		},
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestAccountUsecase_Register_MissingImage(t *testing.T) {
	uc := newAccountUsecaseForTest(new(MockUserRepository), new(MockImageStore), new(MockNotifier), new(MockSessionRevoker), "production")

	input := registerInput("Bidder")
	input.Image = nil
	_, err := uc.Register(context.Background(), input)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "invalid input")
	assertAppErrorCode(t, err, domainerrors.CodeValidation)
}

func TestAccountUsecase_Register_UnsupportedImageType(t *testing.T) {
	uc := newAccountUsecaseForTest(new(MockUserRepository), new(MockImageStore), new(MockNotifier), new(MockSessionRevoker), "production")

	input := registerInput("Bidder")
	input.Image.ContentType = "image/gif"
	_, err := uc.Register(context.Background(), input)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestAccountUsecase_Register_MissingIdentityFields(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newAccountUsecaseForTest(userRepo, new(MockImageStore), new(MockNotifier), new(MockSessionRevoker), "production")

	input := registerInput("Bidder")
	input.Phone = "  "
	input.Address = ""
	_, err := uc.Register(context.Background(), input)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "phone")
	assert.Contains(t, appErr.Message, "address")
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountUsecase_Register_UnknownRole(t *testing.T) {
	uc := newAccountUsecaseForTest(new(MockUserRepository), new(MockImageStore), new(MockNotifier), new(MockSessionRevoker), "production")

	input := registerInput("Moderator")
	_, err := uc.Register(context.Background(), input)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestAccountUsecase_Register_AuctioneerMissingEachPaymentField(t *testing.T) {
	cases := []struct {
		field string
		zero  func(*entities.RegisterInput)
	}{
		{"bankAccountNumber", func(in *entities.RegisterInput) { in.BankAccountNumber = "" }},
		{"bankAccountName", func(in *entities.RegisterInput) { in.BankAccountName = "" }},
		{"bankName", func(in *entities.RegisterInput) { in.BankName = "" }},
		{"razorpayAccountNumber", func(in *entities.RegisterInput) { in.RazorpayAccountNumber = "" }},
		{"paypalEmail", func(in *entities.RegisterInput) { in.PaypalEmail = "  " }},
	}

	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			imageStore := new(MockImageStore)
			uc := newAccountUsecaseForTest(userRepo, imageStore, new(MockNotifier), new(MockSessionRevoker), "production")

			input := registerInput("Auctioneer")
			tc.zero(input)
			_, err := uc.Register(context.Background(), input)
			assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

			var appErr *domainerrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Contains(t, appErr.Message, tc.field)
			userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			imageStore.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
		})
	}
}

func TestAccountUsecase_Register_BidderWithoutPaymentDetails(t *testing.T) {
	userRepo := new(MockUserRepository)
	imageStore := new(MockImageStore)
	notifier := new(MockNotifier)
	uc := newAccountUsecaseForTest(userRepo, imageStore, notifier, new(MockSessionRevoker), "production")

	input := registerInput("Bidder")
	input.BankAccountNumber = ""
	input.BankAccountName = ""
	input.BankName = ""
	input.RazorpayAccountNumber = ""
	input.PaypalEmail = ""

	userRepo.On("GetByEmail", context.Background(), "ravi@mail.com").Return(nil, domainerrors.ErrNotFound).Once()
	imageStore.On("Upload", context.Background(), input.Image).Return(&entities.ProfileImage{ID: "img-1", URL: "https://cdn/img-1"}, nil).Once()
	userRepo.On("Create", context.Background(), mock.AnythingOfType("*entities.User")).Return(nil).Once()
	notifier.On("Send", context.Background(), "ravi@mail.com", mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Return(entities.NotificationOutcome{Sent: true}).Once()

	result, err := uc.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentMethods{}, result.User.PaymentMethods)
}

func TestAccountUsecase_Register_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	imageStore := new(MockImageStore)
	uc := newAccountUsecaseForTest(userRepo, imageStore, new(MockNotifier), new(MockSessionRevoker), "production")

	userRepo.On("GetByEmail", context.Background(), "ravi@mail.com").Return(&entities.User{ID: uuid.New()}, nil).Once()

	input := registerInput("Bidder")
	input.Email = "  Ravi@Mail.COM "
	_, err := uc.Register(context.Background(), input)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
	assertAppErrorCode(t, err, domainerrors.CodeDuplicate)
	imageStore.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	userRepo.AssertExpectations(t)
}

func TestAccountUsecase_Register_DuplicateRaceOnCreate(t *testing.T) {
	userRepo := new(MockUserRepository)
	imageStore := new(MockImageStore)
	uc := newAccountUsecaseForTest(userRepo, imageStore, new(MockNotifier), new(MockSessionRevoker), "production")

	input := registerInput("Bidder")
	userRepo.On("GetByEmail", context.Background(), "ravi@mail.com").Return(nil, domainerrors.ErrNotFound).Once()
	imageStore.On("Upload", context.Background(), input.Image).Return(&entities.ProfileImage{ID: "img-1", URL: "https://cdn/img-1"}, nil).Once()
	userRepo.On("Create", context.Background(), mock.AnythingOfType("*entities.User")).Return(domainerrors.ErrAlreadyExists).Once()

	_, err := uc.Register(context.Background(), input)
	assertAppErrorCode(t, err, domainerrors.CodeDuplicate)
}

func TestAccountUsecase_Register_UploadFailure(t *testing.T) {
	userRepo := new(MockUserRepository)
	imageStore := new(MockImageStore)
	uc := newAccountUsecaseForTest(userRepo, imageStore, new(MockNotifier), new(MockSessionRevoker), "production")

	input := registerInput("Bidder")
	userRepo.On("GetByEmail", context.Background(), "ravi@mail.com").Return(nil, domainerrors.ErrNotFound).Once()
	imageStore.On("Upload", context.Background(), input.Image).Return(nil, assert.AnError).Once()

	_, err := uc.Register(context.Background(), input)
	assertAppErrorCode(t, err, domainerrors.CodeUpstream)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountUsecase_Register_BidderSuccess(t *testing.T) {
	userRepo := new(MockUserRepository)
	imageStore := new(MockImageStore)
	notifier := new(MockNotifier)
	uc := newAccountUsecaseForTest(userRepo, imageStore, notifier, new(MockSessionRevoker), "development")

	input := registerInput("Bidder")
	input.Email = "Ravi@Mail.com"

	var created *entities.User
	userRepo.On("GetByEmail", context.Background(), "ravi@mail.com").Return(nil, domainerrors.ErrNotFound).Once()
	imageStore.On("Upload", context.Background(), input.Image).Return(&entities.ProfileImage{ID: "img-7", URL: "https://cdn/img-7"}, nil).Once()
	userRepo.On("Create", context.Background(), mock.AnythingOfType("*entities.User")).Return(nil).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entities.User)
	}).Once()

	var sentBody string
	notifier.On("Send", context.Background(), "ravi@mail.com", "Account Verification - BidWiser", mock.AnythingOfType("string")).
		Return(entities.NotificationOutcome{Sent: true}).Run(func(args mock.Arguments) {
		sentBody = args.Get(3).(string)
	}).Once()

	result, err := uc.Register(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "ravi@mail.com", created.Email)
	assert.Equal(t, entities.RoleBidder, created.Role)
	assert.False(t, created.IsVerified)
	assert.Empty(t, result.Token)
	assert.Equal(t, "https://cdn/img-7", created.ProfileImage.URL)
	assert.True(t, crypto.CheckPassword("Password123!", created.PasswordHash))

	require.True(t, created.OTP.Valid)
	assert.GreaterOrEqual(t, created.OTP.Int64, int64(crypto.OTPMin))
	assert.LessOrEqual(t, created.OTP.Int64, int64(crypto.OTPMax))
	assert.True(t, created.OTPIssuedAt.Valid)

	assert.Equal(t, created.OTP.Int64, result.DevOTP)
	assert.Contains(t, sentBody, strconv.FormatInt(created.OTP.Int64, 10))
	require.NotNil(t, result.Notification)
	assert.True(t, result.Notification.Sent)
}

func TestAccountUsecase_Register_SuperAdminBypassesVerification(t *testing.T) {
	userRepo := new(MockUserRepository)
	imageStore := new(MockImageStore)
	notifier := new(MockNotifier)
	uc := newAccountUsecaseForTest(userRepo, imageStore, notifier, new(MockSessionRevoker), "production")

	input := registerInput("Super Admin")
	userRepo.On("GetByEmail", context.Background(), "ravi@mail.com").Return(nil, domainerrors.ErrNotFound).Once()
	imageStore.On("Upload", context.Background(), input.Image).Return(&entities.ProfileImage{ID: "img-2", URL: "https://cdn/img-2"}, nil).Once()
	userRepo.On("Create", context.Background(), mock.AnythingOfType("*entities.User")).Return(nil).Once()

	result, err := uc.Register(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, result.User.IsVerified)
	assert.False(t, result.User.OTP.Valid)
	assert.NotEmpty(t, result.Token)
	assert.Nil(t, result.Notification)
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountUsecase_Register_NotifierFailureIsNotFatal(t *testing.T) {
	userRepo := new(MockUserRepository)
	imageStore := new(MockImageStore)
	notifier := new(MockNotifier)
	uc := newAccountUsecaseForTest(userRepo, imageStore, notifier, new(MockSessionRevoker), "production")

	input := registerInput("Bidder")
	userRepo.On("GetByEmail", context.Background(), "ravi@mail.com").Return(nil, domainerrors.ErrNotFound).Once()
	imageStore.On("Upload", context.Background(), input.Image).Return(&entities.ProfileImage{ID: "img-3", URL: "https://cdn/img-3"}, nil).Once()
	userRepo.On("Create", context.Background(), mock.AnythingOfType("*entities.User")).Return(nil).Once()
	notifier.On("Send", context.Background(), "ravi@mail.com", mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Return(entities.NotificationOutcome{Sent: false, Error: "connection refused"}).Once()

	result, err := uc.Register(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, result.Notification)
	assert.False(t, result.Notification.Sent)
	assert.Equal(t, "connection refused", result.Notification.Error)
	assert.Zero(t, result.DevOTP)
}

func TestAccountUsecase_Login_MissingFields(t *testing.T) {
	uc := newAccountUsecaseForTest(new(MockUserRepository), new(MockImageStore), new(MockNotifier), new(MockSessionRevoker), "production")

	_, err := uc.Login(context.Background(), &entities.LoginInput{Email: "", Password: "secret"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = uc.Login(context.Background(), &entities.LoginInput{Email: "ravi@mail.com", Password: "   "})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestAccountUsecase_Login_InvalidCredentialCases(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newAccountUsecaseForTest(userRepo, new(MockImageStore), new(MockNotifier), new(MockSessionRevoker), "production")

	userRepo.On("GetByEmail", context.Background(), "missing@mail.com").Return(nil, domainerrors.ErrNotFound).Once()
	_, err := uc.Login(context.Background(), &entities.LoginInput{
		Email:    "missing@mail.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assertAppErrorCode(t, err, domainerrors.CodeAuth)

	hashed, _ := crypto.HashPassword("correct-password")
	userRepo.On("GetByEmail", context.Background(), "ravi@mail.com").Return(&entities.User{
		ID:           uuid.New(),
		Email:        "ravi@mail.com",
		PasswordHash: hashed,
		IsVerified:   true,
	}, nil).Once()
	_, err = uc.Login(context.Background(), &entities.LoginInput{
		Email:    "ravi@mail.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assertAppErrorCode(t, err, domainerrors.CodeAuth)
}

func TestAccountUsecase_Login_UnverifiedRotatesOTP(t *testing.T) {
	userRepo := new(MockUserRepository)
	notifier := new(MockNotifier)
	uc := newAccountUsecaseForTest(userRepo, new(MockImageStore), notifier, new(MockSessionRevoker), "development")

	hashed, _ := crypto.HashPassword("correct-password")
	userID := uuid.New()
	userRepo.On("GetByEmail", context.Background(), "ravi@mail.com").Return(&entities.User{
		ID:           userID,
		Email:        "ravi@mail.com",
		PasswordHash: hashed,
		Role:         entities.RoleBidder,
		IsVerified:   false,
	}, nil).Once()

	var storedOTP int64
	userRepo.On("SetOTP", context.Background(), userID, mock.AnythingOfType("int64"), mock.AnythingOfType("time.Time")).
		Return(nil).Run(func(args mock.Arguments) {
		storedOTP = args.Get(2).(int64)
	}).Once()
	notifier.On("Send", context.Background(), "ravi@mail.com", "Account Verification - BidWiser", mock.AnythingOfType("string")).
		Return(entities.NotificationOutcome{Sent: true}).Once()

	result, err := uc.Login(context.Background(), &entities.LoginInput{
		Email:    "ravi@mail.com",
		Password: "correct-password",
	})
	require.NoError(t, err)
	assert.True(t, result.RequiresVerification)
	assert.Empty(t, result.Token)
	assert.GreaterOrEqual(t, storedOTP, int64(crypto.OTPMin))
	assert.LessOrEqual(t, storedOTP, int64(crypto.OTPMax))
	assert.Equal(t, storedOTP, result.DevOTP)
	require.NotNil(t, result.Notification)
	assert.True(t, result.Notification.Sent)
	userRepo.AssertExpectations(t)
}

func TestAccountUsecase_Login_VerifiedIssuesToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	notifier := new(MockNotifier)
	uc := newAccountUsecaseForTest(userRepo, new(MockImageStore), notifier, new(MockSessionRevoker), "production")

	hashed, _ := crypto.HashPassword("correct-password")
	userRepo.On("GetByEmail", context.Background(), "ravi@mail.com").Return(&entities.User{
		ID:           uuid.New(),
		Email:        "ravi@mail.com",
		PasswordHash: hashed,
		Role:         entities.RoleAuctioneer,
		IsVerified:   true,
	}, nil).Once()

	result, err := uc.Login(context.Background(), &entities.LoginInput{
		Email:    "Ravi@mail.com ",
		Password: "correct-password",
	})
	require.NoError(t, err)
	assert.False(t, result.RequiresVerification)
	assert.NotEmpty(t, result.Token)
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "SetOTP", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountUsecase_VerifyAccount_MissingFields(t *testing.T) {
	uc := newAccountUsecaseForTest(new(MockUserRepository), new(MockImageStore), new(MockNotifier), new(MockSessionRevoker), "production")

	_, err := uc.VerifyAccount(context.Background(), &entities.VerifyInput{Email: "", OTP: "123456"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = uc.VerifyAccount(context.Background(), &entities.VerifyInput{Email: "ravi@mail.com", OTP: " "})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestAccountUsecase_VerifyAccount_UnknownUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newAccountUsecaseForTest(userRepo, new(MockImageStore), new(MockNotifier), new(MockSessionRevoker), "production")

	userRepo.On("GetByEmail", context.Background(), "missing@mail.com").Return(nil, domainerrors.ErrNotFound).Once()
	_, err := uc.VerifyAccount(context.Background(), &entities.VerifyInput{Email: "missing@mail.com", OTP: "123456"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assertAppErrorCode(t, err, domainerrors.CodeNotFound)
}

func TestAccountUsecase_VerifyAccount_InvalidCodeCases(t *testing.T) {
	userID := uuid.New()
	stored := func(otp int64, issuedAt time.Time) *entities.User {
		return &entities.User{
			ID:          userID,
			Email:       "ravi@mail.com",
			Role:        entities.RoleBidder,
			OTP:         null.Int64From(otp),
			OTPIssuedAt: null.TimeFrom(issuedAt),
		}
	}

	cases := []struct {
		name string
		user *entities.User
		code string
	}{
		{"non numeric", stored(123456, time.Now()), "12a456"},
		{"wrong code", stored(123456, time.Now()), "654321"},
		{"no code stored", &entities.User{ID: userID, Email: "ravi@mail.com"}, "123456"},
		{"expired code", stored(123456, time.Now().Add(-30*time.Minute)), "123456"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			uc := newAccountUsecaseForTest(userRepo, new(MockImageStore), new(MockNotifier), new(MockSessionRevoker), "production")

			userRepo.On("GetByEmail", context.Background(), "ravi@mail.com").Return(tc.user, nil).Once()
			_, err := uc.VerifyAccount(context.Background(), &entities.VerifyInput{Email: "ravi@mail.com", OTP: tc.code})
			assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
			assertAppErrorCode(t, err, domainerrors.CodeAuth)
			userRepo.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
		})
	}
}

func TestAccountUsecase_VerifyAccount_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newAccountUsecaseForTest(userRepo, new(MockImageStore), new(MockNotifier), new(MockSessionRevoker), "production")

	userID := uuid.New()
	userRepo.On("GetByEmail", context.Background(), "ravi@mail.com").Return(&entities.User{
		ID:          userID,
		Email:       "ravi@mail.com",
		Role:        entities.RoleBidder,
		OTP:         null.Int64From(123456),
		OTPIssuedAt: null.TimeFrom(time.Now().Add(-time.Minute)),
	}, nil).Once()
	userRepo.On("MarkVerified", context.Background(), userID).Return(nil).Once()

	result, err := uc.VerifyAccount(context.Background(), &entities.VerifyInput{
		Email: " Ravi@Mail.com",
		OTP:   "123456",
	})
	require.NoError(t, err)
	assert.True(t, result.User.IsVerified)
	assert.False(t, result.User.OTP.Valid)
	assert.False(t, result.User.OTPIssuedAt.Valid)
	assert.NotEmpty(t, result.Token)
	userRepo.AssertExpectations(t)
}

func TestAccountUsecase_ResendOTP_Validation(t *testing.T) {
	uc := newAccountUsecaseForTest(new(MockUserRepository), new(MockImageStore), new(MockNotifier), new(MockSessionRevoker), "production")

	_, err := uc.ResendOTP(context.Background(), "   ")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestAccountUsecase_ResendOTP_UnknownUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newAccountUsecaseForTest(userRepo, new(MockImageStore), new(MockNotifier), new(MockSessionRevoker), "production")

	userRepo.On("GetByEmail", context.Background(), "missing@mail.com").Return(nil, domainerrors.ErrNotFound).Once()
	_, err := uc.ResendOTP(context.Background(), "missing@mail.com")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAccountUsecase_ResendOTP_AlreadyVerified(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newAccountUsecaseForTest(userRepo, new(MockImageStore), new(MockNotifier), new(MockSessionRevoker), "production")

	userRepo.On("GetByEmail", context.Background(), "ravi@mail.com").Return(&entities.User{
		ID:         uuid.New(),
		Email:      "ravi@mail.com",
		IsVerified: true,
	}, nil).Once()

	_, err := uc.ResendOTP(context.Background(), "ravi@mail.com")
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyVerified)
	assertAppErrorCode(t, err, domainerrors.CodeAlreadyVerified)
	userRepo.AssertNotCalled(t, "SetOTP", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountUsecase_ResendOTP_RotatesEvenWhenDeliveryFails(t *testing.T) {
	userRepo := new(MockUserRepository)
	notifier := new(MockNotifier)
	uc := newAccountUsecaseForTest(userRepo, new(MockImageStore), notifier, new(MockSessionRevoker), "development")

	userID := uuid.New()
	userRepo.On("GetByEmail", context.Background(), "ravi@mail.com").Return(&entities.User{
		ID:    userID,
		Email: "ravi@mail.com",
		OTP:   null.Int64From(111111),
	}, nil).Once()

	var storedOTP int64
	userRepo.On("SetOTP", context.Background(), userID, mock.AnythingOfType("int64"), mock.AnythingOfType("time.Time")).
		Return(nil).Run(func(args mock.Arguments) {
		storedOTP = args.Get(2).(int64)
	}).Once()
	notifier.On("Send", context.Background(), "ravi@mail.com", mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Return(entities.NotificationOutcome{Sent: false, Error: "smtp timeout"}).Once()

	result, err := uc.ResendOTP(context.Background(), "ravi@mail.com")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, storedOTP, int64(crypto.OTPMin))
	assert.Equal(t, storedOTP, result.DevOTP)
	require.NotNil(t, result.Notification)
	assert.False(t, result.Notification.Sent)
	userRepo.AssertExpectations(t)
}

func TestAccountUsecase_Logout(t *testing.T) {
	revoker := new(MockSessionRevoker)
	uc := newAccountUsecaseForTest(new(MockUserRepository), new(MockImageStore), new(MockNotifier), revoker, "production")

	revoker.On("Revoke", context.Background(), "jti-1", mock.AnythingOfType("time.Duration")).Return(nil).Run(func(args mock.Arguments) {
		ttl := args.Get(2).(time.Duration)
		assert.Greater(t, ttl, 50*time.Minute)
	}).Once()

	err := uc.Logout(context.Background(), "jti-1", time.Now().Add(time.Hour))
	assert.NoError(t, err)
	revoker.AssertExpectations(t)
}

func TestAccountUsecase_GetUserByID(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newAccountUsecaseForTest(userRepo, new(MockImageStore), new(MockNotifier), new(MockSessionRevoker), "production")

	userID := uuid.New()
	userRepo.On("GetByID", context.Background(), userID).Return(&entities.User{ID: userID}, nil).Once()

	user, err := uc.GetUserByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
}

func TestAccountUsecase_Leaderboard(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newAccountUsecaseForTest(userRepo, new(MockImageStore), new(MockNotifier), new(MockSessionRevoker), "production")

	users := []*entities.User{
		{ID: uuid.New(), MoneySpent: 900},
		{ID: uuid.New(), MoneySpent: 400},
	}
	userRepo.On("Leaderboard", context.Background(), 20, 20).Return(users, int64(42), nil).Once()

	got, meta, err := uc.Leaderboard(context.Background(), 2, 20)
	require.NoError(t, err)
	assert.Equal(t, users, got)
	assert.Equal(t, int64(42), meta.TotalCount)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 3, meta.TotalPages)
	userRepo.AssertExpectations(t)
}

func TestAccountUsecase_Leaderboard_RepoError(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newAccountUsecaseForTest(userRepo, new(MockImageStore), new(MockNotifier), new(MockSessionRevoker), "production")

	userRepo.On("Leaderboard", context.Background(), 10, 0).Return(nil, int64(0), assert.AnError).Once()

	_, _, err := uc.Leaderboard(context.Background(), 1, 10)
	assert.ErrorIs(t, err, assert.AnError)
}
