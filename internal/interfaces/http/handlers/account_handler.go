package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"bid-wiser.backend/internal/domain/entities"
	domainerrors "bid-wiser.backend/internal/domain/errors"
	"bid-wiser.backend/internal/interfaces/http/middleware"
	"bid-wiser.backend/internal/interfaces/http/response"
	"bid-wiser.backend/internal/usecases"
)

// AccountHandler handles account lifecycle endpoints
type AccountHandler struct {
	accountUsecase *usecases.AccountUsecase
	sessionTTL     time.Duration
	devMode        bool
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountUsecase *usecases.AccountUsecase, sessionTTL time.Duration, env string) *AccountHandler {
	return &AccountHandler{
		accountUsecase: accountUsecase,
		sessionTTL:     sessionTTL,
		devMode:        env == "development",
	}
}

// Register handles account registration
// POST /api/v1/users/register (multipart/form-data)
func (h *AccountHandler) Register(c *gin.Context) {
	input := &entities.RegisterInput{
		UserName:              c.PostForm("userName"),
		Email:                 c.PostForm("email"),
		Phone:                 c.PostForm("phone"),
		Password:              c.PostForm("password"),
		Address:               c.PostForm("address"),
		Role:                  c.PostForm("role"),
		BankAccountNumber:     c.PostForm("bankAccountNumber"),
		BankAccountName:       c.PostForm("bankAccountName"),
		BankName:              c.PostForm("bankName"),
		RazorpayAccountNumber: c.PostForm("razorpayAccountNumber"),
		PaypalEmail:           c.PostForm("paypalEmail"),
	}

	if fileHeader, err := c.FormFile("profileImage"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			response.Error(c, domainerrors.Validation("Unable to read profile image"))
			return
		}
		defer file.Close()
		input.Image = &entities.ImageUpload{
			FileName:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
			Body:        file,
		}
	}

	result, err := h.accountUsecase.Register(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	payload := gin.H{"user": result.User}
	message := "Registration successful. OTP sent to your email for verification."
	if result.Token != "" {
		h.setSessionCookie(c, result.Token)
		payload["token"] = result.Token
		message = "Super Admin registered and logged in."
	}
	h.attachDelivery(payload, result.Notification, result.DevOTP)
	response.Success(c, http.StatusCreated, message, payload)
}

// Login handles login
// POST /api/v1/users/login
func (h *AccountHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation("Please provide both email and password"))
		return
	}

	result, err := h.accountUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.RequiresVerification {
		payload := gin.H{
			"user":                 result.User,
			"requiresVerification": true,
		}
		h.attachDelivery(payload, result.Notification, result.DevOTP)
		response.Success(c, http.StatusOK, "Account not verified. OTP sent to your email.", payload)
		return
	}

	h.setSessionCookie(c, result.Token)
	response.Success(c, http.StatusOK, "Login successful.", gin.H{
		"user":  result.User,
		"token": result.Token,
	})
}

// VerifyAccount handles OTP verification
// POST /api/v1/users/verify
func (h *AccountHandler) VerifyAccount(c *gin.Context) {
	var input entities.VerifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation("Email and OTP are required"))
		return
	}

	result, err := h.accountUsecase.VerifyAccount(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, result.Token)
	response.Success(c, http.StatusOK, "Account verified successfully.", gin.H{
		"user":  result.User,
		"token": result.Token,
	})
}

// ResendOTP handles OTP resend
// POST /api/v1/users/resend-otp
func (h *AccountHandler) ResendOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.Validation("Email is required"))
		return
	}

	result, err := h.accountUsecase.ResendOTP(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	payload := gin.H{}
	h.attachDelivery(payload, result.Notification, result.DevOTP)
	response.Success(c, http.StatusOK, "OTP resent to your email.", payload)
}

// GetMe returns the authenticated caller's record
// GET /api/v1/users/me
func (h *AccountHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	user, err := h.accountUsecase.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("User not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{"user": user})
}

// Logout revokes the session and clears the cookie
// GET /api/v1/users/logout
func (h *AccountHandler) Logout(c *gin.Context) {
	tokenID, hasID := middleware.GetTokenID(c)
	expiry, hasExpiry := middleware.GetTokenExpiry(c)
	if hasID && hasExpiry {
		if err := h.accountUsecase.Logout(c.Request.Context(), tokenID, expiry); err != nil {
			response.Error(c, err)
			return
		}
	}

	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	response.Success(c, http.StatusOK, "Logged out successfully.", nil)
}

// Leaderboard returns spenders ordered by money spent
// GET /api/v1/users/leaderboard
func (h *AccountHandler) Leaderboard(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	users, meta, err := h.accountUsecase.Leaderboard(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"leaderboard": users,
		"pagination":  meta,
	})
}

func (h *AccountHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.SessionCookieName, token, int(h.sessionTTL.Seconds()), "/", "", false, true)
}

func (h *AccountHandler) attachDelivery(payload gin.H, outcome *entities.NotificationOutcome, devOTP int64) {
	if !h.devMode {
		return
	}
	if outcome != nil {
		payload["emailSent"] = outcome.Sent
		if outcome.Error != "" {
			payload["emailError"] = outcome.Error
		}
	}
	if devOTP != 0 {
		payload["devOtp"] = devOTP
	}
}
