package authController

import (
	"errors"
	"strings"
	"time"

	"futurebound/config"
	"futurebound/database"
	"futurebound/logger"
	"futurebound/middleware"
	"futurebound/models"
	"futurebound/utils"
	authValidator "futurebound/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 3
	loginBlockTime  = 15 * time.Minute
)

var now = time.Now

func Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRegister").(*authValidator.RegisterRequest)
	db := database.Database.Db
	email := strings.ToLower(reqData.Email)

	// Check if email already exists
	var count int64
	if err := db.Model(&models.User{}).Where("LOWER(email) = ?", email).Count(&count).Error; err != nil {
		logger.Log.Errorw("email lookup failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	// Check if username already exists
	if err := db.Model(&models.User{}).Where("username = ?", reqData.Username).Count(&count).Error; err != nil {
		logger.Log.Errorw("username lookup failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Username is already taken!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		logger.Log.Errorw("error hashing password", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:      reqData.Name,
		Username:  reqData.Username,
		Email:     email,
		Password:  string(hashedPassword),
		Role:      models.RoleUser,
		Phone:     reqData.Phone,
		College:   reqData.College,
		Education: reqData.Education,
		State:     reqData.State,
		IsActive:  true,
	}
	if err := db.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email or username is already registered!", nil)
		}
		logger.Log.Errorw("error saving user", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	if err := issueOTP(db, &newUser, models.OTPPurposeEmailVerification); err != nil {
		logger.Log.Errorw("error issuing verification otp", "user_id", newUser.ID, "error", err)
	}
	logger.Log.Infow("user registered", "user_id", newUser.ID, "email", utils.MaskEmail(newUser.Email))

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully. Verify your email with the OTP sent.", newUser)
}

// SendOTP (re)sends the email verification code.
func SendOTP(c *fiber.Ctx) error {
	reqData := c.Locals("validatedEmail").(*authValidator.SendOTPRequest)
	db := database.Database.Db

	var user models.User
	if err := db.Where("LOWER(email) = ?", strings.ToLower(reqData.Email)).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Invalid email!", nil)
	}
	if user.IsEmailVerified {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email already verified!", nil)
	}

	if err := issueOTP(db, &user, models.OTPPurposeEmailVerification); err != nil {
		logger.Log.Errorw("error issuing verification otp", "user_id", user.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send OTP!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent successfully.", nil)
}

func VerifyOTP(c *fiber.Ctx) error {
	reqData := c.Locals("validatedOTP").(*authValidator.VerifyOTPRequest)
	db := database.Database.Db

	var user models.User
	if err := db.Where("LOWER(email) = ?", strings.ToLower(reqData.Email)).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Invalid email!", nil)
	}
	if user.IsEmailVerified {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email already verified!", nil)
	}

	err := redeemOTP(db, user.ID, models.OTPPurposeEmailVerification, reqData.OTP, func(tx *gorm.DB) error {
		return tx.Model(&user).Update("is_email_verified", true).Error
	})
	if err != nil {
		if errors.Is(err, errInvalidOTP) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired OTP!", nil)
		}
		logger.Log.Errorw("error verifying otp", "user_id", user.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify OTP!", nil)
	}

	utils.SendWelcomeEmail(user.Email, user.Name)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Email verified successfully.", nil)
}

func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	db := database.Database.Db

	var user models.User
	var err error
	// Retrieve user by email or username
	if reqData.Email != "" {
		err = db.Where("LOWER(email) = ?", strings.ToLower(reqData.Email)).First(&user).Error
	} else {
		err = db.Where("username = ?", reqData.Username).First(&user).Error
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if !user.IsActive {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Your account has been deactivated!", nil)
	}

	t := now()
	if user.BlockedUntil != nil && user.BlockedUntil.After(t) {
		return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "Your account is temporarily blocked. Try again later.", fiber.Map{
			"blocked_until": user.BlockedUntil,
		})
	}

	// Failures older than the block window no longer count
	if user.LastFailedLogin != nil && t.Sub(*user.LastFailedLogin) > loginBlockTime {
		user.FailedLoginAttempts = 0
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		user.FailedLoginAttempts++
		user.LastFailedLogin = &t
		updates := map[string]interface{}{
			"failed_login_attempts": user.FailedLoginAttempts,
			"last_failed_login":     t,
		}
		// Block user after 3 failed attempts
		if user.FailedLoginAttempts >= maxFailedLogins {
			until := t.Add(loginBlockTime)
			updates["blocked_until"] = until
			updates["failed_login_attempts"] = 0
			logger.Log.Warnw("user blocked after failed logins", "user_id", user.ID, "until", until)
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			logger.Log.Errorw("error recording failed login", "user_id", user.ID, "error", err)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if !user.IsEmailVerified {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Email not verified!", nil)
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"last_login":            t,
		"failed_login_attempts": 0,
		"last_failed_login":     nil,
		"blocked_until":         nil,
	}).Error; err != nil {
		logger.Log.Errorw("error saving last login time", "user_id", user.ID, "error", err)
	}
	user.LastLogin = &t

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	userAgent := c.Get("User-Agent")

	history := models.LoginHistory{
		UserID:    user.ID,
		IPAddress: ip,
		UserAgent: userAgent,
		Timestamp: t,
	}
	if err := db.Create(&history).Error; err != nil {
		logger.Log.Errorw("error saving login history", "user_id", user.ID, "error", err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Username, user.Role, user.Email)
	if err != nil {
		logger.Log.Errorw("error generating token", "user_id", user.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	utils.SendLoginNotificationEmail(user.Email, user.Name, ip, userAgent, t.Format(time.RFC1123))
	logger.Log.Infow("user logged in", "user_id", user.ID, "ip", ip)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// ForgotPassword sends a reset code. The response does not reveal whether
// the email is registered.
func ForgotPassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedEmail").(*authValidator.SendOTPRequest)
	db := database.Database.Db

	var user models.User
	err := db.Where("LOWER(email) = ? AND is_active = ?", strings.ToLower(reqData.Email), true).First(&user).Error
	if err == nil {
		if err := issueOTP(db, &user, models.OTPPurposePasswordReset); err != nil {
			logger.Log.Errorw("error issuing reset otp", "user_id", user.ID, "error", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send OTP!", nil)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Log.Errorw("forgot password lookup failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "If the email is registered, a reset code has been sent.", nil)
}

func ResetPassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedReset").(*authValidator.ResetPasswordRequest)
	db := database.Database.Db

	var user models.User
	if err := db.Where("LOWER(email) = ? AND is_active = ?", strings.ToLower(reqData.Email), true).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired OTP!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		logger.Log.Errorw("error hashing password", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	err = redeemOTP(db, user.ID, models.OTPPurposePasswordReset, reqData.OTP, func(tx *gorm.DB) error {
		return tx.Model(&user).Updates(map[string]interface{}{
			"password":              string(hashedPassword),
			"failed_login_attempts": 0,
			"last_failed_login":     nil,
			"blocked_until":         nil,
		}).Error
	})
	if err != nil {
		if errors.Is(err, errInvalidOTP) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired OTP!", nil)
		}
		logger.Log.Errorw("error resetting password", "user_id", user.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset successfully.", nil)
}

func LoginHistoryList(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedLoginHistory").(*authValidator.LoginHistoryQuery)
	page, limit, offset := reqData.Offset(10)
	db := database.Database.Db

	var total int64
	if err := db.Model(&models.LoginHistory{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		logger.Log.Errorw("count login history failed", "user_id", userID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}

	var history []models.LoginHistory
	if err := db.Where("user_id = ?", userID).
		Order("timestamp desc").
		Offset(offset).
		Limit(limit).
		Find(&history).Error; err != nil {
		logger.Log.Errorw("list login history failed", "user_id", userID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login History List.", fiber.Map{
		"login_history": history,
		"pagination":    middleware.PageMeta(total, page, limit),
	})
}
