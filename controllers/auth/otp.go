package authController

import (
	"errors"
	"fmt"

	"futurebound/config"
	"futurebound/logger"
	"futurebound/models"
	"futurebound/utils"

	"gorm.io/gorm"
)

// maxOTPAttempts wrong guesses burn a challenge.
const maxOTPAttempts = 5

var (
	errInvalidOTP = errors.New("invalid or expired OTP")
	errWrongOTP   = fmt.Errorf("%w: code mismatch", errInvalidOTP)
)

// issueOTP supersedes any open challenge of the same purpose, stores a new
// one and sends it by email (and SMS when the user has a phone).
func issueOTP(db *gorm.DB, user *models.User, purpose string) error {
	code, err := utils.GenerateOTP()
	if err != nil {
		return err
	}
	t := now()

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OTP{}).
			Where("user_id = ? AND purpose = ? AND used_at IS NULL", user.ID, purpose).
			Update("used_at", t).Error; err != nil {
			return err
		}
		return tx.Create(&models.OTP{
			UserID:    user.ID,
			Email:     user.Email,
			Purpose:   purpose,
			Code:      code,
			ExpiresAt: t.Add(config.AppConfig.OTPTTL),
		}).Error
	})
	if err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	utils.SendOTPEmail(user.Email, user.Name, code, purpose, config.AppConfig.OTPTTL)
	if user.Phone != "" {
		go func(phone string) {
			_ = utils.SendOTPToMobile(phone, code)
		}(user.Phone)
	}
	return nil
}

// redeemOTP consumes the user's open challenge and runs apply in the same
// transaction. A wrong code is counted outside that transaction so the miss
// survives its rollback.
func redeemOTP(db *gorm.DB, userID uint, purpose, code string, apply func(tx *gorm.DB) error) error {
	var missed uint
	err := db.Transaction(func(tx *gorm.DB) error {
		id, err := consumeOTP(tx, userID, purpose, code)
		if err != nil {
			if errors.Is(err, errWrongOTP) {
				missed = id
			}
			return err
		}
		return apply(tx)
	})
	if missed != 0 {
		if ferr := recordOTPMiss(db, missed); ferr != nil {
			logger.Log.Errorw("error counting otp miss", "otp_id", missed, "error", ferr)
		}
	}
	return err
}

// consumeOTP marks the user's latest open challenge used when code matches.
// On a mismatch it returns errWrongOTP with the challenge id.
func consumeOTP(tx *gorm.DB, userID uint, purpose, code string) (uint, error) {
	var otp models.OTP
	err := tx.Where("user_id = ? AND purpose = ? AND used_at IS NULL", userID, purpose).
		Order("created_at desc").
		First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errInvalidOTP
		}
		return 0, err
	}

	t := now()
	if !otp.Usable(t) || otp.Attempts >= maxOTPAttempts {
		return 0, errInvalidOTP
	}
	if otp.Code != code {
		return otp.ID, errWrongOTP
	}
	res := tx.Model(&otp).Where("used_at IS NULL").Update("used_at", t)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, errInvalidOTP
	}
	return otp.ID, nil
}

// recordOTPMiss counts a wrong guess and burns the challenge once it
// reaches maxOTPAttempts.
func recordOTPMiss(db *gorm.DB, otpID uint) error {
	if err := db.Model(&models.OTP{}).
		Where("id = ? AND used_at IS NULL", otpID).
		Update("attempts", gorm.Expr("attempts + ?", 1)).Error; err != nil {
		return err
	}
	return db.Model(&models.OTP{}).
		Where("id = ? AND used_at IS NULL AND attempts >= ?", otpID, maxOTPAttempts).
		Update("used_at", now()).Error
}
