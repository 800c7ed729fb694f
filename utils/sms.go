package utils

import (
	"fmt"
	"time"

	"futurebound/config"
	"futurebound/logger"

	"github.com/go-resty/resty/v2"
)

var smsClient = resty.New().SetTimeout(10 * time.Second)

// SendOTPToMobile pushes an OTP through the configured SMS gateway. It is a
// no-op when no gateway is configured.
func SendOTPToMobile(mobile, otp string) error {
	cfg := config.AppConfig
	log := logger.Named("sms")
	if cfg == nil || cfg.SMSApiURL == "" || mobile == "" {
		log.Debugw("sms gateway not configured, skipping", "mobile", mobile)
		return nil
	}

	resp, err := smsClient.R().
		SetHeader("Authorization", cfg.SMSApiKey).
		SetBody(map[string]string{
			"numbers":          mobile,
			"variables_values": fmt.Sprintf("%s|%d", otp, int(cfg.OTPTTL.Minutes())),
			"route":            "otp",
		}).
		Post(cfg.SMSApiURL)
	if err != nil {
		log.Errorw("error while sending otp", "mobile", mobile, "error", err)
		return err
	}
	if resp.IsError() {
		log.Errorw("sms gateway rejected otp", "mobile", mobile, "status", resp.StatusCode(), "body", resp.String())
		return fmt.Errorf("failed to send OTP, code: %d", resp.StatusCode())
	}
	log.Infow("otp sent", "mobile", mobile)
	return nil
}
