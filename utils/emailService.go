package utils

import (
	"fmt"
	"html"
	"net/http"
	"time"

	"futurebound/config"
	"futurebound/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendEmail delivers an HTML email through SendGrid. Without an API key the
// message is written to the log instead.
func SendEmail(to []string, subject string, htmlBody string) error {
	cfg := config.AppConfig
	log := logger.Named("email")

	if cfg == nil || cfg.SendgridAPIKey == "" {
		log.Infow("email (console delivery)", "to", to, "subject", subject)
		log.Debugw("email body", "html", htmlBody)
		return nil
	}

	p := sgmail.NewPersonalization()
	p.Subject = subject
	for _, addr := range to {
		p.AddTos(sgmail.NewEmail("", addr))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(cfg.EmailSenderName, cfg.EmailSender))
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", htmlBody))

	req := sendgrid.GetRequest(cfg.SendgridAPIKey, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		log.Errorw("sendgrid request failed", "to", to, "error", err)
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		log.Errorw("sendgrid rejected email", "to", to, "status", res.StatusCode, "body", res.Body)
		return fmt.Errorf("sendgrid: status %d", res.StatusCode)
	}
	log.Infow("email sent", "to", to, "subject", subject)
	return nil
}

func sendAsync(to []string, subject, htmlBody string) {
	go func() {
		_ = SendEmail(to, subject, htmlBody)
	}()
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F4F6FB; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1B2A4A; padding: 28px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; letter-spacing: 1px; }
			.content { padding: 36px 30px; color: #1B2A4A; line-height: 1.6; }
			.code { text-align: center; font-size: 36px; letter-spacing: 6px; color: #2E7D32; margin: 24px 0; }
			.info-box { background: #EEF3FF; padding: 15px; border-radius: 4px; border-left: 4px solid #F2A541; margin: 20px 0; }
			.footer { background-color: #F4F6FB; padding: 18px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>FUTURE BOUND TECH</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">&copy; %d Future Bound Tech. All rights reserved.</div>
		</div>
	</body>
	</html>
	`, title, bodyContent, time.Now().Year())
}

// SendOTPEmail sends a one-time code for the given purpose.
func SendOTPEmail(email, name, otp, purpose string, ttl time.Duration) {
	subject := "Your Future Bound verification code"
	title := "Verify your email"
	if purpose == "PASSWORD_RESET" {
		subject = "Your Future Bound password reset code"
		title = "Reset your password"
	}
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Use the code below. It expires in %d minutes.</p>
		<div class="code">%s</div>
		<p>Do not share this code with anyone.</p>
	`, html.EscapeString(name), int(ttl.Minutes()), otp)
	sendAsync([]string{email}, subject, getEmailTemplate(title, body))
}

func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your email is verified and your account is ready. Browse the catalogue and enroll in your first course.</p>
	`, html.EscapeString(name))
	sendAsync([]string{email}, "Welcome to Future Bound Tech", getEmailTemplate("Welcome Onboard!", body))
}

// SendEnrollmentEmail sends an email notification when user enrolls in a course
func SendEnrollmentEmail(email, name, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully enrolled in <strong>%s</strong>.</p>
		<div class="info-box">Complete every lesson to unlock your certificate.</div>
	`, html.EscapeString(name), html.EscapeString(courseTitle))
	sendAsync([]string{email}, "Enrollment confirmed: "+courseTitle, getEmailTemplate("Enrollment Successful", body))
}

// SendCertificateEmail sends certificate notification email
func SendCertificateEmail(email, name, courseTitle, certificateID string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>.</p>
		<div class="info-box">Certificate ID: <strong>%s</strong></div>
	`, html.EscapeString(name), html.EscapeString(courseTitle), certificateID)
	sendAsync([]string{email}, "Your certificate for "+courseTitle, getEmailTemplate("Certificate of Completion", body))
}

// SendContactNotification forwards a contact form submission to the admin inbox.
func SendContactNotification(adminEmail, fromName, fromEmail, subject, message string) {
	body := fmt.Sprintf(`
		<p><strong>From:</strong> %s &lt;%s&gt;</p>
		<p><strong>Subject:</strong> %s</p>
		<div class="info-box">%s</div>
	`, html.EscapeString(fromName), html.EscapeString(fromEmail), html.EscapeString(subject), html.EscapeString(message))
	sendAsync([]string{adminEmail}, "New contact message: "+subject, getEmailTemplate("New Contact Message", body))
}

func SendLoginNotificationEmail(email, name, ip, device, timeStr string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We noticed a new login to your account.</p>
		<div class="info-box">
			<strong>Time:</strong> %s<br>
			<strong>IP Address:</strong> %s<br>
			<strong>Device:</strong> %s
		</div>
		<p>If this was not you, reset your password immediately.</p>
	`, html.EscapeString(name), timeStr, html.EscapeString(ip), html.EscapeString(device))
	sendAsync([]string{email}, "New login detected", getEmailTemplate("Security Alert", body))
}
