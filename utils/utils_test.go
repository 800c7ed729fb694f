package utils_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"futurebound/config"
	"futurebound/database/dbtest"
	"futurebound/models"
	courseModels "futurebound/models/course"
	"futurebound/services/progress"
	"futurebound/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		otp, err := utils.GenerateOTP()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, otp)
		seen[otp] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Go Basics":               "go-basics",
		"  Data & AI: 101!  ":     "data-ai-101",
		"Already-a-slug":          "already-a-slug",
		"Múltiple   spaces__here": "m-ltiple-spaces-here",
	}
	for in, want := range tests {
		assert.Equal(t, want, utils.Slugify(in), in)
	}
}

func TestNewCertificateID(t *testing.T) {
	re := regexp.MustCompile(`^FBT-[0-9A-F]{16}$`)
	a, b := utils.NewCertificateID(), utils.NewCertificateID()
	assert.Regexp(t, re, a)
	assert.NotEqual(t, a, b)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a***@example.com", utils.MaskEmail("asha@example.com"))
	assert.Equal(t, "a@example.com", utils.MaskEmail("a@example.com"))
	assert.Equal(t, "not-an-email", utils.MaskEmail("not-an-email"))
}

func TestSendOTPToMobile(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sms-key", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	prev := config.AppConfig
	t.Cleanup(func() { config.AppConfig = prev })

	config.AppConfig = &config.Config{OTPTTL: 10 * time.Minute}
	require.NoError(t, utils.SendOTPToMobile("9876543210", "123456"))
	assert.Nil(t, got)

	config.AppConfig = &config.Config{SMSApiURL: srv.URL, SMSApiKey: "sms-key", OTPTTL: 10 * time.Minute}
	require.NoError(t, utils.SendOTPToMobile("9876543210", "123456"))
	assert.Equal(t, "9876543210", got["numbers"])
	assert.Equal(t, "123456|10", got["variables_values"])
}

func TestSendEmailWithoutKeyLogsOnly(t *testing.T) {
	prev := config.AppConfig
	config.AppConfig = &config.Config{}
	t.Cleanup(func() { config.AppConfig = prev })

	assert.NoError(t, utils.SendEmail([]string{"a@example.com"}, "hello", "<p>hi</p>"))
}

func TestPurgeExpiredOTPs(t *testing.T) {
	db := dbtest.Open(t)
	u := dbtest.User(t, db, models.RoleUser)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	used := now.Add(-time.Minute)

	otps := []models.OTP{
		{UserID: u.ID, Purpose: models.OTPPurposeEmailVerification, Code: "111111", ExpiresAt: now.Add(-time.Hour)},
		{UserID: u.ID, Purpose: models.OTPPurposeEmailVerification, Code: "222222", ExpiresAt: now.Add(time.Hour), UsedAt: &used},
		{UserID: u.ID, Purpose: models.OTPPurposePasswordReset, Code: "333333", ExpiresAt: now.Add(time.Hour)},
	}
	require.NoError(t, db.Create(&otps).Error)

	assert.EqualValues(t, 2, utils.PurgeExpiredOTPs(db, now))

	var left []models.OTP
	require.NoError(t, db.Unscoped().Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "333333", left[0].Code)
}

func TestReconcileProgress(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.Course(t, db, 2)
	u := dbtest.User(t, db, models.RoleUser)
	e, err := progress.CreateEnrollment(db, u.ID, cat.Course.ID)
	require.NoError(t, err)

	// ledger row written behind the service's back
	require.NoError(t, db.Create(&courseModels.Progress{
		EnrollmentID: e.ID,
		LessonID:     cat.Lessons[0][0].ID,
		IsCompleted:  true,
	}).Error)

	assert.Equal(t, 1, utils.ReconcileProgress(db))
	assert.Equal(t, 0, utils.ReconcileProgress(db))

	var got courseModels.Enrollment
	require.NoError(t, db.First(&got, e.ID).Error)
	assert.True(t, decimal.NewFromInt(50).Equal(got.ProgressPercentage), got.ProgressPercentage.String())
	assert.Equal(t, courseModels.StatusInProgress, got.Status)
}

func TestInitializeSchedulerRejectsBadSpec(t *testing.T) {
	_, err := utils.InitializeScheduler("every tuesday")
	assert.Error(t, err)

	c, err := utils.InitializeScheduler("0 3 * * *")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)
	<-c.Stop().Done()
}
