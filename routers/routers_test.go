package routers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"futurebound/config"
	"futurebound/database/dbtest"
	"futurebound/middleware"
	"futurebound/models"
	courseModels "futurebound/models/course"
	"futurebound/routers"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type harness struct {
	t   *testing.T
	db  *gorm.DB
	app *fiber.App
}

func setup(t *testing.T) *harness {
	t.Helper()
	cfg := &config.Config{
		Env:         "test",
		JWTKey:      "test-secret",
		JWTTTL:      time.Hour,
		SaltRound:   bcrypt.MinCost,
		CorsOrigins: "*",
		AdminEmail:  "admin@example.com",
		OTPTTL:      10 * time.Minute,
	}
	prev := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = prev })

	db := dbtest.Open(t)
	dbtest.UseGlobal(t, db)
	return &harness{t: t, db: db, app: routers.NewApp(cfg, true)}
}

func (h *harness) token(u models.User) string {
	h.t.Helper()
	tok, err := middleware.GenerateJWT(u.ID, u.Username, u.Role, u.Email)
	require.NoError(h.t, err)
	return tok
}

// do sends a JSON request and decodes the response envelope.
func (h *harness) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)

	var out map[string]interface{}
	require.NoError(h.t, json.NewDecoder(resp.Body).Decode(&out), "%s %s", method, path)
	return resp.StatusCode, out
}

func data(out map[string]interface{}) map[string]interface{} {
	m, _ := out["data"].(map[string]interface{})
	return m
}

func TestHealthAndFallback(t *testing.T) {
	h := setup(t)

	code, out := h.do("GET", "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, out["status"])

	code, out = h.do("GET", "/nowhere", "", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "Route not found!", out["message"])
}

func TestRegisterVerifyLogin(t *testing.T) {
	h := setup(t)

	register := map[string]string{
		"name":     "Asha",
		"username": "asha",
		"email":    "Asha@Example.com",
		"password": "s3cret-pass",
	}
	code, out := h.do("POST", "/auth/register", "", register)
	require.Equal(t, fiber.StatusCreated, code, out)
	assert.Equal(t, "asha@example.com", data(out)["email"])
	assert.NotContains(t, data(out), "password")

	code, _ = h.do("POST", "/auth/register", "", register)
	assert.Equal(t, fiber.StatusConflict, code)

	login := map[string]string{"email": "asha@example.com", "password": "s3cret-pass"}
	code, out = h.do("POST", "/auth/login", "", login)
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Equal(t, "Email not verified!", out["message"])

	code, _ = h.do("POST", "/auth/otp/verify", "", map[string]string{"email": "asha@example.com", "otp": "12345"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	var otp models.OTP
	require.NoError(t, h.db.Where("email = ? AND purpose = ?", "asha@example.com", models.OTPPurposeEmailVerification).First(&otp).Error)
	wrong := "000000"
	if otp.Code == wrong {
		wrong = "111111"
	}
	code, _ = h.do("POST", "/auth/otp/verify", "", map[string]string{"email": "asha@example.com", "otp": wrong})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, out = h.do("POST", "/auth/otp/verify", "", map[string]string{"email": "asha@example.com", "otp": otp.Code})
	require.Equal(t, fiber.StatusOK, code, out)

	code, _ = h.do("POST", "/auth/otp/verify", "", map[string]string{"email": "asha@example.com", "otp": otp.Code})
	assert.Equal(t, fiber.StatusConflict, code)

	code, out = h.do("POST", "/auth/login", "", map[string]string{"username": "asha", "password": "s3cret-pass"})
	require.Equal(t, fiber.StatusOK, code, out)
	token, _ := data(out)["token"].(string)
	require.NotEmpty(t, token)

	code, out = h.do("GET", "/auth/login-history", token, nil)
	require.Equal(t, fiber.StatusOK, code)
	history, _ := data(out)["login_history"].([]interface{})
	assert.Len(t, history, 1)

	code, out = h.do("GET", "/user/profile", token, nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "asha", data(out)["username"])
}

func TestLoginBlocksAfterRepeatedFailures(t *testing.T) {
	h := setup(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)
	u := dbtest.User(t, h.db, models.RoleUser)
	require.NoError(t, h.db.Model(&u).Update("password", string(hash)).Error)

	bad := map[string]string{"email": u.Email, "password": "wrong-password"}
	for i := 0; i < 3; i++ {
		code, _ := h.do("POST", "/auth/login", "", bad)
		assert.Equal(t, fiber.StatusUnauthorized, code, "attempt %d", i+1)
	}

	code, out := h.do("POST", "/auth/login", "", map[string]string{"email": u.Email, "password": "right-password"})
	assert.Equal(t, fiber.StatusTooManyRequests, code)
	assert.Contains(t, data(out), "blocked_until")

	var got models.User
	require.NoError(t, h.db.First(&got, u.ID).Error)
	require.NotNil(t, got.BlockedUntil)
	assert.Zero(t, got.FailedLoginAttempts)
}

func TestPasswordReset(t *testing.T) {
	h := setup(t)
	u := dbtest.User(t, h.db, models.RoleUser)

	code, out := h.do("POST", "/auth/password/forgot", "", map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, fiber.StatusOK, code)
	generic := out["message"]

	code, out = h.do("POST", "/auth/password/forgot", "", map[string]string{"email": u.Email})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, generic, out["message"])

	var otp models.OTP
	require.NoError(t, h.db.Where("user_id = ? AND purpose = ?", u.ID, models.OTPPurposePasswordReset).First(&otp).Error)

	reset := map[string]string{"email": u.Email, "otp": otp.Code, "new_password": "brand-new-pass"}
	code, _ = h.do("POST", "/auth/password/reset", "", reset)
	require.Equal(t, fiber.StatusOK, code)

	code, _ = h.do("POST", "/auth/password/reset", "", reset)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = h.do("POST", "/auth/login", "", map[string]string{"email": u.Email, "password": "brand-new-pass"})
	assert.Equal(t, fiber.StatusOK, code)
}

func TestPasswordResetCodeBurnsAfterRepeatedMisses(t *testing.T) {
	h := setup(t)
	u := dbtest.User(t, h.db, models.RoleUser)

	latestCode := func() models.OTP {
		var otp models.OTP
		require.NoError(t, h.db.Where("user_id = ? AND purpose = ?", u.ID, models.OTPPurposePasswordReset).
			Order("id desc").First(&otp).Error)
		return otp
	}
	wrongFor := func(code string) string {
		if code == "000000" {
			return "111111"
		}
		return "000000"
	}
	reset := func(code string) int {
		status, _ := h.do("POST", "/auth/password/reset", "", map[string]string{"email": u.Email, "otp": code, "new_password": "brand-new-pass"})
		return status
	}

	code, _ := h.do("POST", "/auth/password/forgot", "", map[string]string{"email": u.Email})
	require.Equal(t, fiber.StatusOK, code)
	otp := latestCode()
	for i := 0; i < 5; i++ {
		assert.Equal(t, fiber.StatusBadRequest, reset(wrongFor(otp.Code)))
	}
	assert.Equal(t, fiber.StatusBadRequest, reset(otp.Code))

	burned := latestCode()
	assert.Equal(t, uint(5), burned.Attempts)
	assert.NotNil(t, burned.UsedAt)

	// a fresh code still works after fewer misses
	code, _ = h.do("POST", "/auth/password/forgot", "", map[string]string{"email": u.Email})
	require.Equal(t, fiber.StatusOK, code)
	otp = latestCode()
	require.NotEqual(t, burned.ID, otp.ID)
	assert.Equal(t, fiber.StatusBadRequest, reset(wrongFor(otp.Code)))
	assert.Equal(t, fiber.StatusOK, reset(otp.Code))
}

func TestCourseDetailsHidesContentUntilEnrolled(t *testing.T) {
	h := setup(t)
	cat := dbtest.Course(t, h.db, 2)
	require.NoError(t, h.db.Model(&courseModels.Lesson{}).Where("id IN ?", []uint{cat.Lessons[0][0].ID, cat.Lessons[0][1].ID}).
		Update("video_url", "https://video.example.com/v").Error)
	require.NoError(t, h.db.Model(&cat.Lessons[0][0]).Update("is_preview", true).Error)

	lessonURLs := func(out map[string]interface{}) []interface{} {
		course := data(out)["course"].(map[string]interface{})
		module := course["modules"].([]interface{})[0].(map[string]interface{})
		var urls []interface{}
		for _, l := range module["lessons"].([]interface{}) {
			urls = append(urls, l.(map[string]interface{})["video_url"])
		}
		return urls
	}

	path := fmt.Sprintf("/course/%d", cat.Course.ID)
	code, out := h.do("GET", path, "", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, []interface{}{"https://video.example.com/v", ""}, lessonURLs(out))
	assert.Equal(t, false, data(out)["is_enrolled"])

	u := dbtest.User(t, h.db, models.RoleUser)
	code, _ = h.do("POST", path+"/enroll", h.token(u), nil)
	require.Equal(t, fiber.StatusCreated, code)

	code, out = h.do("GET", path, h.token(u), nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, []interface{}{"https://video.example.com/v", "https://video.example.com/v"}, lessonURLs(out))
	assert.Equal(t, true, data(out)["is_enrolled"])

	require.NoError(t, h.db.Model(&courseModels.Enrollment{}).Where("user_id = ?", u.ID).
		Update("status", courseModels.StatusCancelled).Error)
	code, out = h.do("GET", path, h.token(u), nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, []interface{}{"https://video.example.com/v", ""}, lessonURLs(out))

	code, _ = h.do("GET", "/course/999999", "", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestLearningJourney(t *testing.T) {
	h := setup(t)
	cat := dbtest.Course(t, h.db, 2, 1)
	u := dbtest.User(t, h.db, models.RoleUser)
	tok := h.token(u)

	code, out := h.do("POST", fmt.Sprintf("/course/%d/enroll", cat.Course.ID), tok, nil)
	require.Equal(t, fiber.StatusCreated, code, out)
	enrollmentID := uint(data(out)["ID"].(float64))

	code, _ = h.do("POST", fmt.Sprintf("/course/%d/enroll", cat.Course.ID), tok, nil)
	assert.Equal(t, fiber.StatusConflict, code)

	complete := func(lessonID uint) (int, map[string]interface{}) {
		return h.do("POST", fmt.Sprintf("/enrollment/%d/lesson/%d/complete", enrollmentID, lessonID), tok, nil)
	}

	// second lesson of the first module is gated on the first
	code, out = complete(cat.Lessons[0][1].ID)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "0", data(out)["progress_percentage"])

	code, out = complete(cat.Lessons[0][0].ID)
	require.Equal(t, fiber.StatusOK, code, out)
	nav := data(out)["navigation"].(map[string]interface{})
	assert.EqualValues(t, cat.Lessons[0][1].ID, nav["next_lesson_id"])

	code, out = complete(cat.Lessons[0][0].ID)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Lesson already completed!", out["message"])

	code, _ = h.do("POST", fmt.Sprintf("/enrollment/%d/certificate", enrollmentID), tok, nil)
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = complete(cat.Lessons[0][1].ID)
	require.Equal(t, fiber.StatusOK, code)
	code, out = complete(cat.Lessons[1][0].ID)
	require.Equal(t, fiber.StatusOK, code)
	enrollment := data(out)["enrollment"].(map[string]interface{})
	assert.Equal(t, courseModels.StatusCompleted, enrollment["status"])
	assert.Equal(t, "100", enrollment["progress_percentage"])
	assert.Equal(t, true, data(out)["navigation"].(map[string]interface{})["course_end"])

	code, out = h.do("GET", fmt.Sprintf("/enrollment/%d/progress", enrollmentID), tok, nil)
	require.Equal(t, fiber.StatusOK, code)
	modules := data(out)["modules"].([]interface{})
	require.Len(t, modules, 2)
	assert.Equal(t, true, modules[0].(map[string]interface{})["is_completed"])

	code, _ = h.do("POST", fmt.Sprintf("/enrollment/%d/certificate", enrollmentID), tok, nil)
	assert.Equal(t, fiber.StatusCreated, code)
	code, _ = h.do("POST", fmt.Sprintf("/enrollment/%d/certificate", enrollmentID), tok, nil)
	assert.Equal(t, fiber.StatusOK, code)

	code, out = h.do("GET", "/user/certificates", tok, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, data(out)["certificates"], 1)

	code, out = h.do("GET", "/user/dashboard", tok, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.EqualValues(t, 1, data(out)["completed_count"])

	t.Run("other users cannot touch the enrollment", func(t *testing.T) {
		stranger := dbtest.User(t, h.db, models.RoleUser)
		code, _ := h.do("GET", fmt.Sprintf("/enrollment/%d/progress", enrollmentID), h.token(stranger), nil)
		assert.Equal(t, fiber.StatusNotFound, code)
	})
}

func TestReviewsRequireEnrollment(t *testing.T) {
	h := setup(t)
	cat := dbtest.Course(t, h.db, 1)
	u := dbtest.User(t, h.db, models.RoleUser)
	tok := h.token(u)
	path := fmt.Sprintf("/course/%d/review", cat.Course.ID)

	code, _ := h.do("POST", path, tok, map[string]interface{}{"rating": 5, "review_text": "great"})
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = h.do("POST", fmt.Sprintf("/course/%d/enroll", cat.Course.ID), tok, nil)
	require.Equal(t, fiber.StatusCreated, code)

	code, _ = h.do("POST", path, tok, map[string]interface{}{"rating": 6})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, _ = h.do("POST", path, tok, map[string]interface{}{"rating": 4, "review_text": "good"})
	assert.Equal(t, fiber.StatusCreated, code)
	code, _ = h.do("POST", path, tok, map[string]interface{}{"rating": 5, "review_text": "better"})
	assert.Equal(t, fiber.StatusOK, code)

	code, out := h.do("GET", fmt.Sprintf("/course/%d/reviews", cat.Course.ID), "", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, data(out)["reviews"], 1)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	h := setup(t)
	user := dbtest.User(t, h.db, models.RoleUser)

	code, _ := h.do("GET", "/admin/course/list", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = h.do("GET", "/admin/course/list", h.token(user), nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = h.do("GET", "/admin/users", h.token(user), nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	// a demoted admin loses access even with an old token
	admin := dbtest.User(t, h.db, models.RoleAdmin)
	tok := h.token(admin)
	code, _ = h.do("GET", "/admin/dashboard", tok, nil)
	assert.Equal(t, fiber.StatusOK, code)
	require.NoError(t, h.db.Model(&admin).Update("role", models.RoleUser).Error)
	code, _ = h.do("GET", "/admin/dashboard", tok, nil)
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestAdminContentChangesReconcileEnrollments(t *testing.T) {
	h := setup(t)
	admin := dbtest.User(t, h.db, models.RoleAdmin)
	tok := h.token(admin)

	code, out := h.do("POST", "/admin/course/create", tok, map[string]interface{}{
		"title":       "Go for Teams",
		"description": "Concurrency and tooling",
		"instructor":  "Ravi",
		"category":    "knowledge",
	})
	require.Equal(t, fiber.StatusCreated, code, out)
	courseID := uint(data(out)["ID"].(float64))
	assert.Equal(t, "go-for-teams", data(out)["slug"])

	code, out = h.do("POST", fmt.Sprintf("/admin/course/%d/module", courseID), tok, map[string]interface{}{"title": "Basics", "order_index": 1})
	require.Equal(t, fiber.StatusCreated, code, out)
	moduleID := uint(data(out)["ID"].(float64))

	code, _ = h.do("POST", fmt.Sprintf("/admin/course/%d/module", courseID), tok, map[string]interface{}{"title": "Dup", "order_index": 1})
	assert.Equal(t, fiber.StatusConflict, code)

	addLesson := func(title string, order int) uint {
		code, out := h.do("POST", fmt.Sprintf("/admin/module/%d/lesson", moduleID), tok, map[string]interface{}{"title": title, "order_index": order})
		require.Equal(t, fiber.StatusCreated, code, out)
		return uint(data(out)["ID"].(float64))
	}
	firstLesson := addLesson("One", 1)
	addLesson("Two", 2)

	learner := dbtest.User(t, h.db, models.RoleUser)
	code, out = h.do("POST", fmt.Sprintf("/course/%d/enroll", courseID), h.token(learner), nil)
	require.Equal(t, fiber.StatusCreated, code, out)
	enrollmentID := uint(data(out)["ID"].(float64))

	code, _ = h.do("POST", fmt.Sprintf("/enrollment/%d/lesson/%d/complete", enrollmentID, firstLesson), h.token(learner), nil)
	require.Equal(t, fiber.StatusOK, code)

	var e courseModels.Enrollment
	require.NoError(t, h.db.First(&e, enrollmentID).Error)
	assert.Equal(t, courseModels.StatusInProgress, e.Status)
	assert.True(t, decimal.NewFromInt(50).Equal(e.ProgressPercentage), e.ProgressPercentage.String())

	addLesson("Three", 3)

	require.NoError(t, h.db.First(&e, enrollmentID).Error)
	assert.Equal(t, courseModels.StatusInProgress, e.Status)
	assert.True(t, decimal.RequireFromString("33.333333").Equal(e.ProgressPercentage), e.ProgressPercentage.String())

	code, out = h.do("POST", fmt.Sprintf("/admin/enrollment/%d/cancel", enrollmentID), tok, nil)
	require.Equal(t, fiber.StatusOK, code, out)
	assert.Equal(t, courseModels.StatusCancelled, data(out)["status"])

	code, _ = h.do("POST", fmt.Sprintf("/enrollment/%d/lesson/%d/complete", enrollmentID, firstLesson), h.token(learner), nil)
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = h.do("GET", fmt.Sprintf("/enrollment/%d/lesson/%d", enrollmentID, firstLesson), h.token(learner), nil)
	assert.Equal(t, fiber.StatusConflict, code)
}

func TestAdminModuleTasks(t *testing.T) {
	h := setup(t)
	cat := dbtest.Course(t, h.db, 1)
	tok := h.token(dbtest.User(t, h.db, models.RoleAdmin))
	moduleID := cat.Modules[0].ID

	code, out := h.do("POST", fmt.Sprintf("/admin/module/%d/task", moduleID), tok, map[string]interface{}{
		"title":               "Build a CLI",
		"task_type":           "coding",
		"coding_instructions": "Parse flags and print a greeting.",
		"order_index":         1,
	})
	require.Equal(t, fiber.StatusCreated, code, out)
	taskID := uint(data(out)["ID"].(float64))
	assert.Equal(t, true, data(out)["is_required"])

	code, _ = h.do("POST", fmt.Sprintf("/admin/module/%d/task", moduleID), tok, map[string]interface{}{"title": "Dup", "order_index": 1})
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = h.do("POST", fmt.Sprintf("/admin/module/%d/task", moduleID), tok, map[string]interface{}{"title": "Upload", "task_type": "upload", "order_index": 2})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, out = h.do("POST", fmt.Sprintf("/admin/module/%d/task", moduleID), tok, map[string]interface{}{"title": "Read the docs", "order_index": 2, "is_required": false})
	require.Equal(t, fiber.StatusCreated, code, out)
	assert.Equal(t, "reading", data(out)["task_type"])

	code, out = h.do("PUT", fmt.Sprintf("/admin/task/%d", taskID), tok, map[string]interface{}{"order_index": 2})
	assert.Equal(t, fiber.StatusConflict, code, out)

	code, out = h.do("GET", fmt.Sprintf("/admin/module/%d/tasks", moduleID), tok, nil)
	require.Equal(t, fiber.StatusOK, code)
	tasks := out["data"].([]interface{})
	require.Len(t, tasks, 2)
	assert.Equal(t, "Build a CLI", tasks[0].(map[string]interface{})["title"])

	// tasks do not count towards lesson progress
	learner := dbtest.User(t, h.db, models.RoleUser)
	code, out = h.do("POST", fmt.Sprintf("/course/%d/enroll", cat.Course.ID), h.token(learner), nil)
	require.Equal(t, fiber.StatusCreated, code, out)
	enrollmentID := uint(data(out)["ID"].(float64))
	code, out = h.do("POST", fmt.Sprintf("/enrollment/%d/lesson/%d/complete", enrollmentID, cat.Lessons[0][0].ID), h.token(learner), nil)
	require.Equal(t, fiber.StatusOK, code, out)
	var e courseModels.Enrollment
	require.NoError(t, h.db.First(&e, enrollmentID).Error)
	assert.Equal(t, courseModels.StatusCompleted, e.Status)

	code, _ = h.do("DELETE", fmt.Sprintf("/admin/module/%d", moduleID), tok, nil)
	require.Equal(t, fiber.StatusOK, code)
	var left int64
	require.NoError(t, h.db.Unscoped().Model(&courseModels.Task{}).Where("module_id = ?", moduleID).Count(&left).Error)
	assert.Zero(t, left)

	code, _ = h.do("GET", fmt.Sprintf("/admin/module/%d/tasks", moduleID), tok, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestContactMessages(t *testing.T) {
	h := setup(t)

	code, _ := h.do("POST", "/contact", "", map[string]string{"name": "Visitor"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, out := h.do("POST", "/contact", "", map[string]string{
		"name":    "Visitor",
		"email":   "visitor@example.com",
		"subject": "Internships",
		"message": "Do you offer summer internships?",
	})
	require.Equal(t, fiber.StatusCreated, code, out)

	admin := dbtest.User(t, h.db, models.RoleAdmin)
	code, out = h.do("GET", "/admin/messages?unread=true", h.token(admin), nil)
	require.Equal(t, fiber.StatusOK, code, out)
	assert.Len(t, data(out)["messages"], 1)
}
