package certificate_test

import (
	"testing"

	"futurebound/database/dbtest"
	"futurebound/models"
	courseModels "futurebound/models/course"
	"futurebound/services/certificate"
	"futurebound/services/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.Course(t, db, 2)
	u := dbtest.User(t, db, models.RoleUser)
	e, err := progress.CreateEnrollment(db, u.ID, cat.Course.ID)
	require.NoError(t, err)

	_, _, err = certificate.Issue(db, u.ID, e.ID)
	assert.ErrorIs(t, err, certificate.ErrNotCompleted)

	for _, l := range cat.Lessons[0] {
		_, err := progress.MarkLessonComplete(db, u.ID, e.ID, l.ID)
		require.NoError(t, err)
	}

	cert, created, err := certificate.Issue(db, u.ID, e.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Regexp(t, `^FBT-[0-9A-F]{16}$`, cert.CertificateID)

	again, created, err := certificate.Issue(db, u.ID, e.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, cert.CertificateID, again.CertificateID)

	var got courseModels.Enrollment
	require.NoError(t, db.First(&got, e.ID).Error)
	assert.True(t, got.CertificateIssued)

	var count int64
	db.Model(&courseModels.Certificate{}).Where("enrollment_id = ?", e.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestIssueRejectsOtherUsers(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.Course(t, db, 1)
	owner := dbtest.User(t, db, models.RoleUser)
	e, err := progress.CreateEnrollment(db, owner.ID, cat.Course.ID)
	require.NoError(t, err)
	_, err = progress.MarkLessonComplete(db, owner.ID, e.ID, cat.Lessons[0][0].ID)
	require.NoError(t, err)

	stranger := dbtest.User(t, db, models.RoleUser)
	_, _, err = certificate.Issue(db, stranger.ID, e.ID)
	assert.ErrorIs(t, err, progress.ErrNotFound)
}
