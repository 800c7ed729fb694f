// Package certificate issues completion certificates.
package certificate

import (
	"errors"
	"fmt"

	courseModels "futurebound/models/course"
	"futurebound/services/progress"
	"futurebound/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotCompleted = errors.New("course must be completed before a certificate is issued")

// Issue returns the certificate of a completed enrollment, creating it on
// first call. created reports whether this call created it.
func Issue(db *gorm.DB, userID, enrollmentID uint) (cert *courseModels.Certificate, created bool, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		var e courseModels.Enrollment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", enrollmentID, userID).
			First(&e).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return progress.ErrNotFound
			}
			return err
		}
		if e.Status != courseModels.StatusCompleted {
			return ErrNotCompleted
		}

		var existing courseModels.Certificate
		err = tx.Where("enrollment_id = ?", e.ID).First(&existing).Error
		if err == nil {
			cert = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		cert = &courseModels.Certificate{
			EnrollmentID:  e.ID,
			CertificateID: utils.NewCertificateID(),
			IssuedAt:      progress.Now(),
		}
		if err := tx.Create(cert).Error; err != nil {
			return fmt.Errorf("create certificate: %w", err)
		}
		created = true
		return tx.Model(&e).Update("certificate_issued", true).Error
	})
	if err != nil {
		return nil, false, err
	}
	return cert, created, nil
}
