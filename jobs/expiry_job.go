package jobs

import (
	"log"
	"time"

	"github.com/edulink/certify/database"
	"github.com/edulink/certify/models"
)

// MarkExpiredCertificates flips active certificates whose expiry date
// has passed to expired. Signatures are untouched: expiry is a status
// change, not a canonical-field change.
func MarkExpiredCertificates() {
	log.Println("Running job: MarkExpiredCertificates...")

	today := time.Now().UTC().Truncate(24 * time.Hour)

	result := database.DB.Model(&models.Certificate{}).
		Where("status = ? AND expiry_date IS NOT NULL AND expiry_date < ?", models.StatusActive, today).
		Update("status", models.StatusExpired)

	if result.Error != nil {
		log.Printf("Error marking expired certificates: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Marked %d certificate(s) as expired.", result.RowsAffected)
	}
}
