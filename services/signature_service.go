package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/edulink/certify/models"
)

// ErrMissingSignature marks a persisted certificate that never received
// a signature. Such a record must never be reported as valid.
var ErrMissingSignature = errors.New("certificate has no signature")

// CertificateDigest derives the tamper-detection fingerprint for a
// certificate. The canonical field set is frozen: identity, the
// student's external id and full name, the course name, both dates, the
// public code, the issuing user and the creation timestamp. Mutable
// fields such as status, updated_at and file_url are deliberately
// excluded, so changing them never breaks verification.
//
// The certificate must carry its expanded Student and Course, and its
// CreatedAt must be the stored creation timestamp. The timestamp is
// normalized to UTC before formatting: the database hands timestamptz
// values back in the process-local zone, and the digest must not
// depend on where the process runs.
func CertificateDigest(cert *models.Certificate) string {
	var expiryDate interface{}
	if cert.ExpiryDate != nil {
		expiryDate = cert.ExpiryDate.Format("2006-01-02")
	}
	var createdBy interface{}
	if cert.CreatedByID != nil {
		createdBy = cert.CreatedByID.String()
	}

	certData := map[string]interface{}{
		"certificate_id": cert.ID.String(),
		"student_id":     cert.Student.StudentID,
		"student_name":   cert.Student.FullName(),
		"course_name":    cert.Course.Name,
		"issue_date":     cert.IssueDate.Format("2006-01-02"),
		"expiry_date":    expiryDate,
		"unique_code":    cert.UniqueCode,
		"created_by":     createdBy,
		"created_at":     cert.CreatedAt.UTC().Format(time.RFC3339Nano),
	}

	// json.Marshal writes map keys in sorted order, which makes the
	// serialization canonical.
	dataBytes, _ := json.Marshal(certData)
	sum := sha256.Sum256(dataBytes)
	return hex.EncodeToString(sum[:])
}

// VerifySignature recomputes the digest from the certificate's current
// canonical fields and compares it to the stored signature.
func VerifySignature(cert *models.Certificate) (bool, error) {
	if cert.Signature == "" {
		return false, ErrMissingSignature
	}
	return CertificateDigest(cert) == cert.Signature, nil
}
