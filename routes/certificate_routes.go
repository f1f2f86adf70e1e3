package routes

import (
	"github.com/edulink/certify/handlers"
	"github.com/edulink/certify/middleware"
	"github.com/gofiber/fiber/v2"
)

// CertificateRoutes mixes public and admin endpoints: anyone can
// validate a code, retrieve a certificate or fetch its QR code, while
// issuance and mutation require an admin token.
func CertificateRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	certs := api.Group("/certificates")

	certs.Post("/validate", handlers.ValidateCertificate)
	certs.Get("/validate", handlers.ValidateCertificate)
	certs.Get("/:certificateId/qr-code", handlers.CertificateQRCode)
	certs.Get("/:certificateId/verify", handlers.VerifyCertificate)

	certs.Post("", middleware.Protected(), middleware.AdminRequired(), handlers.CreateCertificate)
	certs.Get("", middleware.Protected(), middleware.AdminRequired(), handlers.ListCertificates)
	certs.Get("/:certificateId/download", middleware.Protected(), middleware.AdminRequired(), handlers.DownloadCertificate)
	certs.Get("/:certificateId", handlers.GetCertificate)
	certs.Put("/:certificateId", middleware.Protected(), middleware.AdminRequired(), handlers.UpdateCertificate)
	certs.Patch("/:certificateId/status", middleware.Protected(), middleware.AdminRequired(), handlers.TransitionCertificateStatus)
	certs.Delete("/:certificateId", middleware.Protected(), middleware.AdminRequired(), handlers.DeleteCertificate)
}
