package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	config "github.com/edulink/certify/configs"
	"github.com/edulink/certify/models"
)

// RenderCertificatePDF renders the printable certificate for a record
// whose student and course are expanded.
func RenderCertificatePDF(cert *models.Certificate) ([]byte, error) {
	htmlData, err := certificateHTML(cert)
	if err != nil {
		return nil, err
	}
	return pdfFromHTML(htmlData)
}

func certificateHTML(cert *models.Certificate) (string, error) {
	tmpl, err := template.ParseFiles("templates/certificate.html")
	if err != nil {
		return "", err
	}

	data := struct {
		StudentName string
		CourseName  string
		IssueDate   string
		UniqueCode  string
	}{
		StudentName: cert.Student.FullName(),
		CourseName:  cert.Course.Name,
		IssueDate:   cert.IssueDate.Format("January 2, 2006"),
		UniqueCode:  cert.UniqueCode,
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func pdfFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

// UploadCertificatePDF pushes a rendered certificate to Cloudinary and
// returns the shareable URL. Callers skip this when CLOUDINARY_URL is
// not configured.
func UploadCertificatePDF(fileBytes []byte, cert *models.Certificate) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("certificates/%s", cert.ID.String()),
		Folder:       "certify_certificates",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	log.Printf("✅ Uploaded certificate %s to %s", cert.ID, uploadResult.SecureURL)
	return uploadResult.SecureURL, nil
}
