package render

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"strconv"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/go-pdf/fpdf"

	"fismapp/internal/certificate"
	"fismapp/internal/course"
	"fismapp/internal/template"
	dErrors "fismapp/pkg/domain-errors"
)

// CertificateData bundles everything a certificate page needs. Course groups
// arrive pre-grouped; the renderer only lays them out.
type CertificateData struct {
	Certificate *certificate.IssuedCertificate
	Template    *template.CertificateTemplate
	History     []course.CourseGroup
	Current     []course.CourseGroup
}

// PDFRenderer produces the printable certificate. Layout mirrors the
// institutional letterhead: header, addressee, body text, course tables,
// signature block, and an optional verification QR in the footer.
type PDFRenderer struct {
	verifyBaseURL string
}

func NewPDFRenderer(verifyBaseURL string) *PDFRenderer {
	return &PDFRenderer{verifyBaseURL: verifyBaseURL}
}

// Render writes the certificate PDF to w.
func (r *PDFRenderer) Render(w io.Writer, data CertificateData) error {
	if data.Certificate == nil || data.Template == nil {
		return dErrors.New(dErrors.CodeInternal, "render requires certificate and template")
	}
	cert := data.Certificate
	tmpl := data.Template

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()

	// Source text is Spanish; fpdf core fonts are cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 7, tr(tmpl.UniversityName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 6, tr(tmpl.DepartmentName), "", 1, "C", false, 0, "")
	if tmpl.Address != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, tr(tmpl.Address), "", 1, "C", false, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 7, tr(tmpl.TitleText), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, tr(cert.AddresseeText), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	name := cert.RecipientSnapshot.DisplayName()
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s %s", tmpl.IntroText, name)), "", "J", false)
	pdf.Ln(4)

	if len(data.History) > 0 {
		if tmpl.CoursesIntro != "" {
			pdf.MultiCell(0, 6, tr(tmpl.CoursesIntro), "", "J", false)
			pdf.Ln(2)
		}
		r.courseTable(pdf, tr, data.History)
		pdf.Ln(4)
	}

	if len(data.Current) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, tr("Periodo actual: "+course.FormatPeriod(cert.CurrentPeriod)), "", 1, "L", false, 0, "")
		pdf.Ln(1)
		r.courseTable(pdf, tr, data.Current)
		pdf.Ln(4)
	}

	if tmpl.ClosingText != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(tmpl.ClosingText), "", "J", false)
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr("H. Puebla de Zaragoza, a "+cert.IssuedAt.Format("02/01/2006")), "", 1, "R", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, tr(tmpl.SecretaryName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, tr(tmpl.SecretaryTitle), "", 1, "C", false, 0, "")

	if cert.EmbedScannableCode {
		if err := r.footer(pdf, tr, tmpl, cert); err != nil {
			return err
		}
	}

	if err := pdf.Output(w); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "write certificate pdf")
	}
	return nil
}

func (r *PDFRenderer) courseTable(pdf *fpdf.Fpdf, tr func(string) string, groups []course.CourseGroup) {
	widths := []float64{70, 26, 30, 34, 16}
	headers := []string{"Materia", "NRC", "Periodo", "Fechas", "Horas"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, g := range groups {
		dates := ""
		if !g.StartDate.IsZero() && !g.EndDate.IsZero() {
			dates = g.StartDate.Format("02/01/2006") + " - " + g.EndDate.Format("02/01/2006")
		}
		pdf.CellFormat(widths[0], 7, tr(g.Subject), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, tr(g.NRC), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, tr(course.FormatPeriod(g.Period)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 7, tr(dates), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 7, strconv.Itoa(g.ContactHours), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
}

func (r *PDFRenderer) footer(pdf *fpdf.Fpdf, tr func(string) string, tmpl *template.CertificateTemplate, cert *certificate.IssuedCertificate) error {
	img, err := r.qrPNG(r.verifyBaseURL + cert.VerificationCode)
	if err != nil {
		return err
	}

	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("verify-qr", opts, bytes.NewReader(img))

	pageW, pageH := pdf.GetPageSize()
	const side = 24.0
	pdf.ImageOptions("verify-qr", pageW-20-side, pageH-25-side, side, side, false, opts, 0, "")

	pdf.SetY(pageH - 25 - side)
	pdf.SetFont("Helvetica", "", 8)
	pdf.MultiCell(pageW-40-side-4, 4, tr(tmpl.VerificationText), "", "L", false)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(pageW-40-side-4, 4, cert.VerificationCode, "", 1, "L", false, 0, "")
	if tmpl.UniversityMotto != "" {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(pageW-40-side-4, 4, tr(tmpl.UniversityMotto), "", 1, "L", false, 0, "")
	}
	return nil
}

func (r *PDFRenderer) qrPNG(content string) ([]byte, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode verification qr")
	}
	scaled, err := barcode.Scale(code, 256, 256)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scale verification qr")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "render verification qr")
	}
	return buf.Bytes(), nil
}
