// Package template holds certificate template definitions. Templates decide
// how a certificate reads and renders; the ledger only snapshots the template
// name so deleting or editing a template never breaks past verifications.
package template

// CertificateTemplate describes one certificate layout. Rendering attributes
// beyond Name/Description/Layout feed the PDF renderer only.
type CertificateTemplate struct {
	TemplateID  string `json:"template_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Layout is an opaque reference consumed by the renderer
	// (standard, formal, modern, minimal).
	Layout string `json:"layout"`

	DepartmentName string `json:"department_name"`
	UniversityName string `json:"university_name"`
	Address        string `json:"address"`

	TitleText     string `json:"title_text"`
	RecipientLine string `json:"recipient_line"`
	IntroText     string `json:"intro_text"`
	CoursesIntro  string `json:"courses_intro"`
	ClosingText   string `json:"closing_text"`

	SecretaryName  string `json:"secretary_name"`
	SecretaryTitle string `json:"secretary_title"`

	VerificationText string `json:"verification_text"`
	UniversityMotto  string `json:"university_motto"`

	IncludeQRByDefault bool `json:"include_qr_by_default"`
	IsDefault          bool `json:"is_default"`
}
