// Package handler exposes the certificate module over HTTP: issuance and
// listing for authenticated portal users, PDF download, and the public
// verification endpoint.
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fismapp/internal/certificate"
	"fismapp/internal/course"
	"fismapp/internal/render"
	"fismapp/internal/template"
	dErrors "fismapp/pkg/domain-errors"
	"fismapp/pkg/platform/httputil"
)

// IssuanceService is the issuance surface the handler depends on.
type IssuanceService interface {
	IssueSingle(ctx context.Context, templateID, recipientID string, opts certificate.IssueOptions) (*certificate.IssuedCertificate, error)
	IssueBulk(ctx context.Context, templateID string, recipientIDs []string, opts certificate.IssueOptions) (*certificate.BulkReport, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]*certificate.IssuedCertificate, error)
	GetByCode(ctx context.Context, code string) (*certificate.IssuedCertificate, error)
}

// VerificationService answers public verification requests.
type VerificationService interface {
	Verify(ctx context.Context, raw string) (certificate.VerifyResult, error)
}

// Renderer turns an issued certificate into its printable form.
type Renderer interface {
	Render(w io.Writer, data render.CertificateData) error
}

type Handler struct {
	issuance  IssuanceService
	verifier  VerificationService
	templates template.Store
	courses   course.Store
	renderer  Renderer
	logger    *slog.Logger
}

func New(
	issuance IssuanceService,
	verifier VerificationService,
	templates template.Store,
	courses course.Store,
	renderer Renderer,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		issuance:  issuance,
		verifier:  verifier,
		templates: templates,
		courses:   courses,
		renderer:  renderer,
		logger:    logger,
	}
}

// Routes mounts the authenticated certificate endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/certificates", h.issueSingle)
	r.Post("/certificates/bulk", h.issueBulk)
	r.Get("/certificates", h.listByRecipient)
	r.Get("/certificates/{code}/pdf", h.downloadPDF)
}

// PublicRoutes mounts the endpoints that require no authentication.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Post("/certificates/verify", h.verify)
}

type issueRequest struct {
	TemplateID  string `json:"template_id"`
	RecipientID string `json:"recipient_id"`
	certificate.IssueOptions
}

func (h *Handler) issueSingle(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.RecipientID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "recipient_id is required"))
		return
	}

	cert, err := h.issuance.IssueSingle(r.Context(), req.TemplateID, req.RecipientID, req.IssueOptions)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, cert)
}

type bulkIssueRequest struct {
	TemplateID   string   `json:"template_id"`
	RecipientIDs []string `json:"recipient_ids"`
	certificate.IssueOptions
}

func (h *Handler) issueBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkIssueRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.issuance.IssueBulk(r.Context(), req.TemplateID, req.RecipientIDs, req.IssueOptions)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) listByRecipient(w http.ResponseWriter, r *http.Request) {
	recipientID := r.URL.Query().Get("recipient_id")
	certs, err := h.issuance.ListByRecipient(r.Context(), recipientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"certificates": certs,
	})
}

func (h *Handler) downloadPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cert, err := h.issuance.GetByCode(ctx, chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	tmpl, err := h.templates.GetTemplate(ctx, cert.TemplateID)
	if err != nil {
		// The template may have been removed since issuance; the snapshot
		// keeps verification alive but the PDF needs the full layout.
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "certificate template unavailable"))
		return
	}

	records, err := h.courses.ListByRecipient(ctx, cert.RecipientSnapshot.RecipientID)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "course history unavailable"))
		return
	}

	data := render.CertificateData{
		Certificate: cert,
		Template:    tmpl,
		History:     course.GroupCrossListed(course.FilterPeriods(records, cert.IncludedPeriods)),
	}
	if cert.CurrentPeriod != "" {
		data.Current = course.GroupCrossListed(course.FilterPeriods(records, []string{cert.CurrentPeriod}))
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, data); err != nil {
		h.logger.ErrorContext(ctx, "certificate render failed",
			"certificate_id", cert.CertificateID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "certificado-"+cert.VerificationCode+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

type verifyRequest struct {
	Code string `json:"code"`
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.verifier.Verify(r.Context(), req.Code)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	// Invalid codes are a normal answer, not an error status.
	httputil.WriteJSON(w, http.StatusOK, result)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid JSON body")
	}
	return nil
}
