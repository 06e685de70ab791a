package certificate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	certmetrics "fismapp/internal/certificate/metrics"
	"fismapp/internal/course"
	"fismapp/internal/recipient"
	"fismapp/internal/template"
	dErrors "fismapp/pkg/domain-errors"
	"fismapp/pkg/platform/audit"
	"fismapp/pkg/platform/sentinel"
	"fismapp/pkg/requestcontext"
)

// Engine is the issuance side of the certificate service. It is stateless
// across calls: all state lives in the template store, the recipient
// directory, and the ledger.
type Engine struct {
	templates  template.Store
	recipients recipient.Store
	ledger     Ledger
	periods    *course.PeriodCatalog

	logger           *slog.Logger
	metrics          *certmetrics.Metrics
	publisher        audit.Publisher
	defaultAddressee string
	bulkConcurrency  int
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

func WithMetrics(m *certmetrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithAuditPublisher(p audit.Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

func WithDefaultAddressee(text string) Option {
	return func(e *Engine) { e.defaultAddressee = text }
}

// WithBulkConcurrency bounds the per-recipient fan-out in IssueBulk.
func WithBulkConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.bulkConcurrency = n
		}
	}
}

func NewEngine(
	templates template.Store,
	recipients recipient.Store,
	ledger Ledger,
	periods *course.PeriodCatalog,
	logger *slog.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		templates:        templates,
		recipients:       recipients,
		ledger:           ledger,
		periods:          periods,
		logger:           logger,
		publisher:        audit.NopPublisher{},
		defaultAddressee: "A QUIEN CORRESPONDA",
		bulkConcurrency:  8,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IssueSingle creates one certificate. Two calls with identical arguments
// produce two distinct certificates; issuance is not an upsert.
func (e *Engine) IssueSingle(ctx context.Context, templateID, recipientID string, opts IssueOptions) (*IssuedCertificate, error) {
	start := time.Now()

	tmpl, err := e.resolveTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if err := e.validatePeriods(opts); err != nil {
		return nil, err
	}

	cert, kind := e.issueOne(ctx, tmpl, recipientID, opts)
	if kind != "" {
		return nil, kindError(kind, recipientID)
	}

	if e.metrics != nil {
		e.metrics.ObserveIssue(start)
	}
	return cert, nil
}

// IssueBulk creates certificates for every recipient in recipientIDs.
// Template and period validation happen once, before any ledger write; a
// failure there aborts the whole batch. Per-recipient failures are isolated:
// they appear in the report's error list and never block the remaining
// recipients. Both report slices follow input order even though the work
// fans out concurrently.
func (e *Engine) IssueBulk(ctx context.Context, templateID string, recipientIDs []string, opts IssueOptions) (*BulkReport, error) {
	if len(recipientIDs) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "recipient list is empty")
	}

	tmpl, err := e.resolveTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if err := e.validatePeriods(opts); err != nil {
		return nil, err
	}

	type itemResult struct {
		cert *IssuedCertificate
		kind ErrorKind
	}
	results := make([]itemResult, len(recipientIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.bulkConcurrency)
	for i, recipientID := range recipientIDs {
		i, recipientID := i, recipientID
		g.Go(func() error {
			// Cancellation stops scheduling further work; certificates
			// already written stand.
			if err := gctx.Err(); err != nil {
				return err
			}
			cert, kind := e.issueOne(gctx, tmpl, recipientID, opts)
			results[i] = itemResult{cert: cert, kind: kind}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "bulk issuance interrupted")
	}

	report := &BulkReport{
		Generated: make([]*IssuedCertificate, 0, len(recipientIDs)),
		Errors:    []BulkError{},
	}
	for i, res := range results {
		if res.kind != "" {
			report.Errors = append(report.Errors, BulkError{
				RecipientID: recipientIDs[i],
				Kind:        res.kind,
			})
			if e.metrics != nil {
				e.metrics.IncrementBulkFailure(string(res.kind))
			}
			continue
		}
		report.Generated = append(report.Generated, res.cert)
	}
	report.GeneratedCount = len(report.Generated)
	return report, nil
}

// ListByRecipient returns the recipient's certificates ordered by issuance
// time ascending.
func (e *Engine) ListByRecipient(ctx context.Context, recipientID string) ([]*IssuedCertificate, error) {
	if recipientID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "recipient_id is required")
	}
	records, err := e.ledger.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "certificate ledger unavailable")
	}
	return records, nil
}

// GetByCode fetches one certificate by its normalized verification code.
// Used by the PDF route, which already sits behind authentication.
func (e *Engine) GetByCode(ctx context.Context, raw string) (*IssuedCertificate, error) {
	code := NormalizeCode(raw)
	if !IsWellFormedCode(code) {
		return nil, dErrors.New(dErrors.CodeNotFound, "certificate not found")
	}
	rec, err := e.ledger.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "certificate not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "certificate ledger unavailable")
	}
	return rec, nil
}

// issueOne performs one precondition-checked issuance. Template and period
// validation are the caller's responsibility so bulk batches validate them
// exactly once.
func (e *Engine) issueOne(ctx context.Context, tmpl *template.CertificateTemplate, recipientID string, opts IssueOptions) (*IssuedCertificate, ErrorKind) {
	rec, err := e.recipients.GetRecipient(ctx, recipientID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, KindRecipientNotFound
		}
		e.logger.ErrorContext(ctx, "recipient lookup failed",
			"recipient_id", recipientID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, KindStorageUnavailable
	}

	addressee := opts.AddresseeText
	if addressee == "" {
		addressee = tmpl.RecipientLine
	}
	if addressee == "" {
		addressee = e.defaultAddressee
	}

	record := &IssuedCertificate{
		TemplateID:   tmpl.TemplateID,
		TemplateName: tmpl.Name,
		RecipientSnapshot: RecipientSnapshot{
			RecipientID: rec.RecipientID,
			FirstName:   rec.FirstName,
			LastName:    rec.LastName,
		},
		IssuedAt:           requestcontext.Now(ctx).UTC(),
		AddresseeText:      addressee,
		IncludedPeriods:    append([]string(nil), opts.IncludedPeriods...),
		CurrentPeriod:      opts.CurrentPeriod,
		EmbedScannableCode: opts.embedScannableCode(),
	}

	stored, err := e.ledger.Append(ctx, record)
	if err != nil {
		e.logger.ErrorContext(ctx, "ledger append failed",
			"recipient_id", recipientID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, KindStorageUnavailable
	}

	if e.metrics != nil {
		e.metrics.IncrementIssued()
	}
	e.emitIssued(ctx, stored)
	return stored, ""
}

func (e *Engine) emitIssued(ctx context.Context, cert *IssuedCertificate) {
	event := audit.Event{
		Action:        audit.ActionCertificateIssued,
		Timestamp:     cert.IssuedAt,
		ActorID:       requestcontext.UserID(ctx),
		RecipientID:   cert.RecipientSnapshot.RecipientID,
		CertificateID: cert.CertificateID,
		CodeHash:      audit.HashCode(cert.VerificationCode),
		Outcome:       "issued",
		RequestID:     requestcontext.RequestID(ctx),
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "audit publish failed",
			"action", event.Action,
			"error", err,
		)
	}
}

func (e *Engine) resolveTemplate(ctx context.Context, templateID string) (*template.CertificateTemplate, error) {
	if templateID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "template_id is required")
	}
	tmpl, err := e.templates.GetTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "template %s not found", templateID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "template store unavailable")
	}
	return tmpl, nil
}

func (e *Engine) validatePeriods(opts IssueOptions) error {
	for _, p := range opts.IncludedPeriods {
		if !e.periods.Known(p) {
			return dErrors.Newf(dErrors.CodeBadRequest, "unknown period %q", p)
		}
	}
	if opts.CurrentPeriod != "" && !e.periods.Known(opts.CurrentPeriod) {
		return dErrors.Newf(dErrors.CodeBadRequest, "unknown period %q", opts.CurrentPeriod)
	}
	return nil
}

func kindError(kind ErrorKind, recipientID string) error {
	switch kind {
	case KindRecipientNotFound:
		return dErrors.Newf(dErrors.CodeNotFound, "recipient %s not found", recipientID)
	case KindStorageUnavailable:
		return dErrors.New(dErrors.CodeUnavailable, "certificate ledger unavailable")
	default:
		return dErrors.New(dErrors.CodeInternal, "issuance failed")
	}
}
