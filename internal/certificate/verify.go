package certificate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	certmetrics "fismapp/internal/certificate/metrics"
	dErrors "fismapp/pkg/domain-errors"
	"fismapp/pkg/platform/audit"
	"fismapp/pkg/platform/sentinel"
	"fismapp/pkg/requestcontext"
)

// InvalidReason explains why a verification came back negative.
type InvalidReason string

const (
	ReasonNotFound  InvalidReason = "not_found"
	ReasonMalformed InvalidReason = "malformed"
)

// VerifiedCertificate is the public summary returned for a valid code. It
// deliberately omits internal identifiers and course detail: the verify
// endpoint is unauthenticated.
type VerifiedCertificate struct {
	TemplateName  string    `json:"template_name"`
	RecipientName string    `json:"recipient_name"`
	IssuedAt      time.Time `json:"issued_at"`
}

// VerifyResult is the outcome of a verification. Both valid and invalid are
// normal results, not errors; only storage failure surfaces as an error.
type VerifyResult struct {
	Valid       bool                 `json:"valid"`
	Reason      InvalidReason        `json:"reason,omitempty"`
	Certificate *VerifiedCertificate `json:"certificate,omitempty"`
}

// Verifier answers whether a verification code identifies a real
// certificate. It never mutates the ledger.
type Verifier struct {
	ledger    Ledger
	logger    *slog.Logger
	metrics   *certmetrics.Metrics
	publisher audit.Publisher
}

type VerifierOption func(*Verifier)

func VerifierWithMetrics(m *certmetrics.Metrics) VerifierOption {
	return func(v *Verifier) { v.metrics = m }
}

func VerifierWithAuditPublisher(p audit.Publisher) VerifierOption {
	return func(v *Verifier) { v.publisher = p }
}

func NewVerifier(ledger Ledger, logger *slog.Logger, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		ledger:    ledger,
		logger:    logger,
		publisher: audit.NopPublisher{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks raw against the ledger. Malformed codes are rejected before
// any storage access so junk input cannot probe the ledger.
func (v *Verifier) Verify(ctx context.Context, raw string) (VerifyResult, error) {
	code := NormalizeCode(raw)
	if !IsWellFormedCode(code) {
		v.record(ctx, code, string(ReasonMalformed))
		return VerifyResult{Valid: false, Reason: ReasonMalformed}, nil
	}

	cert, err := v.ledger.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			v.record(ctx, code, string(ReasonNotFound))
			return VerifyResult{Valid: false, Reason: ReasonNotFound}, nil
		}
		v.logger.ErrorContext(ctx, "verification lookup failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return VerifyResult{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "certificate ledger unavailable")
	}

	v.record(ctx, code, "valid")
	return VerifyResult{
		Valid: true,
		Certificate: &VerifiedCertificate{
			TemplateName:  cert.TemplateName,
			RecipientName: cert.RecipientSnapshot.DisplayName(),
			IssuedAt:      cert.IssuedAt,
		},
	}, nil
}

func (v *Verifier) record(ctx context.Context, code, result string) {
	if v.metrics != nil {
		v.metrics.IncrementVerifyResult(result)
	}
	event := audit.Event{
		Action:    audit.ActionCertificateVerified,
		Timestamp: requestcontext.Now(ctx).UTC(),
		CodeHash:  audit.HashCode(code),
		Outcome:   result,
		RequestID: requestcontext.RequestID(ctx),
	}
	if err := v.publisher.Publish(ctx, event); err != nil {
		v.logger.WarnContext(ctx, "audit publish failed",
			"action", event.Action,
			"error", err,
		)
	}
}
