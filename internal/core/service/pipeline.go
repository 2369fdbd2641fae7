// Package service implements the core business logic.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/simpleai/community-invites/internal/core/domain"
	"github.com/simpleai/community-invites/internal/core/ports"
	"github.com/simpleai/community-invites/internal/logger"
)

// State is a step of the webhook pipeline.
type State int

const (
	StateReceived State = iota
	StateVerified
	StateClassified
	StateTargetResolved
	StateCredentialIssued
	StateNotified
	StateDone
	StateIgnored
	StateFailed
)

var stateNames = map[State]string{
	StateReceived:         "received",
	StateVerified:         "verified",
	StateClassified:       "classified",
	StateTargetResolved:   "target_resolved",
	StateCredentialIssued: "credential_issued",
	StateNotified:         "notified",
	StateDone:             "done",
	StateIgnored:          "ignored",
	StateFailed:           "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateIgnored || s == StateFailed
}

// Run is the state of one webhook call as it moves through the pipeline.
// Transitions are pure: each after* method returns the next Run and never mutates the receiver.
type Run struct {
	State      State
	Reason     error
	Event      *domain.PaymentEvent
	Intent     domain.PurchaseIntent
	Target     domain.CommunityTarget
	Credential *domain.AccessCredential
}

// SignatureRejected reports whether the run failed authentication.
func (r Run) SignatureRejected() bool {
	return r.State == StateFailed && errors.Is(r.Reason, domain.ErrInvalidSignature)
}

func (r Run) fail(err error) Run {
	r.State = StateFailed
	r.Reason = err
	return r
}

func (r Run) ignore(err error) Run {
	r.State = StateIgnored
	r.Reason = err
	return r
}

func (r Run) afterVerify(event *domain.PaymentEvent, err error) Run {
	if r.State != StateReceived {
		return r
	}
	if err != nil {
		return r.fail(err)
	}
	r.State = StateVerified
	r.Event = event
	return r
}

// afterClassify ignores events that carry no purchase to act on.
// A classifier error that is not ignorable fails the run.
func (r Run) afterClassify(intent domain.PurchaseIntent, err error) Run {
	if r.State != StateVerified {
		return r
	}
	r.Intent = intent
	if err != nil {
		if domain.IsIgnorable(err) {
			return r.ignore(err)
		}
		return r.fail(err)
	}
	r.State = StateClassified
	return r
}

func (r Run) afterResolve(target domain.CommunityTarget, ok bool) Run {
	if r.State != StateClassified {
		return r
	}
	if !ok {
		return r.ignore(domain.NewServiceError(domain.ErrUnmappedProduct,
			"no community for item "+r.Intent.PurchasedItemID, "UNMAPPED_PRODUCT"))
	}
	r.State = StateTargetResolved
	r.Target = target
	return r
}

func (r Run) afterIssue(cred *domain.AccessCredential, err error) Run {
	if r.State != StateTargetResolved {
		return r
	}
	if err != nil {
		return r.fail(err)
	}
	r.State = StateCredentialIssued
	r.Credential = cred
	return r
}

// afterNotify keeps the credential on failure; issued invites are never revoked.
func (r Run) afterNotify(err error) Run {
	if r.State != StateCredentialIssued {
		return r
	}
	if err != nil {
		return r.fail(err)
	}
	r.State = StateNotified
	return r
}

func (r Run) complete() Run {
	if r.State != StateNotified {
		return r
	}
	r.State = StateDone
	return r
}

// Pipeline sequences verification, classification, routing, invite issuance and notification.
// It holds no per-request state, so one Pipeline serves concurrent webhooks.
type Pipeline struct {
	verifier   ports.SignatureVerifier
	classifier ports.EventClassifier
	resolver   ports.CommunityResolver
	issuer     ports.InviteIssuer
	notifier   ports.Notifier
	logger     *zap.Logger
}

// NewPipeline creates a new pipeline.
func NewPipeline(
	verifier ports.SignatureVerifier,
	classifier ports.EventClassifier,
	resolver ports.CommunityResolver,
	issuer ports.InviteIssuer,
	notifier ports.Notifier,
	log *zap.Logger,
) *Pipeline {
	return &Pipeline{
		verifier:   verifier,
		classifier: classifier,
		resolver:   resolver,
		issuer:     issuer,
		notifier:   notifier,
		logger:     log,
	}
}

// Handle processes one webhook call and returns the terminal Run.
// No step is retried: the invite call is not idempotent.
func (p *Pipeline) Handle(ctx context.Context, payload []byte, signatureHeader string) Run {
	run := Run{State: StateReceived}

	run = run.afterVerify(p.verifier.Verify(payload, signatureHeader))
	if run.State == StateVerified {
		run = run.afterClassify(p.classifier.Classify(*run.Event))
	}
	if run.State == StateClassified {
		run = run.afterResolve(p.resolver.Resolve(run.Intent.PurchasedItemID))
	}
	if run.State == StateTargetResolved {
		run = run.afterIssue(p.issuer.IssueInvite(ctx, run.Target.CommunityID))
	}
	if run.State == StateCredentialIssued {
		run = run.afterNotify(p.notifier.Notify(ctx, run.Intent.PurchaserEmail, *run.Credential, run.Target.Locale))
	}
	run = run.complete()

	p.logOutcome(ctx, run)
	return run
}

func (p *Pipeline) logOutcome(ctx context.Context, run Run) {
	log := logger.FromContext(ctx, p.logger)
	fields := []zap.Field{zap.Stringer("state", run.State)}
	if run.Event != nil {
		fields = append(fields, zap.String("event_id", run.Event.ID), zap.String("event_type", run.Event.Type))
	}
	if run.Intent.PurchasedItemID != "" {
		fields = append(fields, zap.String("payment_link", run.Intent.PurchasedItemID))
	}
	if run.Target.CommunityID != "" {
		fields = append(fields, zap.String("community_id", run.Target.CommunityID), zap.String("locale", string(run.Target.Locale)))
	}
	if run.Credential != nil {
		fields = append(fields, zap.String("invite_url", run.Credential.URL))
	}

	switch {
	case run.SignatureRejected():
		log.Warn("Webhook rejected", append(fields, zap.Error(run.Reason))...)
	case run.State == StateFailed:
		log.Error("Webhook processing failed", append(fields, zap.Error(run.Reason))...)
	case run.State == StateIgnored:
		log.Info("Webhook ignored", append(fields, zap.Error(run.Reason))...)
	default:
		log.Info("Invite delivered", append(fields, zap.String("recipient", run.Intent.PurchaserEmail))...)
	}
}
