package service

import (
	"context"
	"slices"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
)

// ConsentHandler is the produced interface of one consent family.
type ConsentHandler interface {
	IntentType() domain.IntentType
	CreateConsent(ctx context.Context, req CreateRequest) (domain.Consent, bool, error)
	GetConsent(ctx context.Context, req GetRequest) (domain.Consent, error)
	AuthoriseConsent(ctx context.Context, req AuthoriseRequest) (domain.Consent, error)
	RejectConsent(ctx context.Context, req RejectRequest) (domain.Consent, error)
	ConsumeConsent(ctx context.Context, req ConsumeRequest) (domain.Consent, error)
	DescribeConsent(ctx context.Context, c domain.Consent, userID string, d *domain.ConsentDetails) error
}

// Registry routes work to the handler for an intent type. It is built once at
// start and read-only afterwards.
type Registry struct {
	handlers map[domain.IntentType]ConsentHandler
	enabled  map[domain.IntentType]bool
}

// NewRegistry registers handlers. A nil enabled list enables every registered
// type; otherwise only the listed types are served.
func NewRegistry(enabled []domain.IntentType, handlers ...ConsentHandler) *Registry {
	r := &Registry{
		handlers: make(map[domain.IntentType]ConsentHandler, len(handlers)),
		enabled:  make(map[domain.IntentType]bool),
	}
	for _, h := range handlers {
		r.handlers[h.IntentType()] = h
		if enabled == nil {
			r.enabled[h.IntentType()] = true
		}
	}
	for _, t := range enabled {
		r.enabled[t] = true
	}
	return r
}

// IsIntentTypeSupported is true only when the type is enabled and a handler
// is registered for it.
func (r *Registry) IsIntentTypeSupported(t domain.IntentType) bool {
	_, ok := r.handlers[t]
	return ok && r.enabled[t]
}

// IntentTypes lists the supported types in a stable order.
func (r *Registry) IntentTypes() []domain.IntentType {
	out := make([]domain.IntentType, 0, len(r.handlers))
	for t := range r.handlers {
		if r.IsIntentTypeSupported(t) {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return out
}

func (r *Registry) Handler(t domain.IntentType) (ConsentHandler, error) {
	if !r.IsIntentTypeSupported(t) {
		return nil, ErrUnknownIntentType.with("", "")
	}
	return r.handlers[t], nil
}

// HandlerForIntent resolves the handler from the family prefix of an intent id.
func (r *Registry) HandlerForIntent(intentID string) (ConsentHandler, error) {
	t, ok := domain.IntentTypeFromID(intentID)
	if !ok || !r.IsIntentTypeSupported(t) {
		return nil, ErrUnknownIntentType.with(intentID, "")
	}
	return r.handlers[t], nil
}

func (r *Registry) AuthoriseConsent(ctx context.Context, t domain.IntentType, req AuthoriseRequest) (domain.Consent, error) {
	h, err := r.Handler(t)
	if err != nil {
		return domain.Consent{}, ErrUnknownIntentType.with(req.IntentID, req.APIClientID)
	}
	return h.AuthoriseConsent(ctx, req)
}

func (r *Registry) RejectConsent(ctx context.Context, t domain.IntentType, req RejectRequest) (domain.Consent, error) {
	h, err := r.Handler(t)
	if err != nil {
		return domain.Consent{}, ErrUnknownIntentType.with(req.IntentID, req.APIClientID)
	}
	return h.RejectConsent(ctx, req)
}
