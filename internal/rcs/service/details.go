package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
)

// DetailsService assembles the read-only view the approval UI renders before
// the PSU decides.
type DetailsService struct {
	Registry            *Registry
	Users               UserLookup
	APIClients          APIClientLookup
	ServiceProviderName string
}

type DetailsRequest struct {
	IntentID    string
	APIClientID string
	UserID      string
}

func (s *DetailsService) GetConsentDetails(ctx context.Context, req DetailsRequest) (domain.ConsentDetails, error) {
	h, err := s.Registry.HandlerForIntent(req.IntentID)
	if err != nil {
		return domain.ConsentDetails{}, err
	}

	c, err := h.GetConsent(ctx, GetRequest{IntentID: req.IntentID, APIClientID: req.APIClientID})
	if err != nil {
		return domain.ConsentDetails{}, err
	}
	if !CanTransitionToAuthorisedState(c) {
		return domain.ConsentDetails{}, ErrReauthenticationNotSupported.with(c.ID, req.APIClientID)
	}

	user, err := s.Users.GetUser(ctx, req.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return domain.ConsentDetails{}, notFound(c, err)
	}
	if err != nil {
		return domain.ConsentDetails{}, fmt.Errorf("get user: %w", err)
	}

	client, err := s.APIClients.GetAPIClient(ctx, c.APIClientID)
	if errors.Is(err, ErrAPIClientNotFound) {
		return domain.ConsentDetails{}, notFound(c, err)
	}
	if err != nil {
		return domain.ConsentDetails{}, fmt.Errorf("get api client: %w", err)
	}

	d := domain.ConsentDetails{
		ConsentID:           c.ID,
		IntentType:          c.IntentType,
		Status:              c.Status,
		UserID:              user.ID,
		Username:            user.UserName,
		ClientName:          client.Name,
		LogoURI:             client.LogoURI,
		ServiceProviderName: s.ServiceProviderName,
	}
	if err := h.DescribeConsent(ctx, c, user.ID, &d); err != nil {
		return domain.ConsentDetails{}, err
	}
	return d, nil
}

func notFound(c domain.Consent, err error) *ConsentError {
	e := ErrNotFound.with(c.ID, c.APIClientID).wrap(err)
	e.Message = err.Error()
	return e
}
