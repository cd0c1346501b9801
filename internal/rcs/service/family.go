package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
)

// Selection is the scope a PSU picked when authorising a consent: one debtor
// account for payments, a list of accounts for account access.
type Selection struct {
	DebtorAccountID string
	AccountIDs      []string
}

// Family holds what differs between consent families. The lifecycle itself is
// shared and lives in ConsentService.
type Family interface {
	IntentType() domain.IntentType

	// ValidateRequest checks the family payload at creation time.
	ValidateRequest(raw json.RawMessage) error

	// ValidateDecision checks that the decision carries the data the family
	// authorises with.
	ValidateDecision(c domain.Consent, sel Selection) error

	// ResolveSelection checks the selection belongs to the resource owner and
	// returns it in the form that gets stored.
	ResolveSelection(ctx context.Context, accounts AccountLookup, c domain.Consent, resourceOwnerID string, sel Selection) (Selection, error)

	// Describe fills the family specific part of the details view.
	Describe(ctx context.Context, accounts AccountLookup, c domain.Consent, userID string, d *domain.ConsentDetails) error
}

// AccountAccessFamily authorises against a list of the PSU's accounts.
type AccountAccessFamily struct{}

func (AccountAccessFamily) IntentType() domain.IntentType { return domain.IntentAccountAccess }

func (AccountAccessFamily) decode(raw json.RawMessage) (domain.AccountAccessConsentRequest, error) {
	var req domain.AccountAccessConsentRequest
	err := json.Unmarshal(raw, &req)
	return req, err
}

func (f AccountAccessFamily) ValidateRequest(raw json.RawMessage) error {
	req, err := f.decode(raw)
	if err != nil {
		return validationError("Data", "malformed account access consent: %v", err)
	}
	if len(req.Data.Permissions) == 0 {
		return validationError("Data.Permissions", "must not be empty")
	}
	return nil
}

func (AccountAccessFamily) ValidateDecision(c domain.Consent, sel Selection) error {
	if len(sel.AccountIDs) == 0 {
		return ErrInvalidConsentDecision.with(c.ID, c.APIClientID)
	}
	return nil
}

func (AccountAccessFamily) ResolveSelection(
	ctx context.Context,
	accounts AccountLookup,
	c domain.Consent,
	resourceOwnerID string,
	sel Selection,
) (Selection, error) {
	owned, err := accounts.GetAccountsWithBalance(ctx, resourceOwnerID)
	if err != nil {
		return Selection{}, err
	}

	ids := make([]string, 0, len(sel.AccountIDs))
	for _, id := range sel.AccountIDs {
		if !slices.ContainsFunc(owned, func(a domain.AccountWithBalance) bool { return a.AccountID == id }) {
			return Selection{}, ErrInvalidAccountSelection.with(c.ID, c.APIClientID)
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return Selection{AccountIDs: ids}, nil
}

func (f AccountAccessFamily) Describe(
	ctx context.Context,
	accounts AccountLookup,
	c domain.Consent,
	userID string,
	d *domain.ConsentDetails,
) error {
	req, err := f.decode(c.Request)
	if err != nil {
		return fmt.Errorf("decode stored request: %w", err)
	}

	d.Permissions = req.Data.Permissions
	d.ExpirationDateTime = req.Data.ExpirationDateTime
	d.TransactionFromDateTime = req.Data.TransactionFromDateTime
	d.TransactionToDateTime = req.Data.TransactionToDateTime

	d.Accounts, err = accounts.GetAccountsWithBalance(ctx, userID)
	return err
}

// PaymentFamily is the payment lifecycle shared by the domestic,
// international, scheduled, standing order, file and VRP consents. They all
// authorise against a single debtor account.
type PaymentFamily struct {
	Type domain.IntentType
}

func (f PaymentFamily) IntentType() domain.IntentType { return f.Type }

func (PaymentFamily) decode(raw json.RawMessage) (domain.PaymentConsentRequest, error) {
	var req domain.PaymentConsentRequest
	err := json.Unmarshal(raw, &req)
	return req, err
}

func (f PaymentFamily) ValidateRequest(raw json.RawMessage) error {
	req, err := f.decode(raw)
	if err != nil {
		return validationError("Data", "malformed payment consent: %v", err)
	}
	in := req.Data.Initiation

	switch f.Type {
	case domain.IntentDomesticVRP:
		if req.Data.ControlParameters == nil || !req.Data.ControlParameters.MaximumIndividualAmount.Present() {
			return validationError("Data.ControlParameters.MaximumIndividualAmount", "amount and currency are required")
		}
	case domain.IntentDomesticStandingOrder:
		if !in.FirstPaymentAmount.Present() {
			return validationError("Data.Initiation.FirstPaymentAmount", "amount and currency are required")
		}
		if in.Frequency == "" {
			return validationError("Data.Initiation.Frequency", "is required")
		}
	case domain.IntentFilePayment:
		if in.FileType == "" {
			return validationError("Data.Initiation.FileType", "is required")
		}
		if in.FileHash == "" {
			return validationError("Data.Initiation.FileHash", "is required")
		}
		if in.ControlSum == "" {
			return validationError("Data.Initiation.ControlSum", "is required")
		}
	default:
		if !in.InstructedAmount.Present() {
			return validationError("Data.Initiation.InstructedAmount", "amount and currency are required")
		}
	}

	switch f.Type {
	case domain.IntentDomesticScheduledPayment, domain.IntentInternationalScheduledPayment:
		if in.RequestedExecutionDateTime == "" {
			return validationError("Data.Initiation.RequestedExecutionDateTime", "is required")
		}
	case domain.IntentInternationalStandingOrder:
		if in.Frequency == "" {
			return validationError("Data.Initiation.Frequency", "is required")
		}
	}

	if f.Type.IsInternational() && in.CurrencyOfTransfer == "" {
		return validationError("Data.Initiation.CurrencyOfTransfer", "is required")
	}

	if in.DebtorAccount != nil && (in.DebtorAccount.Identification == "" || in.DebtorAccount.SchemeName == "") {
		return validationError("Data.Initiation.DebtorAccount", "identification and scheme name are required")
	}
	return nil
}

func (PaymentFamily) ValidateDecision(c domain.Consent, sel Selection) error {
	if sel.DebtorAccountID == "" {
		return ErrInvalidConsentDecision.with(c.ID, c.APIClientID)
	}
	return nil
}

func (f PaymentFamily) ResolveSelection(
	ctx context.Context,
	accounts AccountLookup,
	c domain.Consent,
	resourceOwnerID string,
	sel Selection,
) (Selection, error) {
	owned, err := accounts.GetAccountsWithBalance(ctx, resourceOwnerID)
	if err != nil {
		return Selection{}, err
	}

	i := slices.IndexFunc(owned, func(a domain.AccountWithBalance) bool { return a.AccountID == sel.DebtorAccountID })
	if i < 0 {
		return Selection{}, ErrInvalidDebtorAccount.with(c.ID, c.APIClientID)
	}

	// A debtor account named by the TPP pins the selection.
	req, err := f.decode(c.Request)
	if err != nil {
		return Selection{}, fmt.Errorf("decode stored request: %w", err)
	}
	if da := req.Data.Initiation.DebtorAccount; da != nil {
		if owned[i].Identification != da.Identification || owned[i].SchemeName != da.SchemeName {
			return Selection{}, ErrInvalidDebtorAccount.with(c.ID, c.APIClientID)
		}
	}

	return Selection{DebtorAccountID: sel.DebtorAccountID}, nil
}

func (f PaymentFamily) Describe(
	ctx context.Context,
	accounts AccountLookup,
	c domain.Consent,
	userID string,
	d *domain.ConsentDetails,
) error {
	req, err := f.decode(c.Request)
	if err != nil {
		return fmt.Errorf("decode stored request: %w", err)
	}
	in := req.Data.Initiation

	d.InstructedAmount = in.InstructedAmount
	d.CurrencyOfTransfer = in.CurrencyOfTransfer
	d.RequestedExecutionDateTime = in.RequestedExecutionDateTime
	d.PaymentReference = in.Reference
	if in.RemittanceInformation != nil && in.RemittanceInformation.Reference != "" {
		d.PaymentReference = in.RemittanceInformation.Reference
	}

	d.Charges = c.Charges
	d.TotalCharges, err = domain.TotalCharges(c.Charges)
	if err != nil {
		return err
	}
	if f.Type.IsInternational() {
		d.ExchangeRateInformation = c.ExchangeRateInformation
	}

	switch f.Type {
	case domain.IntentDomesticStandingOrder, domain.IntentInternationalStandingOrder:
		d.StandingOrder = &domain.StandingOrderDetails{
			Frequency:              in.Frequency,
			Reference:              in.Reference,
			NumberOfPayments:       in.NumberOfPayments,
			FirstPaymentDateTime:   in.FirstPaymentDateTime,
			FinalPaymentDateTime:   in.FinalPaymentDateTime,
			FirstPaymentAmount:     in.FirstPaymentAmount,
			RecurringPaymentAmount: in.RecurringPaymentAmount,
			FinalPaymentAmount:     in.FinalPaymentAmount,
		}
	case domain.IntentFilePayment:
		d.File = &domain.FileDetails{
			FileType:             in.FileType,
			FileReference:        in.FileReference,
			NumberOfTransactions: in.NumberOfTransactions,
			ControlSum:           in.ControlSum,
		}
	case domain.IntentDomesticVRP:
		d.ControlParameters = req.Data.ControlParameters
	}

	if da := in.DebtorAccount; da != nil {
		a, err := accounts.GetAccountWithBalanceByIdentifiers(ctx, userID, da.Identification, da.SchemeName)
		if errors.Is(err, ErrAccountNotFound) {
			return ErrInvalidDebtorAccount.with(c.ID, c.APIClientID)
		}
		if err != nil {
			return err
		}
		d.DebtorAccount = &a
		return nil
	}

	d.Accounts, err = accounts.GetAccountsWithBalance(ctx, userID)
	return err
}

// Families returns every family with a handler. Funds confirmation has an
// intent prefix but no lifecycle here.
func Families() []Family {
	return []Family{
		AccountAccessFamily{},
		PaymentFamily{Type: domain.IntentDomesticPayment},
		PaymentFamily{Type: domain.IntentDomesticScheduledPayment},
		PaymentFamily{Type: domain.IntentDomesticStandingOrder},
		PaymentFamily{Type: domain.IntentInternationalPayment},
		PaymentFamily{Type: domain.IntentInternationalScheduledPayment},
		PaymentFamily{Type: domain.IntentInternationalStandingOrder},
		PaymentFamily{Type: domain.IntentFilePayment},
		PaymentFamily{Type: domain.IntentDomesticVRP},
	}
}
