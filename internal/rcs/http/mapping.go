package http

import (
	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"github.com/aussiebroadwan/rcs/pkg/rcssdk"
)

func toConsentResponse(c domain.Consent) rcssdk.ConsentResponse {
	return rcssdk.ConsentResponse{
		ConsentID:                 c.ID,
		IntentType:                string(c.IntentType),
		Status:                    string(c.Status),
		APIClientID:               c.APIClientID,
		RequestVersion:            c.RequestVersion.String(),
		RequestObj:                c.Request,
		Charges:                   toCharges(c.Charges),
		ExchangeRateInformation:   toExchangeRate(c.ExchangeRateInformation),
		IdempotencyKey:            c.IdempotencyKey,
		IdempotencyKeyExpiration:  c.IdempotencyKeyExpiration,
		ResourceOwnerID:           c.ResourceOwnerID,
		AuthorisedDebtorAccountID: c.AuthorisedDebtorAccountID,
		AuthorisedAccountIDs:      c.AuthorisedAccountIDs,
		CreationDateTime:          c.CreationDateTime,
		StatusUpdateDateTime:      c.StatusUpdateDateTime,
	}
}

func toDetailsResponse(d domain.ConsentDetails) rcssdk.ConsentDetailsResponse {
	out := rcssdk.ConsentDetailsResponse{
		ConsentID:                  d.ConsentID,
		IntentType:                 string(d.IntentType),
		Status:                     string(d.Status),
		UserID:                     d.UserID,
		Username:                   d.Username,
		ClientName:                 d.ClientName,
		LogoURI:                    d.LogoURI,
		ServiceProviderName:        d.ServiceProviderName,
		Permissions:                d.Permissions,
		ExpirationDateTime:         d.ExpirationDateTime,
		TransactionFromDateTime:    d.TransactionFromDateTime,
		TransactionToDateTime:      d.TransactionToDateTime,
		InstructedAmount:           toAmount(d.InstructedAmount),
		Charges:                    toCharges(d.Charges),
		TotalCharges:               toAmount(d.TotalCharges),
		ExchangeRateInformation:    toExchangeRate(d.ExchangeRateInformation),
		CurrencyOfTransfer:         d.CurrencyOfTransfer,
		PaymentReference:           d.PaymentReference,
		RequestedExecutionDateTime: d.RequestedExecutionDateTime,
	}

	if so := d.StandingOrder; so != nil {
		out.StandingOrder = &rcssdk.StandingOrder{
			Frequency:              so.Frequency,
			Reference:              so.Reference,
			NumberOfPayments:       so.NumberOfPayments,
			FirstPaymentDateTime:   so.FirstPaymentDateTime,
			FinalPaymentDateTime:   so.FinalPaymentDateTime,
			FirstPaymentAmount:     toAmount(so.FirstPaymentAmount),
			RecurringPaymentAmount: toAmount(so.RecurringPaymentAmount),
			FinalPaymentAmount:     toAmount(so.FinalPaymentAmount),
		}
	}
	if f := d.File; f != nil {
		out.File = &rcssdk.FileDetails{
			FileType:             f.FileType,
			FileReference:        f.FileReference,
			NumberOfTransactions: f.NumberOfTransactions,
			ControlSum:           f.ControlSum,
		}
	}
	if cp := d.ControlParameters; cp != nil {
		out.ControlParameters = &rcssdk.ControlParameters{
			VRPType:                 cp.VRPType,
			ValidFromDateTime:       cp.ValidFromDateTime,
			ValidToDateTime:         cp.ValidToDateTime,
			MaximumIndividualAmount: toAmount(cp.MaximumIndividualAmount),
		}
		for _, l := range cp.PeriodicLimits {
			out.ControlParameters.PeriodicLimits = append(out.ControlParameters.PeriodicLimits, rcssdk.PeriodicLimit(l))
		}
	}

	if d.DebtorAccount != nil {
		a := toAccount(*d.DebtorAccount)
		out.DebtorAccount = &a
	}
	for _, a := range d.Accounts {
		out.Accounts = append(out.Accounts, toAccount(a))
	}
	return out
}

func toAccount(a domain.AccountWithBalance) rcssdk.Account {
	return rcssdk.Account{
		AccountID:      a.AccountID,
		SchemeName:     a.SchemeName,
		Identification: a.Identification,
		Name:           a.Name,
		Balance:        rcssdk.Amount(a.Balance),
	}
}

func toAmount(a *domain.Amount) *rcssdk.Amount {
	if a == nil {
		return nil
	}
	out := rcssdk.Amount(*a)
	return &out
}

func toCharges(in []domain.Charge) []rcssdk.Charge {
	if len(in) == 0 {
		return nil
	}
	out := make([]rcssdk.Charge, len(in))
	for i, c := range in {
		out[i] = rcssdk.Charge{ChargeBearer: c.ChargeBearer, Type: c.Type, Amount: rcssdk.Amount(c.Amount)}
	}
	return out
}

func fromCharges(in []rcssdk.Charge) []domain.Charge {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Charge, len(in))
	for i, c := range in {
		out[i] = domain.Charge{ChargeBearer: c.ChargeBearer, Type: c.Type, Amount: domain.Amount(c.Amount)}
	}
	return out
}

func toExchangeRate(fx *domain.ExchangeRateInformation) *rcssdk.ExchangeRateInformation {
	if fx == nil {
		return nil
	}
	out := rcssdk.ExchangeRateInformation(*fx)
	return &out
}

func fromExchangeRate(fx *rcssdk.ExchangeRateInformation) *domain.ExchangeRateInformation {
	if fx == nil {
		return nil
	}
	out := domain.ExchangeRateInformation(*fx)
	return &out
}
