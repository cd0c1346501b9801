package domain

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// IntentType identifies a consent family. The intent id of every consent
// starts with the family prefix so the type can be recovered from the id alone.
type IntentType string

const (
	IntentAccountAccess                 IntentType = "ACCOUNT_ACCESS_CONSENT"
	IntentDomesticPayment               IntentType = "PAYMENT_DOMESTIC_CONSENT"
	IntentDomesticScheduledPayment      IntentType = "PAYMENT_DOMESTIC_SCHEDULED_CONSENT"
	IntentDomesticStandingOrder         IntentType = "PAYMENT_DOMESTIC_STANDING_ORDERS_CONSENT"
	IntentInternationalPayment          IntentType = "PAYMENT_INTERNATIONAL_CONSENT"
	IntentInternationalScheduledPayment IntentType = "PAYMENT_INTERNATIONAL_SCHEDULED_CONSENT"
	IntentInternationalStandingOrder    IntentType = "PAYMENT_INTERNATIONAL_STANDING_ORDERS_CONSENT"
	IntentFilePayment                   IntentType = "PAYMENT_FILE_CONSENT"
	IntentDomesticVRP                   IntentType = "DOMESTIC_VRP_PAYMENT_CONSENT"
	IntentFundsConfirmation             IntentType = "FUNDS_CONFIRMATION_CONSENT"
)

type intentInfo struct {
	prefix   string
	resource string
}

var intents = map[IntentType]intentInfo{
	IntentAccountAccess:                 {"AAC_", "account-access-consents"},
	IntentDomesticPayment:               {"PDC_", "domestic-payment-consents"},
	IntentDomesticScheduledPayment:      {"PDSC_", "domestic-scheduled-payment-consents"},
	IntentDomesticStandingOrder:         {"PDSOC_", "domestic-standing-order-consents"},
	IntentInternationalPayment:          {"PIC_", "international-payment-consents"},
	IntentInternationalScheduledPayment: {"PISC_", "international-scheduled-payment-consents"},
	IntentInternationalStandingOrder:    {"PISOC_", "international-standing-order-consents"},
	IntentFilePayment:                   {"PFC_", "file-payment-consents"},
	IntentDomesticVRP:                   {"DVRP_", "domestic-vrp-consents"},
	IntentFundsConfirmation:             {"FCC_", "funds-confirmation-consents"},
}

// IntentTypes returns every known intent type.
func IntentTypes() []IntentType {
	out := make([]IntentType, 0, len(intents))
	for t := range intents {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

func (t IntentType) String() string { return string(t) }

// Valid reports whether t is a known intent type.
func (t IntentType) Valid() bool {
	_, ok := intents[t]
	return ok
}

// Prefix is the intent id prefix for this family, e.g. "PDC_".
func (t IntentType) Prefix() string { return intents[t].prefix }

// Resource is the URL resource name used by the consent endpoints.
func (t IntentType) Resource() string { return intents[t].resource }

// NewIntentID mints a fresh intent id for this family.
func (t IntentType) NewIntentID() string {
	return t.Prefix() + uuid.NewString()
}

// IntentTypeFromID resolves the family of an intent id from its prefix.
func IntentTypeFromID(intentID string) (IntentType, bool) {
	for t, info := range intents {
		if strings.HasPrefix(intentID, info.prefix) {
			return t, true
		}
	}
	return "", false
}

// IntentTypeFromResource resolves a family from its URL resource name.
func IntentTypeFromResource(resource string) (IntentType, bool) {
	for t, info := range intents {
		if info.resource == resource {
			return t, true
		}
	}
	return "", false
}

// ParseIntentType accepts the canonical intent type name.
func ParseIntentType(s string) (IntentType, bool) {
	t := IntentType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.Valid()
}

// IsPayment reports whether the family authorises against a single debtor account.
func (t IntentType) IsPayment() bool {
	switch t {
	case IntentAccountAccess, IntentFundsConfirmation:
		return false
	}
	return t.Valid()
}

// IsInternational reports whether the family carries exchange rate information.
func (t IntentType) IsInternational() bool {
	switch t {
	case IntentInternationalPayment, IntentInternationalScheduledPayment, IntentInternationalStandingOrder:
		return true
	}
	return false
}
