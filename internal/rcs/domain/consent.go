package domain

import (
	"encoding/json"
	"time"
)

// Consent is the stored record shared by every consent family. The family
// specific payload lives in Request as canonical (compacted) JSON.
type Consent struct {
	ID             string
	IntentType     IntentType
	APIClientID    string
	RequestVersion Version
	Status         Status

	Request                 json.RawMessage
	Charges                 []Charge
	ExchangeRateInformation *ExchangeRateInformation

	IdempotencyKey           string
	IdempotencyKeyExpiration time.Time

	// Set once, by the authorise or reject transition.
	ResourceOwnerID           string
	AuthorisedDebtorAccountID string
	AuthorisedAccountIDs      []string

	CreationDateTime     time.Time
	StatusUpdateDateTime time.Time
}

// IdempotencyClaim is the secondary index entry that points a live
// (intent type, api client, idempotency key) triple at the consent it created.
// Families keep separate key spaces.
type IdempotencyClaim struct {
	IntentType     IntentType
	APIClientID    string
	IdempotencyKey string
	ConsentID      string
	ExpiresAt      time.Time
	CreatedAt      time.Time
}

// Live reports whether the claim still deduplicates creation at now.
func (c IdempotencyClaim) Live(now time.Time) bool {
	return now.Before(c.ExpiresAt)
}

type Charge struct {
	ChargeBearer string `json:"ChargeBearer" yaml:"chargeBearer"`
	Type         string `json:"Type" yaml:"type"`
	Amount       Amount `json:"Amount" yaml:"amount"`
}

type ExchangeRateInformation struct {
	UnitCurrency           string `json:"UnitCurrency"`
	ExchangeRate           string `json:"ExchangeRate"`
	RateType               string `json:"RateType"`
	ContractIdentification string `json:"ContractIdentification,omitempty"`
	ExpirationDateTime     string `json:"ExpirationDateTime,omitempty"`
}
