package rcssdk

import (
	"encoding/json"
	"time"

	"github.com/aussiebroadwan/rcs/pkg/jwtx"
)

type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	ConsentID string `json:"consentId,omitempty"`
	Field     string `json:"field,omitempty"`
}

type Amount struct {
	Amount   string `json:"Amount"`
	Currency string `json:"Currency"`
}

type Charge struct {
	ChargeBearer string `json:"ChargeBearer"`
	Type         string `json:"Type"`
	Amount       Amount `json:"Amount"`
}

type ExchangeRateInformation struct {
	UnitCurrency           string `json:"UnitCurrency"`
	ExchangeRate           string `json:"ExchangeRate"`
	RateType               string `json:"RateType"`
	ContractIdentification string `json:"ContractIdentification,omitempty"`
	ExpirationDateTime     string `json:"ExpirationDateTime,omitempty"`
}

// CreateConsentRequest is the body of a consent creation. RequestObj is the
// Open Banking consent request as sent by the TPP; charges and exchange rate
// information are supplied by the ASPSP.
type CreateConsentRequest struct {
	RequestObj              json.RawMessage          `json:"requestObj"`
	Charges                 []Charge                 `json:"charges,omitempty"`
	ExchangeRateInformation *ExchangeRateInformation `json:"exchangeRateInformation,omitempty"`
}

type ConsentResponse struct {
	ConsentID      string          `json:"consentId"`
	IntentType     string          `json:"intentType"`
	Status         string          `json:"status"`
	APIClientID    string          `json:"apiClientId"`
	RequestVersion string          `json:"requestVersion"`
	RequestObj     json.RawMessage `json:"requestObj"`

	Charges                 []Charge                 `json:"charges,omitempty"`
	ExchangeRateInformation *ExchangeRateInformation `json:"exchangeRateInformation,omitempty"`

	IdempotencyKey           string    `json:"idempotencyKey"`
	IdempotencyKeyExpiration time.Time `json:"idempotencyKeyExpiration"`

	ResourceOwnerID           string   `json:"resourceOwnerId,omitempty"`
	AuthorisedDebtorAccountID string   `json:"authorisedDebtorAccountId,omitempty"`
	AuthorisedAccountIDs      []string `json:"authorisedAccountIds,omitempty"`

	CreationDateTime     time.Time `json:"creationDateTime"`
	StatusUpdateDateTime time.Time `json:"statusUpdateDateTime"`
}

type DetailsRequest struct {
	IntentID string `json:"intentId"`
	UserID   string `json:"userId"`
}

type Account struct {
	AccountID      string `json:"accountId"`
	SchemeName     string `json:"schemeName"`
	Identification string `json:"identification"`
	Name           string `json:"name,omitempty"`
	Balance        Amount `json:"balance"`
}

type StandingOrder struct {
	Frequency              string  `json:"frequency"`
	Reference              string  `json:"reference,omitempty"`
	NumberOfPayments       string  `json:"numberOfPayments,omitempty"`
	FirstPaymentDateTime   string  `json:"firstPaymentDateTime,omitempty"`
	FinalPaymentDateTime   string  `json:"finalPaymentDateTime,omitempty"`
	FirstPaymentAmount     *Amount `json:"firstPaymentAmount,omitempty"`
	RecurringPaymentAmount *Amount `json:"recurringPaymentAmount,omitempty"`
	FinalPaymentAmount     *Amount `json:"finalPaymentAmount,omitempty"`
}

type FileDetails struct {
	FileType             string `json:"fileType"`
	FileReference        string `json:"fileReference,omitempty"`
	NumberOfTransactions string `json:"numberOfTransactions,omitempty"`
	ControlSum           string `json:"controlSum"`
}

type PeriodicLimit struct {
	PeriodType      string `json:"periodType"`
	PeriodAlignment string `json:"periodAlignment"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
}

type ControlParameters struct {
	VRPType                 []string        `json:"vrpType,omitempty"`
	ValidFromDateTime       string          `json:"validFromDateTime,omitempty"`
	ValidToDateTime         string          `json:"validToDateTime,omitempty"`
	MaximumIndividualAmount *Amount         `json:"maximumIndividualAmount,omitempty"`
	PeriodicLimits          []PeriodicLimit `json:"periodicLimits,omitempty"`
}

// ConsentDetailsResponse is what the approval UI shows the PSU. Only the
// fields of the consent's family are populated.
type ConsentDetailsResponse struct {
	ConsentID           string `json:"consentId"`
	IntentType          string `json:"intentType"`
	Status              string `json:"status"`
	UserID              string `json:"userId"`
	Username            string `json:"username"`
	ClientName          string `json:"clientName"`
	LogoURI             string `json:"logoUri,omitempty"`
	ServiceProviderName string `json:"serviceProviderName"`

	Permissions             []string `json:"permissions,omitempty"`
	ExpirationDateTime      string   `json:"expirationDateTime,omitempty"`
	TransactionFromDateTime string   `json:"transactionFromDateTime,omitempty"`
	TransactionToDateTime   string   `json:"transactionToDateTime,omitempty"`

	InstructedAmount           *Amount                  `json:"instructedAmount,omitempty"`
	Charges                    []Charge                 `json:"charges,omitempty"`
	TotalCharges               *Amount                  `json:"totalCharges,omitempty"`
	ExchangeRateInformation    *ExchangeRateInformation `json:"exchangeRateInformation,omitempty"`
	CurrencyOfTransfer         string                   `json:"currencyOfTransfer,omitempty"`
	PaymentReference           string                   `json:"paymentReference,omitempty"`
	RequestedExecutionDateTime string                   `json:"requestedExecutionDateTime,omitempty"`
	StandingOrder              *StandingOrder           `json:"standingOrder,omitempty"`
	ControlParameters          *ControlParameters       `json:"controlParameters,omitempty"`
	File                       *FileDetails             `json:"file,omitempty"`

	DebtorAccount *Account  `json:"debtorAccount,omitempty"`
	Accounts      []Account `json:"accounts,omitempty"`
}

const (
	DecisionAuthorised = "Authorised"
	DecisionRejected   = "Rejected"
)

type DecisionRequest struct {
	IntentID        string   `json:"intentId"`
	ResourceOwnerID string   `json:"resourceOwnerId"`
	Decision        string   `json:"decision"`
	DebtorAccountID string   `json:"debtorAccountId,omitempty"`
	AccountIDs      []string `json:"accountIds,omitempty"`
}

// DecisionResponse carries the outcome and the signed decision the
// authorisation server relays.
type DecisionResponse struct {
	ConsentID  string `json:"consentId"`
	Status     string `json:"status"`
	ConsentJWT string `json:"consentJwt"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// JWKSResponse is the public key set decisions are signed with.
type JWKSResponse = jwtx.JWKS
