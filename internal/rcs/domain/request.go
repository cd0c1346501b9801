package domain

import "encoding/json"

// The request views below decode just the parts of the Open Banking consent
// payloads this service reasons about. Unknown fields are preserved in the
// stored raw request.

type Amount struct {
	Amount   string `json:"Amount" yaml:"amount"`
	Currency string `json:"Currency" yaml:"currency"`
}

func (a *Amount) Present() bool {
	return a != nil && a.Amount != "" && a.Currency != ""
}

type AccountIdentifier struct {
	SchemeName              string `json:"SchemeName"`
	Identification          string `json:"Identification"`
	Name                    string `json:"Name,omitempty"`
	SecondaryIdentification string `json:"SecondaryIdentification,omitempty"`
}

type RemittanceInformation struct {
	Unstructured string `json:"Unstructured,omitempty"`
	Reference    string `json:"Reference,omitempty"`
}

// PaymentInitiation is the union of the initiation shapes across payment
// families. Each family only reads the fields it defines.
type PaymentInitiation struct {
	InstructionIdentification string                 `json:"InstructionIdentification,omitempty"`
	EndToEndIdentification    string                 `json:"EndToEndIdentification,omitempty"`
	LocalInstrument           string                 `json:"LocalInstrument,omitempty"`
	InstructedAmount          *Amount                `json:"InstructedAmount,omitempty"`
	CurrencyOfTransfer        string                 `json:"CurrencyOfTransfer,omitempty"`
	DebtorAccount             *AccountIdentifier     `json:"DebtorAccount,omitempty"`
	CreditorAccount           *AccountIdentifier     `json:"CreditorAccount,omitempty"`
	RemittanceInformation     *RemittanceInformation `json:"RemittanceInformation,omitempty"`

	RequestedExecutionDateTime string `json:"RequestedExecutionDateTime,omitempty"`

	Frequency              string  `json:"Frequency,omitempty"`
	Reference              string  `json:"Reference,omitempty"`
	NumberOfPayments       string  `json:"NumberOfPayments,omitempty"`
	FirstPaymentDateTime   string  `json:"FirstPaymentDateTime,omitempty"`
	FinalPaymentDateTime   string  `json:"FinalPaymentDateTime,omitempty"`
	FirstPaymentAmount     *Amount `json:"FirstPaymentAmount,omitempty"`
	RecurringPaymentAmount *Amount `json:"RecurringPaymentAmount,omitempty"`
	FinalPaymentAmount     *Amount `json:"FinalPaymentAmount,omitempty"`

	FileType             string `json:"FileType,omitempty"`
	FileHash             string `json:"FileHash,omitempty"`
	FileReference        string `json:"FileReference,omitempty"`
	NumberOfTransactions string `json:"NumberOfTransactions,omitempty"`
	ControlSum           string `json:"ControlSum,omitempty"`
}

type PeriodicLimit struct {
	PeriodType      string `json:"PeriodType"`
	PeriodAlignment string `json:"PeriodAlignment"`
	Amount          string `json:"Amount"`
	Currency        string `json:"Currency"`
}

// ControlParameters bound a domestic VRP consent.
type ControlParameters struct {
	VRPType                 []string        `json:"VRPType,omitempty"`
	ValidFromDateTime       string          `json:"ValidFromDateTime,omitempty"`
	ValidToDateTime         string          `json:"ValidToDateTime,omitempty"`
	MaximumIndividualAmount *Amount         `json:"MaximumIndividualAmount,omitempty"`
	PeriodicLimits          []PeriodicLimit `json:"PeriodicLimits,omitempty"`
}

type PaymentConsentRequest struct {
	Data struct {
		Initiation        PaymentInitiation  `json:"Initiation"`
		ControlParameters *ControlParameters `json:"ControlParameters,omitempty"`
		Permission        string             `json:"Permission,omitempty"`
		ReadRefundAccount string             `json:"ReadRefundAccount,omitempty"`
	} `json:"Data"`
	Risk json.RawMessage `json:"Risk,omitempty"`
}

type AccountAccessConsentRequest struct {
	Data struct {
		Permissions             []string `json:"Permissions"`
		ExpirationDateTime      string   `json:"ExpirationDateTime,omitempty"`
		TransactionFromDateTime string   `json:"TransactionFromDateTime,omitempty"`
		TransactionToDateTime   string   `json:"TransactionToDateTime,omitempty"`
	} `json:"Data"`
	Risk json.RawMessage `json:"Risk,omitempty"`
}
