package domain

// ConsentDetails is the read-only view rendered by the approval UI.
type ConsentDetails struct {
	ConsentID           string
	IntentType          IntentType
	Status              Status
	UserID              string
	Username            string
	ClientName          string
	LogoURI             string
	ServiceProviderName string

	// Account access.
	Permissions             []string
	ExpirationDateTime      string
	TransactionFromDateTime string
	TransactionToDateTime   string

	// Payments.
	InstructedAmount           *Amount
	Charges                    []Charge
	TotalCharges               *Amount
	ExchangeRateInformation    *ExchangeRateInformation
	CurrencyOfTransfer         string
	PaymentReference           string
	RequestedExecutionDateTime string
	StandingOrder              *StandingOrderDetails
	ControlParameters          *ControlParameters
	File                       *FileDetails

	// DebtorAccount is set when the request named one; otherwise Accounts
	// lists every account the PSU can choose from.
	DebtorAccount *AccountWithBalance
	Accounts      []AccountWithBalance
}

type StandingOrderDetails struct {
	Frequency              string
	Reference              string
	NumberOfPayments       string
	FirstPaymentDateTime   string
	FinalPaymentDateTime   string
	FirstPaymentAmount     *Amount
	RecurringPaymentAmount *Amount
	FinalPaymentAmount     *Amount
}

type FileDetails struct {
	FileType             string
	FileReference        string
	NumberOfTransactions string
	ControlSum           string
}
