package domain

// User is a PSU known to the bank.
type User struct {
	ID       string `yaml:"id"`
	UserName string `yaml:"userName"`
}

// APIClient is a registered TPP.
type APIClient struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	LogoURI string `yaml:"logoUri"`
}

// AccountWithBalance is a PSU account and its current balance.
type AccountWithBalance struct {
	AccountID      string `yaml:"accountId"`
	UserID         string `yaml:"userId"`
	SchemeName     string `yaml:"schemeName"`
	Identification string `yaml:"identification"`
	Name           string `yaml:"name"`
	Balance        Amount `yaml:"balance"`
}
