package app

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"github.com/aussiebroadwan/rcs/internal/rcs/service"
)

// SeedFile is the directory snapshot format read from RCS_SEED_FILE.
//
//	users:
//	  - id: psu4test
//	    userName: psu4test
//	apiClients:
//	  - id: client-1
//	    name: Acme TPP
//	accounts:
//	  - accountId: acc-123456
//	    userId: psu4test
//	    schemeName: UK.OBIE.SortCodeAccountNumber
//	    identification: "40400422390112"
//	    balance: {amount: "1000.00", currency: GBP}
type SeedFile struct {
	Users      []domain.User               `yaml:"users"`
	APIClients []domain.APIClient          `yaml:"apiClients"`
	Accounts   []domain.AccountWithBalance `yaml:"accounts"`
}

func ParseSeed(data []byte) (SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return SeedFile{}, fmt.Errorf("parse seed: %w", err)
	}
	for i, a := range seed.Accounts {
		if a.AccountID == "" || a.UserID == "" {
			return SeedFile{}, fmt.Errorf("parse seed: accounts[%d] needs accountId and userId", i)
		}
	}
	return seed, nil
}

// LoadSeed reads path and upserts its contents into the directory.
func LoadSeed(ctx context.Context, dir *service.DirectoryService, path string) (SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SeedFile{}, fmt.Errorf("read seed: %w", err)
	}
	seed, err := ParseSeed(data)
	if err != nil {
		return SeedFile{}, err
	}
	if err := dir.Seed(ctx, seed.Users, seed.APIClients, seed.Accounts); err != nil {
		return SeedFile{}, err
	}
	return seed, nil
}
