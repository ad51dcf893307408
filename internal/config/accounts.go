package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bgwire/bgwire/internal/fsutil"
	"github.com/bgwire/bgwire/internal/transaction"
)

const accountsFileName = "accounts.yaml"

// Accounts maps each account class to the operator's registered source
// accounts, named the way the remote chooser displays them ("1234567890 BGN").
type Accounts map[transaction.AccountClass][]string

// LoadAccounts reads the accounts document from dir; a missing file is an
// empty set.
func LoadAccounts(dir string) (Accounts, error) {
	path := filepath.Join(dir, accountsFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Accounts{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var accounts Accounts
	if err := yaml.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if accounts == nil {
		accounts = Accounts{}
	}
	return accounts, nil
}

// SaveAccounts atomically rewrites the accounts document in dir.
func SaveAccounts(dir string, accounts Accounts) error {
	data, err := yaml.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("marshaling accounts: %w", err)
	}
	path := filepath.Join(dir, accountsFileName)
	if err := fsutil.WriteFileAtomic(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Pick returns the account to use for the given class. With a single
// registered account there is nothing to ask; multiple accounts require the
// caller to disambiguate.
func (a Accounts) Pick(class transaction.AccountClass) (string, error) {
	accounts := a[class]
	switch len(accounts) {
	case 0:
		return "", fmt.Errorf("no %s accounts registered; add one with 'bgwire account add'", class)
	case 1:
		return accounts[0], nil
	}
	return "", fmt.Errorf("multiple %s accounts registered; support for choosing between them is not implemented yet", class)
}
