package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/bgwire/bgwire/internal/fsutil"
	"github.com/bgwire/bgwire/internal/transaction"
)

const recipientsFileName = "recipients.yaml"

// Nationality filters the address book by where the recipient banks.
type Nationality int

const (
	AnyNationality Nationality = iota
	DomesticOnly
	ForeignOnly
)

// AddressBook is the operator's saved recipients, kept sorted by alias.
type AddressBook struct {
	Recipients []transaction.Recipient `yaml:"recipients"`
}

// LoadRecipients reads the address book from dir; a missing file is an empty
// book.
func LoadRecipients(dir string) (*AddressBook, error) {
	path := filepath.Join(dir, recipientsFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &AddressBook{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var book AddressBook
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &book, nil
}

// SaveRecipients atomically rewrites the address book in dir.
func SaveRecipients(dir string, book *AddressBook) error {
	data, err := yaml.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshaling recipients: %w", err)
	}
	path := filepath.Join(dir, recipientsFileName)
	if err := fsutil.WriteFileAtomic(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Add appends a recipient, keeping aliases unique and the book sorted.
func (b *AddressBook) Add(r transaction.Recipient) error {
	if b.HasAlias(r.Alias) {
		return fmt.Errorf("a recipient with alias %q already exists", r.Alias)
	}
	b.Recipients = append(b.Recipients, r)
	sort.Slice(b.Recipients, func(i, j int) bool {
		return b.Recipients[i].Alias < b.Recipients[j].Alias
	})
	return nil
}

// HasAlias reports whether the alias is taken.
func (b *AddressBook) HasAlias(alias string) bool {
	for _, r := range b.Recipients {
		if r.Alias == alias {
			return true
		}
	}
	return false
}

// Filter returns the recipients banking in the requested region.
func (b *AddressBook) Filter(nat Nationality) []transaction.Recipient {
	if nat == AnyNationality {
		return b.Recipients
	}
	var out []transaction.Recipient
	for _, r := range b.Recipients {
		if (nat == DomesticOnly) == r.Domestic() {
			out = append(out, r)
		}
	}
	return out
}
