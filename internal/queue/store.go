// Package queue persists pending transfer batches to disk. The store is the
// single source of truth for what has not yet been confirmed by the remote
// system: a batch is written before the first remote action is attempted, and
// a request is removed only after the remote system has acknowledged it. On
// restart, Load reconstructs exactly the outstanding work.
package queue

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bgwire/bgwire/internal/fsutil"
	"github.com/bgwire/bgwire/internal/transaction"
)

// FileName is the queue document inside the configuration directory.
const FileName = "transactions.yaml"

// ErrCorrupt marks a queue file that exists but cannot be parsed. Callers
// must treat this as fatal: proceeding with an assumed-empty queue risks
// submitting the same transfer twice.
var ErrCorrupt = errors.New("transaction queue file is corrupt")

// Key addresses one live batch: a command (e.g. "transfer:leva") crossed with
// an account class.
type Key struct {
	Command      string
	AccountClass transaction.AccountClass
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Command, k.AccountClass)
}

// document is the on-disk layout: command name -> account class -> ordered
// requests.
type document map[string]map[string][]transaction.Request

// Store is a durable, keyed collection of pending batches backed by a single
// YAML document. Every mutation rewrites the document atomically.
type Store struct {
	path string
}

// Open returns a store backed by the queue document in dir. The file is not
// required to exist yet.
func Open(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName)}
}

// Path returns the location of the backing document.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted batch for key, or an empty batch when none has
// been stored. An unreadable or unparsable file is surfaced, never treated as
// empty.
func (s *Store) Load(key Key) ([]transaction.Request, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return doc[key.Command][string(key.AccountClass)], nil
}

// Save overwrites the persisted batch for key. An empty batch clears the key.
func (s *Store) Save(key Key, batch []transaction.Request) error {
	doc, err := s.read()
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		delete(doc[key.Command], string(key.AccountClass))
		if len(doc[key.Command]) == 0 {
			delete(doc, key.Command)
		}
	} else {
		if doc[key.Command] == nil {
			doc[key.Command] = make(map[string][]transaction.Request)
		}
		doc[key.Command][string(key.AccountClass)] = batch
	}
	return s.write(doc)
}

// Remove deletes the first request equal to tx from the batch for key and
// persists the result. Removing a request that is not present is a no-op, so
// a removal repeated under retry stays safe.
func (s *Store) Remove(key Key, tx transaction.Request) error {
	doc, err := s.read()
	if err != nil {
		return err
	}
	batch := doc[key.Command][string(key.AccountClass)]
	for i, stored := range batch {
		if stored.Equal(tx) {
			batch = append(batch[:i:i], batch[i+1:]...)
			return s.Save(key, batch)
		}
	}
	return nil
}

func (s *Store) read() (document, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading transaction queue %s: %w", s.path, err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrCorrupt, s.path, err)
	}
	if doc == nil {
		doc = document{}
	}
	return doc, nil
}

func (s *Store) write(doc document) error {
	var data []byte
	if len(doc) > 0 {
		var err error
		data, err = yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshaling transaction queue: %w", err)
		}
	}
	if err := fsutil.WriteFileAtomic(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing transaction queue: %w", err)
	}
	return nil
}
