// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

// Package factoids keeps the bot's user-defined responses: a mapping from
// factoid name to response text, loaded once and persisted in full after
// every change.
package factoids

import (
	"errors"
	"fmt"
	"sort"

	"github.com/oxygen-irc/oxygen/irc/flock"
	"github.com/oxygen-irc/oxygen/irc/logger"
)

const (
	BackendText   = "text"
	BackendBuntdb = "buntdb"

	DefaultPath = "factoids.txt"
)

var (
	ErrStoreLocked = errors.New("Factoid store is locked (is another oxygen running?)")
)

// Config selects and locates the persistence backend.
type Config struct {
	Backend string
	Path    string
}

// Backend persists the whole mapping at once.
type Backend interface {
	// Load returns the persisted mapping; a backend with nothing stored yet
	// returns an empty mapping and no error.
	Load() (map[string]string, error)
	// Save replaces everything persisted with factoids.
	Save(factoids map[string]string) error
	Close() error
}

// Store is the in-memory factoid mapping. It isn't safe for concurrent use;
// a session owns it exclusively.
type Store struct {
	backend  Backend
	factoids map[string]string
	lock     flock.Flocker
	logger   *logger.Manager
}

// Open locks the configured backing file, opens the backend and loads it.
func Open(config Config, logger *logger.Manager) (store *Store, err error) {
	lock, err := flock.TryAcquireFlock(config.Path + ".lock")
	if err == flock.CouldntAcquire {
		return nil, ErrStoreLocked
	} else if err != nil {
		return nil, fmt.Errorf("Could not lock factoid store: %w", err)
	}
	defer func() {
		if err != nil {
			lock.Unlock()
		}
	}()

	var backend Backend
	switch config.Backend {
	case BackendText, "":
		backend = NewTextBackend(config.Path)
	case BackendBuntdb:
		backend, err = OpenBuntdbBackend(config.Path)
		if err != nil {
			return nil, fmt.Errorf("Could not open factoid database: %w", err)
		}
	default:
		return nil, fmt.Errorf("Unknown factoid backend [%s]", config.Backend)
	}

	store = NewStore(backend, logger)
	store.lock = lock
	return store, nil
}

// NewStore loads backend into a new Store. A load failure is logged and
// leaves the store empty.
func NewStore(backend Backend, logger *logger.Manager) *Store {
	store := &Store{
		backend: backend,
		logger:  logger,
	}
	factoids, err := backend.Load()
	if err != nil {
		logger.Warning("factoids", "Could not load factoids, starting empty", err.Error())
		factoids = nil
	}
	if factoids == nil {
		factoids = make(map[string]string)
	}
	store.factoids = factoids
	logger.Info("factoids", fmt.Sprintf("Loaded %d factoids", len(factoids)))
	return store
}

// Define sets name to text and persists the whole store before returning.
// An error means the new mapping may not have reached storage.
func (store *Store) Define(name, text string) error {
	store.factoids[name] = text
	if err := store.backend.Save(store.factoids); err != nil {
		return fmt.Errorf("Could not save factoids: %w", err)
	}
	store.logger.Debug("factoids", "Defined factoid", name)
	return nil
}

// DefineAll sets every name in factoids and persists the store once.
func (store *Store) DefineAll(factoids map[string]string) error {
	for name, text := range factoids {
		store.factoids[name] = text
	}
	if err := store.backend.Save(store.factoids); err != nil {
		return fmt.Errorf("Could not save factoids: %w", err)
	}
	store.logger.Debug("factoids", fmt.Sprintf("Defined %d factoids", len(factoids)))
	return nil
}

func (store *Store) Get(name string) (text string, ok bool) {
	text, ok = store.factoids[name]
	return
}

// Names returns every factoid name, sorted.
func (store *Store) Names() (names []string) {
	names = make([]string, 0, len(store.factoids))
	for name := range store.factoids {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

func (store *Store) Len() int {
	return len(store.factoids)
}

// Close closes the backend and releases the store lock.
func (store *Store) Close() (err error) {
	err = store.backend.Close()
	if store.lock != nil {
		if unlockErr := store.lock.Unlock(); err == nil {
			err = unlockErr
		}
		store.lock = nil
	}
	return
}
