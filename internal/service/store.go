package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mizutanigrandee/vacancy-dashboard/internal/demand"
	"github.com/mizutanigrandee/vacancy-dashboard/internal/sources"
)

var ErrUnknownMode = errors.New("unknown mode")

// Mode is one pricing market: the documents it is drawn from and the demand
// ladder applied to it.
type Mode struct {
	Name       string
	Files      sources.Files
	Classifier *demand.Classifier
}

// Loader is satisfied by *sources.Loader.
type Loader interface {
	Load(ctx context.Context, files sources.Files) (sources.Bundle, error)
}

type cacheEntry struct {
	value     sources.Bundle
	expiresAt time.Time
}

// Store keeps the decoded documents of every mode for cacheTTL. Only raw
// documents are cached; views are rebuilt on every request.
type Store struct {
	loader      Loader
	modes       map[string]Mode
	defaultMode string
	cache       map[string]cacheEntry
	mu          sync.RWMutex
	cacheTTL    time.Duration
	now         func() time.Time
}

func NewStore(loader Loader, modes []Mode, defaultMode string, ttl time.Duration) *Store {
	s := &Store{
		loader:      loader,
		modes:       make(map[string]Mode, len(modes)),
		defaultMode: defaultMode,
		cache:       make(map[string]cacheEntry),
		cacheTTL:    ttl,
		now:         time.Now,
	}
	for _, m := range modes {
		if m.Classifier == nil {
			m.Classifier = demand.Default()
		}
		s.modes[m.Name] = m
	}
	return s
}

// Modes lists the configured mode names in sorted order.
func (s *Store) Modes() []string {
	names := make([]string, 0, len(s.modes))
	for n := range s.modes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Mode resolves a mode name; the empty name selects the default mode.
func (s *Store) Mode(name string) (Mode, error) {
	if name == "" {
		name = s.defaultMode
	}
	m, ok := s.modes[name]
	if !ok {
		return Mode{}, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	return m, nil
}

// Bundle returns the documents of a mode, loading them when the cached copy
// is missing or expired. A bundle with degraded documents is served but not
// cached, so the next read tries the source again.
func (s *Store) Bundle(ctx context.Context, name string) (Mode, sources.Bundle, error) {
	m, err := s.Mode(name)
	if err != nil {
		return Mode{}, sources.Bundle{}, err
	}

	s.mu.RLock()
	if ce, ok := s.cache[m.Name]; ok && s.now().Before(ce.expiresAt) {
		s.mu.RUnlock()
		return m, ce.value, nil
	}
	s.mu.RUnlock()

	b, err := s.loader.Load(ctx, m.Files)
	if err != nil {
		return Mode{}, sources.Bundle{}, fmt.Errorf("load %s: %w", m.Name, err)
	}

	if len(b.Degraded) > 0 {
		return m, b, nil
	}

	s.mu.Lock()
	s.cache[m.Name] = cacheEntry{value: b, expiresAt: s.now().Add(s.cacheTTL)}
	s.mu.Unlock()

	return m, b, nil
}

// Reload drops the cached documents of a mode so the next read fetches them
// again.
func (s *Store) Reload(name string) error {
	m, err := s.Mode(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.cache, m.Name)
	s.mu.Unlock()
	return nil
}
