package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/carcassonne-engine/game/ruleset"
	"github.com/wricardo/carcassonne-engine/game/service"
)

var (
	ErrRulesetNotFound = errors.New("ruleset not found")
	ErrInvalidRuleset  = errors.New("invalid ruleset")
)

const extension = ".yaml"

// Manager handles ruleset loading and caching
type Manager struct {
	dir            string
	defaultRuleset *ruleset.Ruleset
	rulesets       map[string]*ruleset.Ruleset
	mu             sync.RWMutex
}

// NewManager creates a new ruleset manager over dir
func NewManager(dir string) (*Manager, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("ruleset directory does not exist: %s", dir)
	}

	m := &Manager{
		dir:      dir,
		rulesets: make(map[string]*ruleset.Ruleset),
	}

	if err := m.loadDefaultRuleset(); err != nil {
		return nil, fmt.Errorf("failed to load default ruleset: %w", err)
	}

	return m, nil
}

// LoadRuleset loads a ruleset by name, with or without the .yaml extension
func (m *Manager) LoadRuleset(name string) (*ruleset.Ruleset, error) {
	name = strings.TrimSuffix(name, extension)

	m.mu.RLock()
	if r, exists := m.rulesets[name]; exists {
		m.mu.RUnlock()
		return r, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if r, exists := m.rulesets[name]; exists {
		return r, nil
	}

	data, err := os.ReadFile(filepath.Join(m.dir, name+extension))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRulesetNotFound
		}
		return nil, fmt.Errorf("failed to read ruleset file: %w", err)
	}

	r, err := ruleset.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRuleset, name, err)
	}

	m.rulesets[name] = r
	return r, nil
}

// ListRulesets returns information about every valid ruleset in the directory
func (m *Manager) ListRulesets() ([]*service.RulesetInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read ruleset directory: %w", err)
	}

	var infos []*service.RulesetInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), extension) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), extension)
		r, err := m.LoadRuleset(name)
		if err != nil {
			// Skip invalid rulesets
			continue
		}

		infos = append(infos, &service.RulesetInfo{
			Filename:    entry.Name(),
			RulesetID:   name,
			Name:        r.Name,
			Description: r.Description,
			MinPlayers:  r.MinPlayers,
			MaxPlayers:  r.MaxPlayers,
			DeckSize:    r.DeckSize(),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].RulesetID < infos[j].RulesetID })
	return infos, nil
}

// GetDefault returns the default ruleset
func (m *Manager) GetDefault() *ruleset.Ruleset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultRuleset
}

// SetDefault sets the default ruleset by name
func (m *Manager) SetDefault(name string) error {
	r, err := m.LoadRuleset(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultRuleset = r
	return nil
}

// RefreshCache drops every cached ruleset and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.rulesets = make(map[string]*ruleset.Ruleset)
	m.mu.Unlock()

	return m.loadDefaultRuleset()
}

// loadDefaultRuleset prefers classic.yaml, then the first valid file, then
// the built-in classic ruleset
func (m *Manager) loadDefaultRuleset() error {
	r, err := m.LoadRuleset("classic")
	if err != nil {
		infos, listErr := m.ListRulesets()
		if listErr != nil || len(infos) == 0 {
			r = ruleset.Classic()
		} else if r, err = m.LoadRuleset(infos[0].RulesetID); err != nil {
			r = ruleset.Classic()
		}
	}

	m.mu.Lock()
	m.defaultRuleset = r
	m.mu.Unlock()
	return nil
}

// SaveRuleset validates and writes a ruleset to disk
func (m *Manager) SaveRuleset(name string, r *ruleset.Ruleset) error {
	if err := ruleset.Validate(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRuleset, err)
	}
	name = strings.TrimSuffix(name, extension)

	data, err := ruleset.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal ruleset: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.dir, name+extension), data, 0644); err != nil {
		return fmt.Errorf("failed to write ruleset file: %w", err)
	}

	m.mu.Lock()
	m.rulesets[name] = r
	m.mu.Unlock()

	return nil
}

var _ service.RulesetManager = (*Manager)(nil)
