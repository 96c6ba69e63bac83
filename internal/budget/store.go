// Package budget owns the one mutable piece of dashboard state: the
// per-product monthly budgets. Everything else is recomputed per query.
package budget

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Defaults are the documented fallback budgets, used whenever the
// configuration file is missing or unreadable so pacing never fails.
var Defaults = map[string]float64{
	"Term Life":        65000,
	"Dental Network":   28000,
	"Disability":       22000,
	"Annuities":        30000,
	"Join Our Network": 12000,
}

type budgetFile struct {
	Products map[string]float64 `yaml:"products"`
}

// Store persists budgets to a yaml file and notifies subscribers on
// change. Budgets() re-reads the file on every call: calculators must
// never cache budget values across requests.
type Store struct {
	mu   sync.Mutex
	path string
	log  *zap.Logger
	subs []chan struct{}
}

func NewStore(path string, log *zap.Logger) *Store {
	return &Store{path: path, log: log}
}

// Budgets returns the current per-product budgets, falling back to
// Defaults when the file cannot be read or parsed.
func (s *Store) Budgets() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("budget file unreadable, using defaults", zap.String("path", s.path), zap.Error(err))
		}
		return copyBudgets(Defaults)
	}
	var f budgetFile
	if err := yaml.Unmarshal(b, &f); err != nil || len(f.Products) == 0 {
		s.log.Warn("budget file malformed, using defaults", zap.String("path", s.path), zap.Error(err))
		return copyBudgets(Defaults)
	}
	return copyBudgets(f.Products)
}

// Save replaces the budget configuration and notifies subscribers.
func (s *Store) Save(budgets map[string]float64) error {
	s.mu.Lock()
	b, err := yaml.Marshal(budgetFile{Products: budgets})
	if err == nil {
		err = os.WriteFile(s.path, b, 0o644)
	}
	subs := append([]chan struct{}(nil), s.subs...)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default: // subscriber not draining, skip rather than block
		}
	}
	return nil
}

// Subscribe returns a channel that receives a signal after every
// successful Save. Consumers re-trigger aggregation on it.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func copyBudgets(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
