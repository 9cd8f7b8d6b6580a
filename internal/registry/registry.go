// Package registry owns the set of monitored targets. All structural
// mutation and all per-monitor state updates go through its lock, so viewer
// commands never race the scheduler's sweep.
package registry

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"netwatch/internal/models"
)

// MainID and CustomID identify the two permanent monitors seeded at startup.
const (
	MainID   = "main"
	CustomID = "custom"
)

var (
	// ErrInvalidTarget is returned when an add or retarget address is empty.
	ErrInvalidTarget = errors.New("invalid target address")
	// ErrCapacityExceeded is returned when the extra-monitor limit is reached.
	ErrCapacityExceeded = errors.New("extra monitor capacity exceeded")
	// ErrNotFound is returned when the monitor id is unknown.
	ErrNotFound = errors.New("monitor not found")
	// ErrForbidden is returned for operations not permitted on the monitor's kind.
	ErrForbidden = errors.New("operation not permitted for this monitor")
)

// Registry is an insertion-ordered, lock-guarded collection of monitors.
type Registry struct {
	mu        sync.Mutex
	byID      map[string]*models.Monitor
	order     []string
	maxExtras int
}

// New seeds a registry with the permanent main and custom monitors.
func New(mainTarget, mainLabel, customTarget, customLabel string, maxExtras int) *Registry {
	r := &Registry{
		byID:      make(map[string]*models.Monitor),
		maxExtras: maxExtras,
	}
	r.insertLocked(&models.Monitor{
		ID:              MainID,
		Target:          mainTarget,
		Label:           mainLabel,
		Kind:            models.KindMain,
		ConfirmedStatus: models.StatusUnknown,
	})
	r.insertLocked(&models.Monitor{
		ID:              CustomID,
		Target:          customTarget,
		Label:           customLabel,
		Kind:            models.KindCustom,
		ConfirmedStatus: models.StatusUnknown,
	})
	return r
}

// List returns a copy of all monitors in insertion order.
func (r *Registry) List() []models.Monitor {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Monitor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out
}

// Add registers a new extra monitor for the given address.
func (r *Registry) Add(address, label string) (models.Monitor, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return models.Monitor{}, ErrInvalidTarget
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.countExtrasLocked() >= r.maxExtras {
		return models.Monitor{}, ErrCapacityExceeded
	}

	m := &models.Monitor{
		ID:              uuid.NewString(),
		Target:          address,
		Label:           strings.TrimSpace(label),
		Kind:            models.KindExtra,
		ConfirmedStatus: models.StatusUnknown,
	}
	r.insertLocked(m)
	return *m, nil
}

// Remove deletes an extra monitor and returns its final record.
func (r *Registry) Remove(id string) (models.Monitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok {
		return models.Monitor{}, ErrNotFound
	}
	if m.Kind != models.KindExtra {
		return models.Monitor{}, ErrForbidden
	}

	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return *m, nil
}

// Retarget points the custom monitor at a new address and resets its health
// state to unknown. Only the custom monitor may be retargeted.
func (r *Registry) Retarget(id, address string) (models.Monitor, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return models.Monitor{}, ErrInvalidTarget
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok {
		return models.Monitor{}, ErrNotFound
	}
	if m.Kind != models.KindCustom {
		return models.Monitor{}, ErrForbidden
	}

	m.Target = address
	m.ConfirmedStatus = models.StatusUnknown
	m.ConsecutiveFailures = 0
	m.ConsecutiveSuccesses = 0
	return *m, nil
}

// Apply runs fn against the identified monitor under the registry lock and
// returns the updated copy. It reports false when the monitor has been
// removed since the caller snapshotted it.
func (r *Registry) Apply(id string, fn func(*models.Monitor)) (models.Monitor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok {
		return models.Monitor{}, false
	}
	fn(m)
	return *m, true
}

func (r *Registry) insertLocked(m *models.Monitor) {
	r.byID[m.ID] = m
	r.order = append(r.order, m.ID)
}

func (r *Registry) countExtrasLocked() int {
	count := 0
	for _, m := range r.byID {
		if m.Kind == models.KindExtra {
			count++
		}
	}
	return count
}

// ParseAddSpec splits viewer input of the form "address - label" into its
// parts. Both sides are trimmed and the label is optional. Only the first
// " - " counts as a separator so hostnames containing bare hyphens survive.
func ParseAddSpec(raw string) (address, label string) {
	raw = strings.TrimSpace(raw)
	if before, after, found := strings.Cut(raw, " - "); found {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	return raw, ""
}
