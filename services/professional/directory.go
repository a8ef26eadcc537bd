package professional

import (
	"sort"
	"strings"
	"sync"
	"time"

	"theeyouspace/models"
	"theeyouspace/utils"
)

const fallbackTitle = "Counselling Psychologist"

// Directory is the in-memory professionals cache, rebuilt wholesale on
// every sheet sync that carries bio columns. The sheet is the single source
// of truth: nothing is hardcoded here, and lookups for unknown names get a
// safe fallback instead of an error so the frontend never breaks on a slot
// without a bio row.
type Directory struct {
	mu         sync.RWMutex
	byName     map[string]models.Professional // key: lowercased name
	lastSyncAt *time.Time
}

func NewDirectory() *Directory {
	return &Directory{byName: make(map[string]models.Professional)}
}

// Replace swaps in a freshly parsed set of professionals. Duplicate names
// have already been collapsed by the parser (last-seen row wins).
func (d *Directory) Replace(professionals []models.Professional) {
	next := make(map[string]models.Professional, len(professionals))
	for _, p := range professionals {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		if p.Title == "" {
			p.Title = fallbackTitle
		}
		if p.Specializations == nil {
			p.Specializations = []string{}
		}
		if p.Areas == nil {
			p.Areas = []string{}
		}
		p.Name = name
		next[strings.ToLower(name)] = p
	}

	d.mu.Lock()
	d.byName = next
	now := time.Now()
	d.lastSyncAt = &now
	d.mu.Unlock()

	utils.GetLogger().Sugar().Infof("Professionals cache updated — %d professional(s) loaded from sheet", len(next))
}

// GetAll returns every cached professional sorted A-Z by name.
func (d *Directory) GetAll() []models.Professional {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]models.Professional, 0, len(d.byName))
	for _, p := range d.byName {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get looks up one professional case-insensitively, returning a safe
// fallback for unknown names.
func (d *Directory) Get(name string) models.Professional {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback("Unknown")
	}

	d.mu.RLock()
	p, ok := d.byName[strings.ToLower(name)]
	d.mu.RUnlock()
	if !ok {
		return fallback(name)
	}
	return p
}

// IsLoaded reports whether the cache has been populated at least once.
func (d *Directory) IsLoaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byName) > 0
}

// LastSyncAt returns the timestamp of the last successful cache rebuild.
func (d *Directory) LastSyncAt() *time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastSyncAt
}

func fallback(name string) models.Professional {
	return models.Professional{
		Name:            name,
		Title:           fallbackTitle,
		Specializations: []string{},
		Areas:           []string{},
		Fallback:        true,
	}
}
