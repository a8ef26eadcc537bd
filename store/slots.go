package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"theeyouspace/models"
	"theeyouspace/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SlotStore is the single source of truth for what times are bookable right
// now. All state is volatile; the sheet sync is the only recovery mechanism
// after a restart.
//
// Every mutation is one critical section with no I/O inside it, so Reserve
// and Release are atomic. The availability-check-then-reserve flow spanning
// two calls is NOT atomic: two customers can both pass the check and only
// one Reserve will win. Callers must treat a false Reserve as the
// authoritative outcome.
type SlotStore struct {
	mu           sync.Mutex
	slots        []*models.Slot
	lastLoadedBy string
	lastLoadedAt *time.Time
}

func NewSlotStore() *SlotStore {
	return &SlotStore{}
}

// ListAvailable returns the slots currently open for booking.
func (s *SlotStore) ListAvailable() []models.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Slot, 0, len(s.slots))
	for _, slot := range s.slots {
		if slot.Available {
			out = append(out, *slot)
		}
	}
	return out
}

// ListAll returns every slot, including booked ones.
func (s *SlotStore) ListAll() []models.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Slot, len(s.slots))
	for i, slot := range s.slots {
		out[i] = *slot
	}
	return out
}

// FindByKey returns the first slot matching date and time, disambiguated by
// professional when one is given. With multiple professionals sharing a
// date/time and no professional argument, the first match wins; callers
// that care about groups must pass the professional.
func (s *SlotStore) FindByKey(professional, date, timeStr string) (models.Slot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.findLocked(professional, date, timeStr)
	if slot == nil {
		return models.Slot{}, false
	}
	return *slot, true
}

func (s *SlotStore) findLocked(professional, date, timeStr string) *models.Slot {
	for _, slot := range s.slots {
		if slot.Date != date || slot.Time != timeStr {
			continue
		}
		if professional != "" && slot.Professional != professional {
			continue
		}
		return slot
	}
	return nil
}

// Reserve marks the slot booked and stamps bookedBy/bookedAt. It returns
// false, without mutating anything, when the slot does not exist or is
// already booked; callers must check the result.
func (s *SlotStore) Reserve(slotID, bookingRef string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slot := range s.slots {
		if slot.ID != slotID {
			continue
		}
		if !slot.Available {
			return false
		}
		now := time.Now()
		slot.Available = false
		slot.BookedBy = bookingRef
		slot.BookedAt = &now
		return true
	}
	return false
}

// ReserveByKey resolves a slot by value and reserves it in the same
// critical section.
func (s *SlotStore) ReserveByKey(professional, date, timeStr, bookingRef string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.findLocked(professional, date, timeStr)
	if slot == nil || !slot.Available {
		return false
	}
	now := time.Now()
	slot.Available = false
	slot.BookedBy = bookingRef
	slot.BookedAt = &now
	return true
}

// Release reverts a slot to available, clearing bookedBy/bookedAt. Used to
// compensate a failed downstream step. No-op returning false when the slot
// does not exist.
func (s *SlotStore) Release(slotID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slot := range s.slots {
		if slot.ID != slotID {
			continue
		}
		if slot.Available {
			return false
		}
		slot.Available = true
		slot.BookedBy = ""
		slot.BookedAt = nil
		return true
	}
	return false
}

// Reconcile replaces the slot collection wholesale with a freshly parsed
// set, preserving booked status for any new slot whose (professional, date,
// time) key matches a previously booked slot. This is the only way to
// bulk-load state: dev seed, admin upload, sheet sync, or admin clear with
// an empty set. Returns the new slot count.
func (s *SlotStore) Reconcile(inputs []models.SlotInput, sourceLabel string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookedKeys := make(map[string]bool)
	for _, slot := range s.slots {
		if !slot.Available {
			bookedKeys[slot.Key()] = true
		}
	}

	next := make([]*models.Slot, 0, len(inputs))
	for _, in := range inputs {
		professional := in.Professional
		if professional == "" {
			professional = models.GeneralGroup
		}
		wasBooked := bookedKeys[models.SlotKey(professional, in.Date, in.Time)]
		slot := &models.Slot{
			ID:           fmt.Sprintf("slot-%s", uuid.New().String()),
			Professional: professional,
			Date:         in.Date,
			Time:         in.Time,
			Available:    !wasBooked,
		}
		if wasBooked {
			slot.BookedBy = "preserved"
		}
		next = append(next, slot)
	}

	s.slots = next
	s.lastLoadedBy = sourceLabel
	now := time.Now()
	s.lastLoadedAt = &now

	utils.GetLogger().Info("Slots reconciled",
		zap.Int("count", len(next)),
		zap.String("source", sourceLabel),
	)
	return len(next)
}

// StatusSummary reports total/available/booked counts, the distinct
// professional names, and the last reconciliation metadata.
func (s *SlotStore) StatusSummary() models.SlotStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := models.SlotStatus{
		TotalSlots:   len(s.slots),
		LastLoadedBy: s.lastLoadedBy,
		LastLoadedAt: s.lastLoadedAt,
		HasData:      len(s.slots) > 0,
	}
	seen := make(map[string]bool)
	for _, slot := range s.slots {
		if slot.Available {
			status.AvailableSlots++
		} else {
			status.BookedSlots++
		}
		if !seen[slot.Professional] {
			seen[slot.Professional] = true
			status.Professionals = append(status.Professionals, slot.Professional)
		}
	}
	sort.Strings(status.Professionals)
	return status
}

// GroupByProfessional partitions the available slots into a map keyed by
// professional display name.
func (s *SlotStore) GroupByProfessional() map[string][]models.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	grouped := make(map[string][]models.Slot)
	for _, slot := range s.slots {
		if !slot.Available {
			continue
		}
		pro := slot.Professional
		if pro == "" {
			pro = models.GeneralGroup
		}
		grouped[pro] = append(grouped[pro], *slot)
	}
	return grouped
}

// SeedDevSlots loads a handful of demo slots for the next five days,
// skipping Sundays. Only used when no sheet is configured and the store is
// empty.
func (s *SlotStore) SeedDevSlots() {
	if s.StatusSummary().HasData {
		return
	}

	professionals := []string{"Dr. Priya", "Dr. Arjun", "Dr. Meera", "Dr. Rohan"}
	times := []string{"10:00 AM", "12:00 PM", "2:00 PM", "4:00 PM", "6:00 PM"}
	today := time.Now()

	var inputs []models.SlotInput
	for pIdx, professional := range professionals {
		for i := 1; i <= 5; i++ {
			date := today.AddDate(0, 0, i)
			if date.Weekday() == time.Sunday {
				continue
			}
			dateStr := date.Format("Monday, Jan 2")

			// Each professional gets 3 staggered time slots per day.
			myTimes := times[pIdx%2 : pIdx%2+3]
			for _, t := range myTimes {
				inputs = append(inputs, models.SlotInput{
					Professional: professional,
					Date:         dateStr,
					Time:         t,
				})
			}
		}
	}

	count := s.Reconcile(inputs, "dev-seed")
	utils.GetLogger().Sugar().Infof("Seeded %d dev slots across %d professionals (no sheet configured)", count, len(professionals))
}
