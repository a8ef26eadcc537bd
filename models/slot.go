package models

import "time"

// GeneralGroup is the professional bucket used when the sheet has no
// professional column.
const GeneralGroup = "General"

// Slot represents a single bookable (professional, date, time) offering.
// Date and time are display strings taken verbatim from the sheet; the
// triple (professional, date, time) identifies a slot across re-syncs even
// though ID is regenerated on every load.
type Slot struct {
	ID           string     `json:"id"`
	Professional string     `json:"professional"`
	Date         string     `json:"date"`
	Time         string     `json:"time"`
	Available    bool       `json:"available"`
	BookedBy     string     `json:"bookedBy,omitempty"`
	BookedAt     *time.Time `json:"bookedAt,omitempty"`
}

// Key returns the reconciliation key of the slot.
func (s Slot) Key() string {
	return SlotKey(s.Professional, s.Date, s.Time)
}

// SlotKey builds the reconciliation key for a (professional, date, time)
// triple. An empty professional falls back to the general group.
func SlotKey(professional, date, time string) string {
	if professional == "" {
		professional = GeneralGroup
	}
	return professional + "|" + date + "|" + time
}

// SlotInput is one parsed row from a sheet sync or admin upload, consumed
// by the slot store's Reconcile.
type SlotInput struct {
	Professional string `json:"professional,omitempty"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}

// SlotStatus summarizes the current state of the slot store.
type SlotStatus struct {
	TotalSlots     int        `json:"totalSlots"`
	AvailableSlots int        `json:"availableSlots"`
	BookedSlots    int        `json:"bookedSlots"`
	Professionals  []string   `json:"professionals"`
	LastLoadedBy   string     `json:"lastLoadedBy,omitempty"`
	LastLoadedAt   *time.Time `json:"lastLoadedAt,omitempty"`
	HasData        bool       `json:"hasData"`
}
