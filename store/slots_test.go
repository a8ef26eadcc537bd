package store

import (
	"sync"
	"testing"

	"theeyouspace/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSlots(t *testing.T, s *SlotStore, inputs ...models.SlotInput) []models.Slot {
	t.Helper()
	s.Reconcile(inputs, "test")
	return s.ListAll()
}

func TestReconcileAndListAvailable(t *testing.T) {
	s := NewSlotStore()

	count := s.Reconcile([]models.SlotInput{
		{Professional: "Dr. Priya", Date: "Monday, Mar 3", Time: "10:00 AM"},
		{Professional: "Dr. Arjun", Date: "Tuesday, Mar 4", Time: "11:00 AM"},
		{Date: "Tuesday, Mar 4", Time: "2:00 PM"},
	}, "upload:test.csv")

	require.Equal(t, 3, count)
	available := s.ListAvailable()
	require.Len(t, available, 3)

	// Missing professional falls into the general group.
	_, found := s.FindByKey(models.GeneralGroup, "Tuesday, Mar 4", "2:00 PM")
	assert.True(t, found)

	status := s.StatusSummary()
	assert.Equal(t, 3, status.TotalSlots)
	assert.Equal(t, 3, status.AvailableSlots)
	assert.Equal(t, 0, status.BookedSlots)
	assert.Equal(t, []string{"Dr. Arjun", "Dr. Priya", "General"}, status.Professionals)
	assert.Equal(t, "upload:test.csv", status.LastLoadedBy)
	assert.NotNil(t, status.LastLoadedAt)
	assert.True(t, status.HasData)
}

func TestReserveOnlyOnce(t *testing.T) {
	s := NewSlotStore()
	slots := seedSlots(t, s, models.SlotInput{Professional: "Dr. Priya", Date: "Monday, Mar 3", Time: "10:00 AM"})

	require.True(t, s.Reserve(slots[0].ID, "TYS-000001"))
	assert.False(t, s.Reserve(slots[0].ID, "TYS-000002"), "second reserve must lose")

	got, found := s.FindByKey("Dr. Priya", "Monday, Mar 3", "10:00 AM")
	require.True(t, found)
	assert.False(t, got.Available)
	assert.Equal(t, "TYS-000001", got.BookedBy)
	assert.NotNil(t, got.BookedAt)
}

func TestReserveNonexistentSlot(t *testing.T) {
	s := NewSlotStore()
	seedSlots(t, s, models.SlotInput{Date: "Monday, Mar 3", Time: "10:00 AM"})

	assert.False(t, s.Reserve("no-such-id", "TYS-000001"))
	assert.Equal(t, 1, s.StatusSummary().AvailableSlots)
}

func TestConcurrentReserveSingleWinner(t *testing.T) {
	s := NewSlotStore()
	slots := seedSlots(t, s, models.SlotInput{Professional: "Dr. Priya", Date: "Monday, Mar 3", Time: "10:00 AM"})
	slotID := slots[0].ID

	const attempts = 50
	var wg sync.WaitGroup
	wins := make(chan string, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if s.Reserve(slotID, "booking") {
				wins <- "win"
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var winners int
	for range wins {
		winners++
	}
	assert.Equal(t, 1, winners, "exactly one concurrent reserve must win")
}

func TestReleaseRestoresSlot(t *testing.T) {
	s := NewSlotStore()
	slots := seedSlots(t, s, models.SlotInput{Professional: "Dr. Priya", Date: "Monday, Mar 3", Time: "10:00 AM"})
	slotID := slots[0].ID

	require.True(t, s.Reserve(slotID, "TYS-000001"))
	require.True(t, s.Release(slotID))

	got, found := s.FindByKey("Dr. Priya", "Monday, Mar 3", "10:00 AM")
	require.True(t, found)
	assert.True(t, got.Available)
	assert.Empty(t, got.BookedBy)
	assert.Nil(t, got.BookedAt)

	// Releasing an already-available slot is a no-op.
	assert.False(t, s.Release(slotID))
	assert.False(t, s.Release("no-such-id"))
}

func TestReconcilePreservesBookedSlots(t *testing.T) {
	s := NewSlotStore()
	slots := seedSlots(t, s,
		models.SlotInput{Professional: "Dr. Priya", Date: "Monday, Mar 3", Time: "10:00 AM"},
		models.SlotInput{Professional: "Dr. Priya", Date: "Monday, Mar 3", Time: "2:00 PM"},
	)
	require.True(t, s.Reserve(slots[0].ID, "TYS-000001"))

	// Re-sync delivers the same slots again plus a new one.
	s.Reconcile([]models.SlotInput{
		{Professional: "Dr. Priya", Date: "Monday, Mar 3", Time: "10:00 AM"},
		{Professional: "Dr. Priya", Date: "Monday, Mar 3", Time: "2:00 PM"},
		{Professional: "Dr. Arjun", Date: "Tuesday, Mar 4", Time: "11:00 AM"},
	}, "google-sheet-sync")

	booked, found := s.FindByKey("Dr. Priya", "Monday, Mar 3", "10:00 AM")
	require.True(t, found)
	assert.False(t, booked.Available, "booked status must survive reconciliation")
	assert.Equal(t, "preserved", booked.BookedBy)

	free, found := s.FindByKey("Dr. Priya", "Monday, Mar 3", "2:00 PM")
	require.True(t, found)
	assert.True(t, free.Available)

	status := s.StatusSummary()
	assert.Equal(t, 3, status.TotalSlots)
	assert.Equal(t, 1, status.BookedSlots)
}

func TestReconcileWithEmptySetClears(t *testing.T) {
	s := NewSlotStore()
	seedSlots(t, s, models.SlotInput{Date: "Monday, Mar 3", Time: "10:00 AM"})

	count := s.Reconcile(nil, "admin-clear")
	assert.Equal(t, 0, count)
	assert.False(t, s.StatusSummary().HasData)
}

func TestGroupByProfessional(t *testing.T) {
	s := NewSlotStore()
	slots := seedSlots(t, s,
		models.SlotInput{Professional: "Dr. Priya", Date: "Monday, Mar 3", Time: "10:00 AM"},
		models.SlotInput{Professional: "Dr. Priya", Date: "Monday, Mar 3", Time: "2:00 PM"},
		models.SlotInput{Professional: "Dr. Arjun", Date: "Tuesday, Mar 4", Time: "11:00 AM"},
	)
	require.True(t, s.Reserve(slots[2].ID, "TYS-000001"))

	grouped := s.GroupByProfessional()
	assert.Len(t, grouped["Dr. Priya"], 2)
	assert.NotContains(t, grouped, "Dr. Arjun", "booked slots are excluded from grouping")
}

func TestFindByKeyWithoutProfessional(t *testing.T) {
	s := NewSlotStore()
	seedSlots(t, s,
		models.SlotInput{Professional: "Dr. Priya", Date: "Monday, Mar 3", Time: "10:00 AM"},
		models.SlotInput{Professional: "Dr. Arjun", Date: "Monday, Mar 3", Time: "10:00 AM"},
	)

	// Without a professional the lookup is ambiguous: first match wins.
	got, found := s.FindByKey("", "Monday, Mar 3", "10:00 AM")
	require.True(t, found)
	assert.Equal(t, "Dr. Priya", got.Professional)

	got, found = s.FindByKey("Dr. Arjun", "Monday, Mar 3", "10:00 AM")
	require.True(t, found)
	assert.Equal(t, "Dr. Arjun", got.Professional)
}

func TestSeedDevSlots(t *testing.T) {
	s := NewSlotStore()
	s.SeedDevSlots()

	status := s.StatusSummary()
	assert.True(t, status.HasData)
	assert.Equal(t, "dev-seed", status.LastLoadedBy)
	assert.Len(t, status.Professionals, 4)

	// Seeding again must not reload.
	before := status.TotalSlots
	s.SeedDevSlots()
	assert.Equal(t, before, s.StatusSummary().TotalSlots)
}
