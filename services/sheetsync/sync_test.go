package sheetsync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"theeyouspace/services/professional"
	"theeyouspace/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodCSV = "Professional,Date,Time\n" +
	"Dr. Priya,\"Monday, Mar 3\",10:00 AM\n" +
	"Dr. Arjun,\"Tuesday, Mar 4\",11:00 AM\n"

func newTestSyncer(url string) (*Syncer, *store.SlotStore, *professional.Directory) {
	s := store.NewSlotStore()
	d := professional.NewDirectory()
	return NewSyncer(s, d, url, time.Minute, 5*time.Second), s, d
}

func TestSyncOnceSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Write([]byte(goodCSV))
	}))
	defer srv.Close()

	syncer, slots, _ := newTestSyncer(srv.URL)
	result, err := syncer.SyncOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)

	status := slots.StatusSummary()
	assert.Equal(t, 2, status.TotalSlots)
	assert.Equal(t, "google-sheet-sync", status.LastLoadedBy)
}

func TestSyncOnceServerErrorLeavesStoreUntouched(t *testing.T) {
	var failing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(goodCSV))
	}))
	defer srv.Close()

	syncer, slots, _ := newTestSyncer(srv.URL)
	_, err := syncer.SyncOnce(context.Background())
	require.NoError(t, err)
	before := slots.StatusSummary()

	failing.Store(true)
	_, err = syncer.SyncOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")

	after := slots.StatusSummary()
	assert.Equal(t, before.TotalSlots, after.TotalSlots)
	assert.Equal(t, before.LastLoadedAt, after.LastLoadedAt, "failed sync must not touch load metadata")
}

func TestSyncOnceZeroValidRowsFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Professional,Date,Time\nDr. Priya,,10:00 AM\n"))
	}))
	defer srv.Close()

	syncer, slots, _ := newTestSyncer(srv.URL)
	_, err := syncer.SyncOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid slots")
	assert.False(t, slots.StatusSummary().HasData)
}

func TestSyncOnceFollowsRedirects(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(goodCSV))
	}))
	defer target.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusTemporaryRedirect)
	}))
	defer redirecting.Close()

	syncer, _, _ := newTestSyncer(redirecting.URL)
	result, err := syncer.SyncOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
}

func TestSyncOnceRedirectLoopFails(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL, http.StatusTemporaryRedirect)
	}))
	defer srv.Close()

	syncer, _, _ := newTestSyncer(srv.URL)
	_, err := syncer.SyncOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many redirects")
}

func TestSyncOnceUpdatesDirectory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Professional,Date,Time,Bio\n" +
			"Dr. Priya,\"Monday, Mar 3\",10:00 AM,Warm and direct\n"))
	}))
	defer srv.Close()

	syncer, _, directory := newTestSyncer(srv.URL)
	_, err := syncer.SyncOnce(context.Background())
	require.NoError(t, err)

	require.True(t, directory.IsLoaded())
	p := directory.Get("Dr. Priya")
	assert.False(t, p.Fallback)
	assert.Equal(t, "Warm and direct", p.Bio)
}

func TestSyncOnceUnconfigured(t *testing.T) {
	syncer, _, _ := newTestSyncer("")
	assert.False(t, syncer.Configured())
	_, err := syncer.SyncOnce(context.Background())
	require.Error(t, err)
}
