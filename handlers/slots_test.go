package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"theeyouspace/models"
	"theeyouspace/services/professional"
	"theeyouspace/services/sheetsync"
	"theeyouspace/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSlotAdminRouter(t *testing.T) (*gin.Engine, *store.SlotStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	slots := store.NewSlotStore()
	syncer := sheetsync.NewSyncer(slots, professional.NewDirectory(), "", time.Minute, time.Second)
	h := NewSlotAdminHandler(slots, syncer)

	r := gin.New()
	r.POST("/api/slots/upload", h.Upload)
	r.GET("/api/slots/status", h.Status)
	r.DELETE("/api/slots/clear", h.Clear)
	r.POST("/api/slots/sync", h.Sync)
	return r, slots
}

func uploadCSV(t *testing.T, r *gin.Engine, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("slots", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/slots/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadLoadsSlots(t *testing.T) {
	r, slots := newSlotAdminRouter(t)

	w := uploadCSV(t, r, "march.csv",
		"Professional,Date,Time\nDr. Priya,\"Monday, Mar 3\",10:00 AM\n")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Loaded 1 slots")

	status := slots.StatusSummary()
	assert.Equal(t, 1, status.TotalSlots)
	assert.Equal(t, "upload:march.csv", status.LastLoadedBy)
}

func TestUploadRejectsEmptySheet(t *testing.T) {
	r, slots := newSlotAdminRouter(t)
	slots.Reconcile([]models.SlotInput{{Date: "Monday, Mar 3", Time: "10:00 AM"}}, "test")

	w := uploadCSV(t, r, "bad.csv", "Professional,Date,Time\nDr. Priya,,10:00 AM\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A rejected upload leaves the existing slots in place.
	assert.Equal(t, 1, slots.StatusSummary().TotalSlots)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	r, slots := newSlotAdminRouter(t)

	// Valid CSV past the size cap; truncating it would still parse, so the
	// handler must reject by size, not by content.
	var sb strings.Builder
	sb.WriteString("Professional,Date,Time\n")
	for i := 0; sb.Len() <= 5<<20; i++ {
		fmt.Fprintf(&sb, "Dr. Priya,\"Monday, Mar %d\",10:00 AM\n", i)
	}

	w := uploadCSV(t, r, "huge.csv", sb.String())
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.False(t, slots.StatusSummary().HasData)
}

func TestUploadWithoutFile(t *testing.T) {
	r, _ := newSlotAdminRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/slots/upload", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusAndClear(t *testing.T) {
	r, slots := newSlotAdminRouter(t)
	slots.Reconcile([]models.SlotInput{{Date: "Monday, Mar 3", Time: "10:00 AM"}}, "test")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/slots/status", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalSlots":1`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/slots/clear", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, slots.StatusSummary().HasData)
}

func TestSyncWithoutSheetURLSkips(t *testing.T) {
	r, _ := newSlotAdminRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/slots/sync", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"skipped":true`)
}
