package sheetsync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"theeyouspace/models"
	"theeyouspace/services/professional"
	"theeyouspace/utils"

	"go.uber.org/zap"
)

const (
	maxRedirects = 5
	userAgent    = "TheeYouSpace-SlotSync/1.0"
)

var sheetIDPattern = regexp.MustCompile(`spreadsheets/d/([^/?#]+)`)

// NormalizeSheetURL accepts any Google Sheets URL variation and returns the
// CSV export form. Non-sheets URLs pass through unchanged.
func NormalizeSheetURL(raw string) string {
	m := sheetIDPattern.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", m[1])
}

// SlotReconciler is the slice of the slot store the syncer needs.
type SlotReconciler interface {
	Reconcile(inputs []models.SlotInput, sourceLabel string) int
}

// Syncer pulls the remote sheet, parses it, and reconciles the result into
// the slot store. A failed attempt (network error, non-2xx, zero valid
// rows) leaves the previous store state untouched; sync failures must
// never erase existing availability.
type Syncer struct {
	store     SlotReconciler
	directory *professional.Directory
	sheetURL  string
	interval  time.Duration
	client    *http.Client
	logger    *zap.Logger
}

func NewSyncer(store SlotReconciler, directory *professional.Directory, sheetURL string, interval, fetchTimeout time.Duration) *Syncer {
	return &Syncer{
		store:     store,
		directory: directory,
		sheetURL:  sheetURL,
		interval:  interval,
		logger:    utils.GetLogger(),
		client: &http.Client{
			Timeout: fetchTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects while fetching sheet")
				}
				return nil
			},
		},
	}
}

// Configured reports whether a sheet URL is set. Without one, the store
// runs on dev-seeded slots only.
func (s *Syncer) Configured() bool { return s.sheetURL != "" }

// SyncResult summarizes one successful sync attempt.
type SyncResult struct {
	Count         int      `json:"count"`
	Errors        []string `json:"parseErrors,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
	Professionals int      `json:"professionals"`
}

// SyncOnce performs one fetch-parse-reconcile cycle. A sync that yields
// zero accepted slots fails without touching the store, so an empty or
// malformed fetch cannot wipe legitimate state.
func (s *Syncer) SyncOnce(ctx context.Context) (*SyncResult, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("GOOGLE_SHEET_URL not set")
	}

	text, err := s.fetch(ctx, NormalizeSheetURL(s.sheetURL))
	if err != nil {
		return nil, err
	}

	parsed, err := ParseCSV(text)
	if err != nil {
		return nil, err
	}
	if len(parsed.Slots) == 0 {
		return nil, fmt.Errorf("no valid slots parsed; errors: %v", parsed.Errors)
	}

	count := s.store.Reconcile(parsed.Slots, "google-sheet-sync")
	if len(parsed.Professionals) > 0 {
		s.directory.Replace(parsed.Professionals)
	}

	s.logger.Info("Sheet sync complete",
		zap.Int("slots", count),
		zap.Int("professionals", len(parsed.Professionals)),
		zap.Int("warnings", len(parsed.Warnings)),
	)
	return &SyncResult{
		Count:         count,
		Errors:        parsed.Errors,
		Warnings:      parsed.Warnings,
		Professionals: len(parsed.Professionals),
	}, nil
}

func (s *Syncer) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid sheet URL: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sheet fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sheet returned HTTP %d — is the sheet public?", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read sheet response: %w", err)
	}
	return string(body), nil
}

// Start runs an immediate sync and then re-syncs on the configured interval
// until ctx is cancelled. The loop is a background convenience: it never
// takes the process down, and failures only log.
func (s *Syncer) Start(ctx context.Context) {
	if !s.Configured() {
		s.logger.Sugar().Info("No sheet URL configured — auto-sync disabled, dev slots in use")
		return
	}

	go func() {
		if _, err := s.SyncOnce(ctx); err != nil {
			s.logger.Warn("Initial sheet sync failed — keeping existing slots", zap.Error(err))
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.SyncOnce(ctx); err != nil {
					s.logger.Warn("Periodic sheet sync failed — keeping existing slots", zap.Error(err))
				}
			}
		}
	}()

	s.logger.Sugar().Infof("Sheet auto-sync every %s", s.interval)
}
