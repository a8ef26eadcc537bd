package writeback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"theeyouspace/utils"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	spreadsheetScope = "https://www.googleapis.com/auth/spreadsheets"
	dataRange        = "Sheet1"
)

// Result reports the outcome of one write-back attempt. Write-back is
// background reconciliation cleanup: every failure mode comes back as
// {Removed:false, Reason} and never as an error that could fail the
// booking flow that triggered it.
type Result struct {
	Removed bool   `json:"removed"`
	Reason  string `json:"reason"`
}

// Client removes booked rows from the availability sheet so a process
// restart, which rebuilds the slot store purely from the next sync, does
// not resurrect an already-booked slot.
type Client struct {
	sheetID string
	svc     *sheets.Service
	logger  *zap.Logger
}

// NewClient builds a Sheets client from service-account credentials. With
// any of the sheet id, account email, or private key absent, the client
// stays in not-configured mode and every RemoveSlot call no-ops.
func NewClient(ctx context.Context, sheetID, accountEmail, rawKey string) *Client {
	c := &Client{sheetID: sheetID, logger: utils.GetLogger()}

	if sheetID == "" || accountEmail == "" || rawKey == "" {
		return c
	}

	// Keys pasted into env vars carry literal \n sequences.
	privateKey := strings.ReplaceAll(rawKey, `\n`, "\n")

	conf := &jwt.Config{
		Email:      accountEmail,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{spreadsheetScope},
		TokenURL:   google.JWTTokenURL,
		Expires:    time.Hour,
	}

	// TokenSource reuses the bearer token until shortly before expiry.
	svc, err := sheets.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		c.logger.Warn("Sheets write-back disabled: service init failed", zap.Error(err))
		return c
	}
	c.svc = svc
	return c
}

// Configured reports whether the client can reach the sheet.
func (c *Client) Configured() bool { return c.svc != nil && c.sheetID != "" }

// RemoveSlot locates the unique row matching (professional, date, time)
// case-insensitively and whitespace-trimmed, and deletes exactly that row
// by index. Zero matches report "not found" rather than guessing.
func (c *Client) RemoveSlot(ctx context.Context, professional, date, timeStr string) Result {
	if !c.Configured() {
		return Result{Removed: false, Reason: "sheet write-back not configured — skipping"}
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.sheetID, dataRange).Context(ctx).Do()
	if err != nil {
		return Result{Removed: false, Reason: fmt.Sprintf("failed to read sheet: %v", err)}
	}
	if len(resp.Values) < 2 {
		return Result{Removed: false, Reason: "sheet has no data rows"}
	}

	rowIndex, res := locateRow(resp.Values, professional, date, timeStr)
	if !res.found {
		return Result{Removed: false, Reason: res.reason}
	}

	gid := c.sheetGID(ctx)

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    gid,
					Dimension:  "ROWS",
					StartIndex: int64(rowIndex - 1), // 0-indexed
					EndIndex:   int64(rowIndex),     // exclusive
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.sheetID, req).Context(ctx).Do(); err != nil {
		return Result{Removed: false, Reason: fmt.Sprintf("delete request failed: %v", err)}
	}

	c.logger.Info("Removed booked row from sheet",
		zap.Int("row", rowIndex),
		zap.String("professional", professional),
		zap.String("date", date),
		zap.String("time", timeStr),
	)
	return Result{Removed: true, Reason: "row deleted from sheet"}
}

// sheetGID resolves the first tab's grid id, falling back to 0.
func (c *Client) sheetGID(ctx context.Context) int64 {
	meta, err := c.svc.Spreadsheets.Get(c.sheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil || len(meta.Sheets) == 0 || meta.Sheets[0].Properties == nil {
		return 0
	}
	return meta.Sheets[0].Properties.SheetId
}

type locateResult struct {
	found  bool
	reason string
}

// locateRow finds the 1-indexed sheet row matching the booked slot. The
// header row is resolved with the same case-insensitive substring heuristic
// the sync parser uses.
func locateRow(rows [][]interface{}, professional, date, timeStr string) (int, locateResult) {
	header := rows[0]
	proCol, dateCol, timeCol := -1, -1, -1
	for i, raw := range header {
		h := strings.ToLower(strings.TrimSpace(cellString(raw)))
		switch {
		case proCol < 0 && (strings.Contains(h, "professional") || strings.Contains(h, "counsellor") ||
			strings.Contains(h, "counselor") || strings.Contains(h, "name")):
			proCol = i
		case dateCol < 0 && strings.Contains(h, "date"):
			dateCol = i
		case timeCol < 0 && strings.Contains(h, "time"):
			timeCol = i
		}
	}
	if dateCol < 0 || timeCol < 0 {
		return 0, locateResult{reason: "could not detect Date/Time columns in sheet header"}
	}

	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		proMatch := proCol < 0 || norm(cellAt(row, proCol)) == norm(professional)
		if proMatch && norm(cellAt(row, dateCol)) == norm(date) && norm(cellAt(row, timeCol)) == norm(timeStr) {
			return i + 1, locateResult{found: true} // sheet rows are 1-indexed
		}
	}
	return 0, locateResult{reason: fmt.Sprintf("row not found in sheet for %s | %s | %s", professional, date, timeStr)}
}

func cellAt(row []interface{}, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cellString(row[idx])
}

func cellString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
