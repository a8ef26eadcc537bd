package sheetsync

import (
	"encoding/csv"
	"fmt"
	"strings"

	"theeyouspace/models"
)

// Columns holds the resolved header indices of a slot sheet. An index of -1
// means the column is absent.
type Columns struct {
	Professional    int
	Date            int
	Time            int
	Title           int
	Bio             int
	Specializations int
	Areas           int
}

// HasProfessional reports whether the sheet carries a professional column.
// Without one, all slots fall into the general group.
func (c Columns) HasProfessional() bool { return c.Professional >= 0 }

// HasBio reports whether any bio column is present. Bio columns trigger a
// professionals-cache rebuild on sync.
func (c Columns) HasBio() bool {
	return c.Title >= 0 || c.Bio >= 0 || c.Specializations >= 0 || c.Areas >= 0
}

// ResolveColumns detects column roles from the header row, matching
// case-insensitively by substring. Date and time columns are mandatory.
func ResolveColumns(header []string) (Columns, error) {
	cols := Columns{Professional: -1, Date: -1, Time: -1, Title: -1, Bio: -1, Specializations: -1, Areas: -1}

	for i, raw := range header {
		h := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case cols.Professional < 0 && (strings.Contains(h, "professional") ||
			strings.Contains(h, "counsellor") || strings.Contains(h, "counselor") ||
			strings.Contains(h, "name")):
			cols.Professional = i
		case cols.Date < 0 && strings.Contains(h, "date"):
			cols.Date = i
		case cols.Time < 0 && strings.Contains(h, "time"):
			cols.Time = i
		case cols.Title < 0 && (h == "title" || h == "designation"):
			cols.Title = i
		case cols.Bio < 0 && (h == "bio" || h == "about" || h == "description"):
			cols.Bio = i
		case cols.Specializations < 0 && (strings.Contains(h, "specializ") || strings.Contains(h, "approach")):
			cols.Specializations = i
		case cols.Areas < 0 && (h == "areas" || strings.Contains(h, "focus")):
			cols.Areas = i
		}
	}

	if cols.Date < 0 {
		return cols, fmt.Errorf("no \"Date\" column found. Headers: %s", strings.Join(header, ", "))
	}
	if cols.Time < 0 {
		return cols, fmt.Errorf("no \"Time\" column found. Headers: %s", strings.Join(header, ", "))
	}
	return cols, nil
}

// ParseResult is the output of parsing a slot sheet: the accepted slots,
// per-row errors and warnings, and the professionals built from bio columns
// when present.
type ParseResult struct {
	Slots         []models.SlotInput
	Errors        []string
	Warnings      []string
	Professionals []models.Professional
}

// ParseCSV parses the raw CSV text of a slot sheet. Blank rows are skipped
// silently; rows missing a date or time are recorded as errors and dropped;
// duplicate (professional, date, time) rows are recorded as warnings and
// dropped. Duplicate professional names keep the last-seen bio row.
func ParseCSV(text string) (*ParseResult, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("sheet is empty or has only a header row")
	}

	cols, err := ResolveColumns(records[0])
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	seen := make(map[string]bool)
	profIdx := make(map[string]int) // lowercased name -> index in Professionals

	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	for i, row := range records[1:] {
		rowNum := i + 2 // spreadsheet row: 1-indexed plus header

		blank := true
		for _, v := range row {
			if strings.TrimSpace(v) != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}

		date := cell(row, cols.Date)
		timeVal := cell(row, cols.Time)
		name := cell(row, cols.Professional)
		professional := name
		if professional == "" {
			professional = models.GeneralGroup
		}

		// Register the professional even when the slot row itself is bad;
		// the bio columns are a separate concern from slot validity.
		if name != "" {
			key := strings.ToLower(name)
			p := models.Professional{
				Name:            name,
				Title:           cell(row, cols.Title),
				Bio:             cell(row, cols.Bio),
				Specializations: splitList(cell(row, cols.Specializations)),
				Areas:           splitList(cell(row, cols.Areas)),
			}
			if idx, ok := profIdx[key]; ok {
				result.Professionals[idx] = p // last-seen row wins
			} else {
				profIdx[key] = len(result.Professionals)
				result.Professionals = append(result.Professionals, p)
			}
		}

		if date == "" && timeVal == "" {
			continue
		}
		if date == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: missing date", rowNum))
			continue
		}
		if timeVal == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: missing time for %q", rowNum, date))
			continue
		}

		key := models.SlotKey(professional, date, timeVal)
		if seen[key] {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Row %d: duplicate %q — skipped", rowNum, professional+" – "+date+" "+timeVal))
			continue
		}
		seen[key] = true

		result.Slots = append(result.Slots, models.SlotInput{
			Professional: professional,
			Date:         date,
			Time:         timeVal,
		})
	}

	return result, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
