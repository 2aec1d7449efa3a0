// Package importer provides CSV and Excel import functionality for device
// type libraries. It supports automatic delimiter detection, flexible column
// mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/RackPlan/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	DeviceTypes []model.DeviceType
	Errors      []string
	Warnings    []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Slug         int
	Manufacturer int
	Model        int
	Height       int
	Depth        int
	Width        int
	Category     int
	Colour       int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"slug":         {"slug", "id", "key", "type id"},
	"manufacturer": {"manufacturer", "vendor", "make", "brand"},
	"model":        {"model", "name", "device", "description", "desc"},
	"height":       {"height", "u", "u height", "u_height", "units", "rack units", "size"},
	"depth":        {"depth", "full depth", "full_depth", "is_full_depth", "mount depth"},
	"width":        {"width", "slot width", "slot_width", "bay width"},
	"category":     {"category", "type", "kind", "role"},
	"colour":       {"colour", "color", "hex"},
}

// positional is the column order assumed when a file has no header.
var positional = ColumnMapping{
	Slug:         0,
	Manufacturer: 1,
	Model:        2,
	Height:       3,
	Depth:        4,
	Width:        5,
	Category:     6,
	Colour:       7,
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{-1, -1, -1, -1, -1, -1, -1, -1}
	slots := map[string]*int{
		"slug":         &mapping.Slug,
		"manufacturer": &mapping.Manufacturer,
		"model":        &mapping.Model,
		"height":       &mapping.Height,
		"depth":        &mapping.Depth,
		"width":        &mapping.Width,
		"category":     &mapping.Category,
		"colour":       &mapping.Colour,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if idx := slots[role]; *idx == -1 {
					*idx = i
				}
			}
		}
	}

	if !isHeader {
		return positional, false
	}
	return mapping, true
}

// parseHeight accepts "2", "2U", "0.5u" and "1.5 U".
func parseHeight(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSpace(strings.TrimSuffix(s, "u"))
	return strconv.ParseFloat(s, 64)
}

// parseDepth converts a depth cell to the IsFullDepth pointer. An empty cell
// leaves depth unset, which means full depth.
func parseDepth(s string) (*bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil, true
	case "full", "f", "yes", "y", "true", "1", "deep":
		return model.Bool(true), true
	case "half", "h", "no", "n", "false", "0", "shallow":
		return model.Bool(false), true
	default:
		return nil, false
	}
}

// parseWidth converts a width cell to a slot width. An empty cell means full.
func parseWidth(s string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, true
	case "full", "f", "2", "1/1":
		return model.SlotWidthFull, true
	case "half", "h", "1", "1/2", "0.5":
		return model.SlotWidthHalf, true
	default:
		return 0, false
	}
}

func validColour(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}

// Slugify derives a library slug from free text: lowercase ASCII letters and
// digits, with runs of anything else collapsed to a single dash.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
			dash = false
		default:
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a DeviceType from a row using the given column mapping.
// Returns the device type, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.DeviceType, string, []string) {
	var warnings []string

	dt := model.DeviceType{
		Slug:         getCell(row, mapping.Slug),
		Manufacturer: getCell(row, mapping.Manufacturer),
		Model:        getCell(row, mapping.Model),
	}
	if dt.Slug == "" {
		dt.Slug = Slugify(strings.TrimSpace(dt.Manufacturer + " " + dt.Model))
	}
	if dt.Slug == "" {
		return model.DeviceType{}, fmt.Sprintf("%s: Missing slug or model", rowLabel), nil
	}

	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return model.DeviceType{}, fmt.Sprintf("%s: Missing height value", rowLabel), nil
	}
	height, err := parseHeight(heightStr)
	if err != nil {
		return model.DeviceType{}, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr), nil
	}
	if height <= 0 || !model.IsHalfUnit(height) {
		return model.DeviceType{}, fmt.Sprintf("%s: Height must be a positive multiple of 0.5U", rowLabel), nil
	}
	dt.UHeight = height

	if s := getCell(row, mapping.Depth); s != "" {
		depth, ok := parseDepth(s)
		if ok {
			dt.IsFullDepth = depth
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown depth '%s', defaulting to full", rowLabel, s))
		}
	}

	if s := getCell(row, mapping.Width); s != "" {
		width, ok := parseWidth(s)
		if ok {
			dt.SlotWidth = width
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown width '%s', defaulting to full", rowLabel, s))
		}
	}

	dt.Category = model.CategoryOther
	if s := getCell(row, mapping.Category); s != "" {
		cat, ok := model.ParseCategory(strings.ToLower(s))
		if ok {
			dt.Category = cat
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown category '%s', defaulting to other", rowLabel, s))
		}
	}

	if s := getCell(row, mapping.Colour); s != "" {
		if validColour(s) {
			dt.Colour = strings.ToLower(s)
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Invalid colour '%s', using category colour", rowLabel, s))
		}
	}

	if err := dt.Validate(); err != nil {
		return model.DeviceType{}, fmt.Sprintf("%s: %v", rowLabel, err), warnings
	}
	return dt, "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportFile imports device types from path, choosing the Excel or CSV
// reader by file extension.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return ImportExcel(path)
	default:
		return ImportCSV(path)
	}
}

// ImportCSV imports device types from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports device types from CSV read from reader, such
// as stdin, when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	records, err := readCSV(reader, delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// ImportExcel imports device types from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into device types.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if mapping.Slug == -1 && mapping.Model == -1 {
			missing = append(missing, "Slug or Model")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, err := parseHeight(getCell(rows[0], mapping.Height)); err != nil {
		// Height column is not numeric: an unrecognized header row.
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	seen := map[string]string{}
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		dt, errMsg, warnings := parseRow(row, mapping, rowLabel)
		result.Warnings = append(result.Warnings, warnings...)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if prev, dup := seen[dt.Slug]; dup {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Duplicate slug '%s' (first seen on %s)", rowLabel, dt.Slug, prev))
			continue
		}
		seen[dt.Slug] = rowLabel

		result.DeviceTypes = append(result.DeviceTypes, dt)
	}

	return result
}
