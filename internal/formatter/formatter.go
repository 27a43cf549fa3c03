// package formatter converts queue records to and from spreadsheet formats (XLSX, CSV, JSON) and renders terminal tables
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/igx/internal/models"
	"github.com/desertthunder/igx/internal/shared"
	"github.com/xuri/excelize/v2"
)

const (
	// DefaultExportPath is the file name used when no output path is given.
	DefaultExportPath = "instagram_check_results.xlsx"
	// DefaultSheet is the name of the single worksheet in an XLSX export.
	DefaultSheet = "Results"
)

// Headers are the export columns, in order.
var Headers = []string{"Username", "Is Page Open?", "Availability", "Notes", "Profile URL"}

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat resolves a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatXLSX, FormatCSV, FormatJSON:
		return f, nil
	case "":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, s)
	}
}

// FormatFromPath infers the export format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// ExportRow is one line of an export.
type ExportRow struct {
	Username     string `json:"Username"`
	IsPageOpen   string `json:"Is Page Open?"`
	Availability string `json:"Availability"`
	Notes        string `json:"Notes"`
	ProfileURL   string `json:"Profile URL"`
}

func (r ExportRow) values() []string {
	return []string{r.Username, r.IsPageOpen, r.Availability, r.Notes, r.ProfileURL}
}

// IsPageOpenLabel maps a page status to YES/NO/UNKNOWN.
func IsPageOpenLabel(s models.PageStatus) string {
	switch s {
	case models.PageOpen:
		return "YES"
	case models.PageClosed:
		return "NO"
	default:
		return "UNKNOWN"
	}
}

// AvailabilityLabel maps a page status to TAKEN/AVAILABLE/UNKNOWN.
func AvailabilityLabel(s models.PageStatus) string {
	switch s {
	case models.PageOpen:
		return "TAKEN"
	case models.PageClosed:
		return "AVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// ParseAvailability is the inverse of [AvailabilityLabel].
func ParseAvailability(s string) models.PageStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TAKEN":
		return models.PageOpen
	case "AVAILABLE":
		return models.PageClosed
	default:
		return models.PageUnknown
	}
}

// ToRows converts records to export rows in the same order.
func ToRows(records []models.UsernameRecord) []ExportRow {
	rows := make([]ExportRow, len(records))
	for i, rec := range records {
		rows[i] = ExportRow{
			Username:     rec.Username,
			IsPageOpen:   IsPageOpenLabel(rec.PageStatus),
			Availability: AvailabilityLabel(rec.PageStatus),
			Notes:        rec.Notes,
			ProfileURL:   rec.ProfileURL,
		}
	}
	return rows
}

// Export writes records to w in the given format. sheet only applies to XLSX and defaults to [DefaultSheet].
func Export(w io.Writer, records []models.UsernameRecord, format Format, sheet string) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatXLSX, "":
		return ExportToXLSX(w, records, sheet)
	case FormatCSV:
		data, err = ExportToCSV(records)
	case FormatJSON:
		data, err = ExportToJSON(records)
	default:
		return fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ExportToXLSX writes a single-sheet workbook with one row per record.
func ExportToXLSX(w io.Writer, records []models.UsernameRecord, sheet string) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, Headers); err != nil {
		return err
	}
	for i, row := range ToRows(records) {
		if err := setRow(f, sheet, i+2, row.values()); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "D", "E", 48); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to resolve cell: %w", err)
	}

	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// ExportToCSV converts records to CSV with the export columns.
func ExportToCSV(records []models.UsernameRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(Headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range ToRows(records) {
		if err := writer.Write(row.values()); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts records to an indented JSON array of export rows.
func ExportToJSON(records []models.UsernameRecord) ([]byte, error) {
	data, err := json.MarshalIndent(ToRows(records), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteExport writes records to path, inferring the format from the extension.
//
// Defaults to [DefaultExportPath].
func WriteExport(records []models.UsernameRecord, path, sheet string) (string, error) {
	if path == "" {
		path = DefaultExportPath
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := Export(&buf, records, format, sheet); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
