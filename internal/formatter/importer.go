package formatter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/igx/internal/shared"
	"github.com/xuri/excelize/v2"
)

// ReadGrid reads the first sheet of a workbook (or a CSV file) as rows of cell text.
//
// The format is chosen from the extension of name: .xlsx/.xlsm/.xltx use excelize, .csv uses encoding/csv.
// A .txt file is split on newlines and commas, the same as pasted text.
func ReadGrid(name string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return readWorkbook(r)
	case ".csv":
		return readCSV(r)
	case ".txt":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read text file: %w", err)
		}
		return [][]string{shared.SplitHandles(string(data))}, nil
	default:
		return nil, fmt.Errorf("%w: %s", shared.ErrUnsupportedFormat, name)
	}
}

func readWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// HandlesFromGrid flattens a grid row by row and returns the non-empty normalized handles.
func HandlesFromGrid(grid [][]string) []string {
	var cells []string
	for _, row := range grid {
		cells = append(cells, row...)
	}
	return shared.NormalizeHandles(cells)
}

// ReadHandles reads every non-empty cell of the first sheet in r and normalizes it into a handle.
func ReadHandles(name string, r io.Reader) ([]string, error) {
	grid, err := ReadGrid(name, r)
	if err != nil {
		return nil, err
	}
	return HandlesFromGrid(grid), nil
}

// ReadHandlesFile opens path and calls [ReadHandles].
func ReadHandlesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	return ReadHandles(path, f)
}
