package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/godilite/feedback-dashboard/internal/feedback"
	"github.com/xuri/excelize/v2"
)

// Format is the encoding of a tabular source.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

var zipSignature = []byte("PK\x03\x04")

// DetectFormat picks the format from the file name extension, falling back to
// the content: xlsx workbooks are ZIP archives.
func DetectFormat(name string, head []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".csv":
		return FormatCSV
	}
	if bytes.HasPrefix(head, zipSignature) {
		return FormatXLSX
	}
	return FormatCSV
}

// ReadFile loads the table stored at path. A missing file keeps os.ErrNotExist
// in the error chain.
func ReadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", feedback.ErrIngestion, path, err)
	}
	t, err := Read(bytes.NewReader(data), DetectFormat(path, data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadBytes loads an uploaded table whose format is sniffed from its content.
func ReadBytes(data []byte) (*Table, error) {
	return Read(bytes.NewReader(data), DetectFormat("", data))
}

// Read loads a whole table in one shot; either every row is read or an error
// wrapping feedback.ErrIngestion is returned.
func Read(r io.Reader, format Format) (*Table, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatXLSX:
		rows, err = readXLSX(r)
	case FormatCSV:
		rows, err = readCSV(r)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", feedback.ErrIngestion, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", feedback.ErrIngestion)
	}
	return newTable(rows), nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	// Stored values, not display text: a rating under an accounting format
	// would otherwise read back as "(1)".
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return trimTrailingBlank(rows), nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return trimTrailingBlank(rows), nil
}

// trimTrailingBlank drops blank rows at the end of a sheet; blank rows between
// records are kept as records with every value missing.
func trimTrailingBlank(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isBlank(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
