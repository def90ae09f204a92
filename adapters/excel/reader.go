// Package excel loads xlsx and csv datasets into the in-memory table model.
// Column types are coerced deterministically: a column becomes numeric when
// at least NumericThreshold of its non-empty cells parse as numbers,
// otherwise it stays categorical.
package excel

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"causalprep/domain/table"
	"causalprep/internal/errors"
	"causalprep/internal/logging"
)

// NumericThreshold is the share of non-missing cells that must parse as
// numbers for a column to be treated as numeric
const NumericThreshold = 0.8

// Tokens treated as the missing marker in raw cells (case-insensitive)
var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

// DataReader handles reading Excel and CSV files into a table
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	log      *logging.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, log: logging.DefaultLogger}
}

// ReadTable reads the dataset into a table with coerced column types
func (r *DataReader) ReadTable() (*table.Table, error) {
	r.log.Debug("reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.ConfigInvalid("data file not found: " + r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, errors.ConfigInvalid("unsupported file type: " + r.fileType)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, errors.ValidationError("data file must have a header row and at least one data row")
	}

	return r.buildTable(rows)
}

// readExcelRows reads the first sheet of an xlsx workbook
func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "opening Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ValidationError("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %s", sheets[0])
	}
	r.log.Debug("sheet %s read (%d rows)", sheets[0], len(rows))
	return rows, nil
}

// readCSVRows reads all csv records
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "opening CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading CSV file")
	}
	return rows, nil
}

// buildTable coerces raw string rows into typed columns
func (r *DataReader) buildTable(rows [][]string) (*table.Table, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := rows[1:]
	tbl := table.New()

	for colIdx, header := range headers {
		if header == "" {
			continue
		}

		cells := make([]string, len(dataRows))
		for rowIdx, row := range dataRows {
			if colIdx < len(row) {
				cells[rowIdx] = strings.TrimSpace(row[colIdx])
			}
		}

		col := coerceColumn(cells)
		if err := tbl.SetColumn(header, col); err != nil {
			return nil, errors.Wrapf(err, "adding column %q", header)
		}
	}

	r.log.Info("%s file loaded (%d columns, %d rows)", strings.ToUpper(r.fileType), len(tbl.Names()), tbl.Rows())
	return tbl, nil
}

// coerceColumn decides between a numeric and a categorical column
func coerceColumn(cells []string) table.Column {
	numericCount := 0
	presentCount := 0
	for _, cell := range cells {
		if isMissingToken(cell) {
			continue
		}
		presentCount++
		if _, err := parseNumber(cell); err == nil {
			numericCount++
		}
	}

	if presentCount > 0 && float64(numericCount)/float64(presentCount) >= NumericThreshold {
		nums := make([]float64, len(cells))
		for i, cell := range cells {
			if isMissingToken(cell) {
				nums[i] = math.NaN()
				continue
			}
			v, err := parseNumber(cell)
			if err != nil {
				// Below-threshold stragglers in a numeric column are missing
				nums[i] = math.NaN()
				continue
			}
			nums[i] = v
		}
		return table.NewNumericColumn(nums)
	}

	cats := make([]string, len(cells))
	for i, cell := range cells {
		if isMissingToken(cell) {
			continue // empty string is the categorical missing marker
		}
		cats[i] = cell
	}
	return table.NewCategoricalColumn(cats)
}

func isMissingToken(cell string) bool {
	return missingTokens[strings.ToLower(cell)]
}

func parseNumber(cell string) (float64, error) {
	// Tolerate thousands separators written into spreadsheet cells
	cleaned := strings.ReplaceAll(cell, ",", "")
	return strconv.ParseFloat(cleaned, 64)
}
