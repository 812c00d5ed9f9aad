package portfolio

import (
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"bioatlas-backend/internal/impact"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFile = errors.New("Unsupported portfolio file type (use .xlsx or .csv)")
	ErrMissingColumns  = errors.New("Portfolio file must have instrumentid and allocation columns")
)

// Parse reads an uploaded portfolio into rows of (instrumentid, allocation,
// optional name). The format is picked by file extension. Rows with a blank
// instrument id or an unparseable allocation are dropped and counted in
// skipped rather than failing the upload; a file without the two required
// header columns fails outright.
func Parse(filename string, r io.Reader) (rows []impact.PortfolioRow, skipped int, err error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return parseXLSX(r)
	case ".csv":
		return parseCSV(r)
	default:
		return nil, 0, ErrUnsupportedFile
	}
}

func parseXLSX(r io.Reader) ([]impact.PortfolioRow, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, 0, err
	}
	return fromRecords(records)
}

func parseCSV(r io.Reader) ([]impact.PortfolioRow, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, err
	}
	return fromRecords(records)
}

// fromRecords maps a header row plus data rows into portfolio rows.
func fromRecords(records [][]string) ([]impact.PortfolioRow, int, error) {
	if len(records) == 0 {
		return nil, 0, ErrMissingColumns
	}

	idCol, allocCol, nameCol := -1, -1, -1
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "instrumentid":
			idCol = i
		case "allocation":
			allocCol = i
		case "name":
			nameCol = i
		}
	}
	if idCol < 0 || allocCol < 0 {
		return nil, 0, ErrMissingColumns
	}

	rows := make([]impact.PortfolioRow, 0, len(records)-1)
	skipped := 0
	for _, record := range records[1:] {
		id := cell(record, idCol)
		alloc, err := strconv.ParseFloat(cell(record, allocCol), 64)
		if id == "" || err != nil {
			skipped++
			continue
		}
		rows = append(rows, impact.PortfolioRow{
			InstrumentID: id,
			Name:         cell(record, nameCol),
			Allocation:   alloc,
		})
	}
	return rows, skipped, nil
}

// cell returns a trimmed cell value; trailing empty cells are absent from
// xlsx rows, so short records read as blank.
func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
