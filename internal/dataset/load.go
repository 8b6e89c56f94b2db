// Package dataset loads observed samples from delimited or spreadsheet files
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/mat"
)

// Load reads the named covariate and response columns from a .csv or .xlsx file.
func Load(path string, covariates []string, response string) (*Sample, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path, covariates, response)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		s, err := ReadCSV(f, covariates, response)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return s, nil
	}
}

// ReadCSV parses a header row followed by numeric rows.
func ReadCSV(r io.Reader, covariates []string, response string) (*Sample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(records)+2, err)
		}
		// skip blank lines
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		records = append(records, record)
	}

	return fromRecords(header, records, covariates, response)
}

func loadXLSX(path string, covariates []string, response string) (*Sample, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%s: read sheet %q: %w", path, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty sheet %q", path, sheets[0])
	}

	log.Debug().Str("path", path).Str("sheet", sheets[0]).Int("rows", len(rows)).Msg("loaded workbook")

	var records [][]string
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		records = append(records, row)
	}

	s, err := fromRecords(rows[0], records, covariates, response)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func fromRecords(header []string, records [][]string, covariates []string, response string) (*Sample, error) {
	if len(covariates) == 0 {
		return nil, fmt.Errorf("at least one covariate column is required")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	wanted := append(append([]string{}, covariates...), response)
	indices := make([]int, len(wanted))
	for i, name := range wanted {
		idx, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q (have %v)", name, header)
		}
		indices[i] = idx
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no data rows")
	}

	k := len(covariates)
	X := mat.NewDense(len(records), k, nil)
	y := mat.NewVecDense(len(records), nil)

	for rowIdx, record := range records {
		for i, colIdx := range indices {
			if colIdx >= len(record) {
				return nil, fmt.Errorf("row %d: expected at least %d columns, got %d", rowIdx+2, colIdx+1, len(record))
			}

			raw := strings.TrimSpace(record[colIdx])
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parse float at row %d column %q (%q): %w", rowIdx+2, wanted[i], raw, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("non-finite value at row %d column %q (%q)", rowIdx+2, wanted[i], raw)
			}

			if i < k {
				X.Set(rowIdx, i, v)
			} else {
				y.SetVec(rowIdx, v)
			}
		}
	}

	return &Sample{
		X:          X,
		Y:          y,
		Covariates: append([]string{}, covariates...),
		Response:   response,
	}, nil
}

// WriteCSV writes the sample with a header of covariates followed by the response.
func WriteCSV(w io.Writer, s *Sample) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(append(append([]string{}, s.Covariates...), s.Response)); err != nil {
		return err
	}

	rows, cols := s.X.Dims()
	record := make([]string, cols+1)
	for rowIdx := range rows {
		for colIdx := range cols {
			record[colIdx] = strconv.FormatFloat(s.X.At(rowIdx, colIdx), 'g', -1, 64)
		}
		record[cols] = strconv.FormatFloat(s.Y.AtVec(rowIdx), 'g', -1, 64)
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
