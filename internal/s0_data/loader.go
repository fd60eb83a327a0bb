package s0_data

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"

	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/pkg/logger"
)

// LoadOptions controls how a table file is read
type LoadOptions struct {
	Schema contracts.Schema
	Sheet  string // xlsx only; empty means the first sheet
	Logger *logger.Logger
}

// nullTokens are cell values read as "no price"
var nullTokens = map[string]bool{
	"":     true,
	"nan":  true,
	"na":   true,
	"n/a":  true,
	"null": true,
	"none": true,
	"-":    true,
}

// FileSource implements contracts.TableSource for CSV and XLSX files
type FileSource struct {
	Path    string
	Options LoadOptions
}

// NewFileSource creates a file-backed table source
func NewFileSource(path string, opts LoadOptions) *FileSource {
	return &FileSource{Path: path, Options: opts}
}

// Load reads the table file
func (s *FileSource) Load(_ context.Context) (*contracts.RawTable, error) {
	return LoadTable(s.Path, s.Options)
}

// LoadTable reads a wide price table, dispatching on the file extension
func LoadTable(path string, opts LoadOptions) (*contracts.RawTable, error) {
	var (
		header []string
		rows   [][]string
		err    error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		header, rows, err = readXLSX(path, opts.Sheet)
	case ".csv", ".txt", "":
		header, rows, err = readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported table format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	return buildTable(path, header, rows, opts)
}

// buildTable turns header + string rows into a RawTable
func buildTable(source string, header []string, rows [][]string, opts LoadOptions) (*contracts.RawTable, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	schema := opts.Schema.WithDefaults()

	columns := make([]string, len(header))
	companyIdx := -1
	for i, col := range header {
		columns[i] = strings.TrimSpace(col)
		if columns[i] == schema.CompanyColumn && companyIdx < 0 {
			companyIdx = i
		}
	}
	if companyIdx < 0 {
		return nil, &contracts.MissingColumnError{
			Columns: []string{schema.CompanyColumn},
			Reason:  "company column not found",
		}
	}

	table := &contracts.RawTable{
		Source:  source,
		Columns: columns,
		Schema:  schema,
		Records: make([]contracts.RawRecord, 0, len(rows)),
	}

	seen := make(map[string]bool, len(rows))
	for lineNo, row := range rows {
		company := ""
		if companyIdx < len(row) {
			company = strings.TrimSpace(row[companyIdx])
		}
		if company == "" {
			log.Warnf("row %d has no company name, ignored", lineNo+2)
			continue
		}
		if seen[company] {
			log.WithField("company", company).Warn("duplicate company row ignored")
			continue
		}
		seen[company] = true

		record := contracts.NewRawRecord(company)
		for i, col := range columns {
			token, isOpening, ok := schema.SplitColumn(col)
			if !ok {
				continue
			}
			cell := null.Float{}
			if i < len(row) {
				cell = parseCell(row[i])
			}
			if isOpening {
				record.Opening[token] = cell
			} else {
				record.Closing[token] = cell
			}
		}
		table.Records = append(table.Records, record)
	}

	log.WithFields(map[string]interface{}{
		"source":    source,
		"companies": len(table.Records),
		"columns":   len(columns),
	}).Info("table loaded")

	return table, nil
}

// parseCell reads a price cell; anything that is not a finite number is null
func parseCell(raw string) null.Float {
	s := strings.TrimSpace(raw)
	if nullTokens[strings.ToLower(s)] {
		return null.Float{}
	}
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}
	return null.FloatFrom(v)
}
