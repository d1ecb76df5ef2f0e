// Package ingest turns uploaded spending CSV files into monthly series.
package ingest

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"budget_forecast/internal/models"
)

const DefaultMaxBytes int64 = 50 << 20

var (
	ErrEmptyFile       = errors.New("ingest: empty file")
	ErrFileTooLarge    = errors.New("ingest: file too large")
	ErrMalformedCSV    = errors.New("ingest: malformed csv")
	ErrColumnsNotFound = errors.New("ingest: date or amount column not found")
	ErrNoValidRows     = errors.New("ingest: no valid rows")
)

var (
	dateKeywords   = []string{"date", "jour", "mois", "month", "time", "reglement", "payment"}
	amountKeywords = []string{"montant", "sum", "prix", "amount", "valeur"}
	codeKeywords   = []string{"ordon", "etabl", "code"}
)

type Options struct {
	// MaxBytes caps the content size, DefaultMaxBytes when zero.
	MaxBytes int64
	// Code keeps only rows whose code column equals it. Empty keeps all rows.
	Code string
}

type Dataset struct {
	Series    models.TimeSeries
	Rows      int
	FirstDate time.Time
	LastDate  time.Time
	Hash      string
}

type row struct {
	date   time.Time
	amount float64
}

// Clean parses content and aggregates it per calendar month.
func Clean(content []byte, opts Options) (Dataset, error) {
	limit := opts.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return Dataset{}, ErrEmptyFile
	}
	if int64(len(content)) > limit {
		return Dataset{}, fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, len(content), limit)
	}

	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	records, err := readRecords(content)
	if err != nil {
		return Dataset{}, err
	}
	if len(records) < 2 {
		return Dataset{}, ErrNoValidRows
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	dateCol := findColumn(header, dateKeywords)
	amountCol := findColumn(header, amountKeywords)
	if dateCol < 0 || amountCol < 0 {
		return Dataset{}, fmt.Errorf("%w: header %v", ErrColumnsNotFound, header)
	}

	body := records[1:]
	if code := strings.TrimSpace(opts.Code); code != "" {
		codeCol := findColumn(header, codeKeywords)
		if codeCol < 0 {
			return Dataset{}, fmt.Errorf("%w: no code column to filter on", ErrColumnsNotFound)
		}
		body = filterByCode(body, codeCol, code)
	}

	rows := parseRows(body, dateCol, amountCol)
	if len(rows) == 0 {
		return Dataset{}, ErrNoValidRows
	}

	sum := sha256.Sum256(content)
	ds := Dataset{
		Rows: len(rows),
		Hash: hex.EncodeToString(sum[:]),
	}
	ds.FirstDate, ds.LastDate = rows[0].date, rows[0].date
	for _, r := range rows[1:] {
		if r.date.Before(ds.FirstDate) {
			ds.FirstDate = r.date
		}
		if r.date.After(ds.LastDate) {
			ds.LastDate = r.date
		}
	}
	ds.Series = aggregate(rows, ds.FirstDate, ds.LastDate)
	return ds, nil
}

func readRecords(content []byte) ([][]string, error) {
	firstLine := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		firstLine = content[:i]
	}
	sep := ','
	if bytes.ContainsRune(firstLine, ';') {
		sep = ';'
	}

	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func findColumn(header []string, keywords []string) int {
	for i, h := range header {
		for _, k := range keywords {
			if strings.Contains(h, k) {
				return i
			}
		}
	}
	return -1
}

func filterByCode(records [][]string, col int, code string) [][]string {
	out := records[:0:0]
	for _, rec := range records {
		if col < len(rec) && strings.TrimSpace(rec[col]) == code {
			out = append(out, rec)
		}
	}
	return out
}

func parseRows(records [][]string, dateCol, amountCol int) []row {
	rows, failed := parseWith(records, dateCol, amountCol, monthFirstLayouts)
	if failed > 0 {
		if alt, altFailed := parseWith(records, dateCol, amountCol, dayFirstLayouts); altFailed < failed {
			rows = alt
		}
	}
	return rows
}

// parseWith returns the rows it could read and the number of rows whose date
// did not parse with layouts.
func parseWith(records [][]string, dateCol, amountCol int, layouts []string) ([]row, int) {
	rows := make([]row, 0, len(records))
	failed := 0
	for _, rec := range records {
		if dateCol >= len(rec) || amountCol >= len(rec) {
			continue
		}
		raw := strings.TrimSpace(rec[dateCol])
		if raw == "" {
			continue
		}
		d, ok := parseDate(raw, layouts)
		if !ok {
			failed++
			continue
		}
		amount, ok := parseAmount(rec[amountCol])
		if !ok {
			continue
		}
		rows = append(rows, row{date: d, amount: amount})
	}
	return rows, failed
}

func parseAmount(s string) (float64, bool) {
	s = strings.NewReplacer("\u00a0", "", "\u202f", "", " ", "").Replace(s)
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
