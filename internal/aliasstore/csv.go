package aliasstore

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"regexp"
	"strings"

	"kabudash/internal/domain"
	"kabudash/internal/jptext"
)

// ErrNoTickerColumn is returned when no recognizable ticker column exists.
var ErrNoTickerColumn = errors.New("aliasstore: no ticker column found")

var headerNoiseRe = regexp.MustCompile(`[\s\-\_\.\(\)　]+`)

// canonHeader normalizes a column heading for classification: NFKC,
// lowercase, punctuation and whitespace stripped.
func canonHeader(c string) string {
	c = strings.ToLower(jptext.Normalize(c))
	return headerNoiseRe.ReplaceAllString(c, "")
}

// classifyHeader maps a column heading to "ticker", "alias", or "".
// Spreadsheet headings drift, so prefixes and Japanese synonyms are
// accepted.
func classifyHeader(c string) string {
	key := canonHeader(c)
	switch {
	case strings.HasPrefix(key, "ticker"), key == "code", key == "ティッカー", key == "コード":
		return "ticker"
	case strings.HasPrefix(key, "alias"), key == "name", key == "エイリアス", key == "銘柄名":
		return "alias"
	}
	return ""
}

// ParseCSV reads an alias table from CSV (or tab-separated) data. The first
// non-empty row is treated as the header; remaining rows become records,
// cleaned per Clean. The delimiter is inferred from the header line, with a
// tab retry if a comma parse finds no ticker column.
func ParseCSV(r io.Reader) ([]domain.AliasRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	comma := ','
	if line := firstNonEmptyLine(data); strings.Contains(line, "\t") && !strings.Contains(line, ",") {
		comma = '\t'
	}

	records, err := parseDelimited(data, comma)
	if comma == ',' && errors.Is(err, ErrNoTickerColumn) {
		return parseDelimited(data, '\t')
	}
	return records, err
}

func firstNonEmptyLine(data []byte) string {
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

func parseDelimited(data []byte, comma rune) ([]domain.AliasRecord, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	// First non-empty row is the header.
	headerIdx := -1
	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				headerIdx = i
				break
			}
		}
		if headerIdx >= 0 {
			break
		}
	}
	if headerIdx < 0 {
		return nil, nil
	}

	tickerCol, aliasCol := -1, -1
	for i, cell := range rows[headerIdx] {
		switch classifyHeader(cell) {
		case "ticker":
			if tickerCol < 0 {
				tickerCol = i
			}
		case "alias":
			if aliasCol < 0 {
				aliasCol = i
			}
		}
	}
	if tickerCol < 0 {
		return nil, ErrNoTickerColumn
	}

	var records []domain.AliasRecord
	for _, row := range rows[headerIdx+1:] {
		var rec domain.AliasRecord
		if tickerCol < len(row) {
			rec.Ticker = row[tickerCol]
		}
		if aliasCol >= 0 && aliasCol < len(row) {
			rec.Alias = row[aliasCol]
		}
		records = append(records, rec)
	}
	return Clean(records), nil
}

// WriteCSV writes the alias table as CSV with the canonical header.
func WriteCSV(w io.Writer, records []domain.AliasRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ticker", "alias"}); err != nil {
		return err
	}
	for _, r := range Clean(records) {
		if err := cw.Write([]string{r.Ticker, r.Alias}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
