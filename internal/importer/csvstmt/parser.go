package csvstmt

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/black12-ag/reconcile/internal/encoding"
	"github.com/black12-ag/reconcile/internal/statement"
)

// flagDuplicateCheck marks rows that share date, amount and description
// with another row in the same file, so operators can review them before
// reconciliation double-books a payment.
const flagDuplicateCheck = "duplicate_check"

// Parser reads bank statement CSV exports and produces transaction rows.
// It auto-detects the column layout by matching header names against known
// profiles and tolerates preamble and footer lines around the data block.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]statement.TransactionParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = detectDelimiter(raw)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching statement layout: expected date, description and amount columns")
	}

	txs, err := parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	if err != nil {
		return nil, err
	}

	flagDuplicates(txs)

	return txs, nil
}

// detectDelimiter picks between semicolon and comma by counting which
// occurs more often in the first non-empty line.
func detectDelimiter(raw []byte) rune {
	line := raw
	if idx := bytes.IndexByte(raw, '\n'); idx >= 0 {
		line = raw[:idx]
	}

	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}

	return ','
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header matching a known profile. Returns
// the profile, the column index map, and the header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[strings.ToLower(name)] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[strings.ToLower(name)]; !ok {
			return false
		}
	}

	return true
}

func colOf(cols colIndex, name string) int {
	if name == "" {
		return -1
	}

	idx, ok := cols[strings.ToLower(name)]
	if !ok {
		return -1
	}

	return idx
}

// parseRows extracts transactions from the data rows following the header.
// firstRowIdx is the 0-based file index of the first data row, used to
// report file line numbers in errors.
func parseRows(p *Profile, cols colIndex, rows [][]string, firstRowIdx int) ([]statement.TransactionParams, error) {
	dateIdx := colOf(cols, p.DateCol)
	descIdx := colOf(cols, p.DescCol)
	refIdx := colOf(cols, p.ReferenceCol)
	balanceIdx := colOf(cols, p.BalanceCol)

	var txs []statement.TransactionParams

	for i, row := range rows {
		rowNum := firstRowIdx + i + 1 // 1-based file line

		date, ok := parseDate(row, dateIdx)
		if !ok {
			// Footer or summary row.
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, ok := parseRowAmount(p, cols, row)
		if !ok {
			continue
		}

		balance := int64(0)
		if s := cellValue(row, balanceIdx); s != "" {
			if cents, err := parseAmount(s); err == nil {
				balance = cents
			}
		}

		txs = append(txs, statement.TransactionParams{
			Date:        date,
			Description: desc,
			Reference:   cellValue(row, refIdx),
			Amount:      amount,
			Balance:     balance,
		})
	}

	return txs, nil
}

// dateLayouts are tried in order; the first parse wins.
var dateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006"}

func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseRowAmount extracts the signed amount in cents based on the
// profile's amount mode. Zero-amount rows are dropped.
func parseRowAmount(p *Profile, cols colIndex, row []string) (int64, bool) {
	switch p.AmountMode {
	case amountSingle:
		s := cellValue(row, colOf(cols, p.AmountCol))
		if s == "" {
			return 0, false
		}

		cents, err := parseAmount(s)
		if err != nil || cents == 0 {
			return 0, false
		}

		return cents, true

	case amountSplit:
		if s := cellValue(row, colOf(cols, p.DebitCol)); s != "" {
			if cents, err := parseAmount(s); err == nil && cents != 0 {
				return -abs(cents), true
			}
		}

		if s := cellValue(row, colOf(cols, p.CreditCol)); s != "" {
			if cents, err := parseAmount(s); err == nil && cents != 0 {
				return abs(cents), true
			}
		}
	}

	return 0, false
}

// flagDuplicates tags rows sharing date, amount and description.
func flagDuplicates(txs []statement.TransactionParams) {
	type key struct {
		date   string
		amount int64
		desc   string
	}

	seen := make(map[key][]int, len(txs))

	for i, tx := range txs {
		k := key{date: tx.Date.Format(time.DateOnly), amount: tx.Amount, desc: tx.Description}
		seen[k] = append(seen[k], i)
	}

	for _, idxs := range seen {
		if len(idxs) < 2 {
			continue
		}

		for _, i := range idxs {
			txs[i].Flags = append(txs[i].Flags, flagDuplicateCheck)
		}
	}
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
