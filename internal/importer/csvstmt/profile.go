package csvstmt

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed amount column.
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns.
	amountSplit
)

// Profile describes the column layout of a statement CSV export. New bank
// layouts are supported by appending a Profile to the profiles slice.
type Profile struct {
	Name       string
	DateCol    string
	DescCol    string
	AmountMode amountMode
	AmountCol  string // used when AmountMode == amountSingle
	DebitCol   string // used when AmountMode == amountSplit
	CreditCol  string // used when AmountMode == amountSplit

	// Optional columns, read when present.
	ReferenceCol string
	BalanceCol   string
}

// requiredCols returns the column names that must all be present in a
// header row for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is the ordered list of layouts to try during auto-detection.
// More specific profiles come first to avoid false matches.
var profiles = []Profile{
	{
		Name:         "split",
		DateCol:      "Date",
		DescCol:      "Description",
		AmountMode:   amountSplit,
		DebitCol:     "Debit",
		CreditCol:    "Credit",
		ReferenceCol: "Reference",
		BalanceCol:   "Balance",
	},
	{
		Name:         "standard",
		DateCol:      "Date",
		DescCol:      "Description",
		AmountMode:   amountSingle,
		AmountCol:    "Amount",
		ReferenceCol: "Reference",
		BalanceCol:   "Balance",
	},
	{
		Name:       "minimal",
		DateCol:    "Transaction Date",
		DescCol:    "Details",
		AmountMode: amountSingle,
		AmountCol:  "Value",
	},
}
