package importer

import (
	"errors"
	"io"

	"github.com/black12-ag/reconcile/internal/statement"
)

// ErrUnsupportedFormat signals an upload whose declared type has no parser.
// Nothing is persisted in that case.
var ErrUnsupportedFormat = errors.New("unsupported statement format")

type Format string

const (
	FormatCSV Format = "csv"
)

// FormatForMIME maps a declared upload MIME type to a parser format.
func FormatForMIME(mimeType string) (Format, bool) {
	switch mimeType {
	case "text/csv", "application/csv", "text/plain":
		return FormatCSV, true
	}

	return "", false
}

type Parser interface {
	Parse(r io.Reader) ([]statement.TransactionParams, error)
}
