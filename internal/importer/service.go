package importer

import (
	"fmt"
	"io"

	"github.com/black12-ag/reconcile/internal/importer/csvstmt"
	"github.com/black12-ag/reconcile/internal/statement"
)

type Service struct {
	csvParser Parser
}

func NewService() *Service {
	return &Service{
		csvParser: csvstmt.NewParser(),
	}
}

// Import parses an uploaded statement file into transaction rows.
func (s *Service) Import(format Format, r io.Reader) ([]statement.TransactionParams, error) {
	var parser Parser

	switch format {
	case FormatCSV:
		parser = s.csvParser
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	return parser.Parse(r)
}
