package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/rgehrsitz/rpnl/internal/output"
)

// Formatter renders a comparison set.
type Formatter interface {
	Format(set *ComparisonSet) (string, error)
}

// JSONFormatter writes the whole set, deltas and insights included.
type JSONFormatter struct {
	Pretty bool
}

func (jf *JSONFormatter) Format(set *ComparisonSet) (string, error) {
	data, err := output.EncodeJSON(set, jf.Pretty)
	if err != nil {
		return "", fmt.Errorf("failed to marshal comparison: %w", err)
	}
	return string(data), nil
}

// FormatNames lists the names NewFormatter accepts; console is an alias
// for table.
func FormatNames() []string {
	return []string{"table", "json", "csv"}
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "table", "console":
		return &TableFormatter{}, nil
	case "json":
		return &JSONFormatter{Pretty: true}, nil
	case "csv":
		return &CSVFormatter{}, nil
	}
	return nil, domain.NewInvalidInput("compare", "format", "unknown_value")
}
