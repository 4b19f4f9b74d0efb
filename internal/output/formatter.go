package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/rpnl/internal/domain"
)

// Formatter renders one scenario result.
type Formatter interface {
	Name() string
	Format(res *domain.ScenarioResult) ([]byte, error)
}

// FormatterFunc adapts a plain function to Formatter.
type FormatterFunc struct {
	ID string
	F  func(res *domain.ScenarioResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(res *domain.ScenarioResult) ([]byte, error) { return f.F(res) }

// Options tune the built-in formatters.
type Options struct {
	Trace   bool                  // include the rule trace
	TaxYear *domain.TaxYearConfig // when set, detailed formats list the table's assumptions
}

type factory func(Options) Formatter

var formatters = map[string]factory{
	"console":      func(o Options) Formatter { return ConsoleFormatter{Trace: o.Trace, TaxYear: o.TaxYear} },
	"console-lite": func(Options) Formatter { return ConsoleLiteFormatter{} },
	"json":         func(o Options) Formatter { return JSONFormatter{Trace: o.Trace, Pretty: true} },
	"csv":          func(o Options) Formatter { return CSVFormatter{Trace: o.Trace} },
	"html":         func(o Options) Formatter { return HTMLFormatter{TaxYear: o.TaxYear} },
	"trace":        func(Options) Formatter { return TraceFormatter{} },
}

var aliases = map[string]string{
	"verbose": "console",
	"table":   "console",
	"summary": "console-lite",
}

// NewFormatter returns the formatter registered under name or an alias, nil
// when unknown.
func NewFormatter(name string, opts Options) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[name]; ok {
		name = target
	}
	f, ok := formatters[name]
	if !ok {
		return nil
	}
	return f(opts)
}

// GetFormatterByName returns a formatter with default options.
func GetFormatterByName(name string) Formatter {
	return NewFormatter(name, Options{})
}

// AvailableFormatterNames lists the registered formatter names, sorted.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for n := range formatters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases, sorted.
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(aliases))
	for n := range aliases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted formats res and writes it to a timestamped file in the
// working directory, returning the file name.
func WriteFormatted(f Formatter, res *domain.ScenarioResult, ext string) (string, error) {
	data, err := f.Format(res)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("scenario_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
