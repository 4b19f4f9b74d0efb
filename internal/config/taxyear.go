package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed taxyears/2025.yaml
var taxYear2025 []byte

var loadDefault = sync.OnceValues(func() (*domain.TaxYearConfig, error) {
	return ParseTaxYear(taxYear2025)
})

// Default returns the embedded 2025 tax-year table. It is parsed once and
// shared; callers must not modify it.
func Default() (*domain.TaxYearConfig, error) {
	return loadDefault()
}

// MustDefault is Default for program start-up, where a broken embedded table
// is a build defect.
func MustDefault() *domain.TaxYearConfig {
	cfg, err := Default()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadTaxYearFile reads and validates a tax-year table from a YAML or JSON file.
func LoadTaxYearFile(filename string) (*domain.TaxYearConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, domain.NewConfigurationError("load_tax_year", filename, "unreadable", err)
	}
	cfg, err := ParseTaxYear(data)
	if err != nil {
		return nil, fmt.Errorf("tax year file %s: %w", filename, err)
	}
	return cfg, nil
}

// ParseTaxYear decodes a tax-year table and validates it. Unrecognized fields
// are rejected.
func ParseTaxYear(data []byte) (*domain.TaxYearConfig, error) {
	var cfg domain.TaxYearConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.NewConfigurationError("parse_tax_year", "", "empty", nil)
		}
		return nil, domain.NewConfigurationError("parse_tax_year", "", "malformed", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve returns the table at path, or the embedded default when path is empty.
func Resolve(path string) (*domain.TaxYearConfig, error) {
	if path == "" {
		return Default()
	}
	return LoadTaxYearFile(path)
}
