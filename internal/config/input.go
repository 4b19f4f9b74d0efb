package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"gopkg.in/yaml.v3"
)

// ScenarioFile is a named list of scenarios for comparison runs.
type ScenarioFile struct {
	Base      string                 `yaml:"base,omitempty" json:"base,omitempty"`
	Scenarios []domain.NamedScenario `yaml:"scenarios" json:"scenarios"`
}

// InputParser handles parsing of scenario request files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadRequestFile loads a single scenario request from a YAML or JSON file
func (ip *InputParser) LoadRequestFile(filename string) (*domain.ScenarioRequest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseRequest(data)
}

// ParseRequest decodes and validates a single request.
func (ip *InputParser) ParseRequest(data []byte) (*domain.ScenarioRequest, error) {
	var req domain.ScenarioRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, malformed("parse_request", err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}
	return &req, nil
}

// LoadScenarioFile loads a named scenario list. A file holding a single
// request is accepted and becomes a one-scenario list named after the file.
func (ip *InputParser) LoadScenarioFile(filename string) (*ScenarioFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var file ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, malformed("parse_scenarios", err)
	}
	if len(file.Scenarios) == 0 {
		req, err := ip.ParseRequest(data)
		if err != nil {
			return nil, err
		}
		file.Scenarios = []domain.NamedScenario{{Name: baseName(filename), Request: *req}}
	}
	if err := ip.ValidateScenarioFile(&file); err != nil {
		return nil, fmt.Errorf("scenario file validation failed: %w", err)
	}
	return &file, nil
}

// ValidateScenarioFile checks names are unique and every request is valid.
func (ip *InputParser) ValidateScenarioFile(file *ScenarioFile) error {
	seen := make(map[string]bool, len(file.Scenarios))
	for i, s := range file.Scenarios {
		if s.Name == "" {
			return domain.NewInvalidInput("validate_scenarios", fmt.Sprintf("scenarios[%d].name", i), "missing")
		}
		if seen[s.Name] {
			return domain.NewInvalidInput("validate_scenarios", fmt.Sprintf("scenarios[%d].name", i), "duplicate")
		}
		seen[s.Name] = true
		if err := s.Request.Validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}
	if file.Base != "" && !seen[file.Base] {
		return domain.NewInvalidInput("validate_scenarios", "base", "unknown_value")
	}
	return nil
}

func baseName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func malformed(op string, err error) error {
	return &domain.Error{Code: domain.CodeInvalidInput, Op: op, Reason: "malformed", Cause: err}
}
