package output

import (
	"github.com/goccy/go-json"
	"github.com/rgehrsitz/rpnl/internal/domain"
)

// EncodeJSON marshals any report value, indented by two spaces when pretty.
// The compare and headroom JSON formatters share it.
func EncodeJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// JSONFormatter writes the snake_case response shape.
type JSONFormatter struct {
	Trace  bool
	Pretty bool
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(res *domain.ScenarioResult) ([]byte, error) {
	return EncodeJSON(res.Response(j.Trace), j.Pretty)
}
