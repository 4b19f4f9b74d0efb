package compare

import (
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rgehrsitz/rpnl/internal/domain"
)

var scenarioNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/rgehrsitz/rpnl/scenario"))

// ScenarioID derives a stable identifier from the scenario name and request,
// so repeated comparisons of the same inputs produce the same IDs.
func ScenarioID(s domain.NamedScenario) string {
	data, err := json.Marshal(s)
	if err != nil {
		data = []byte(s.Name)
	}
	return uuid.NewSHA1(scenarioNamespace, data).String()
}
