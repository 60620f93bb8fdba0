package contracts

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

const (
	agentsKeyConstant                  = "agents"
	sprintIdentifierKeyConstant        = "sprint_id"
	sprintGoalKeyConstant              = "goal"
	sprintStatusKeyConstant            = "status"
	notMappingTemplateConstant         = "document is %T, expected a mapping"
	capabilitiesDecodeTemplateConstant = "unable to decode capabilities: %w"
	sprintDecodeTemplateConstant       = "unable to decode sprint: %w"
)

// ErrNotMapping indicates a YAML document whose root is not a mapping.
var ErrNotMapping = errors.New("document root is not a mapping")

// Capabilities lists the agents a project is allowed to use.
type Capabilities struct {
	Agents []string       `mapstructure:"agents"`
	Extra  map[string]any `mapstructure:",remain"`
}

// Sprint carries the identifying fields of sprint.yaml.
type Sprint struct {
	SprintID string         `mapstructure:"sprint_id"`
	Goal     string         `mapstructure:"goal"`
	Status   string         `mapstructure:"status"`
	Extra    map[string]any `mapstructure:",remain"`
}

// SprintRequiredKeys lists the keys sprint.yaml must define, in reporting order.
func SprintRequiredKeys() []string {
	return []string{sprintIdentifierKeyConstant, sprintGoalKeyConstant, sprintStatusKeyConstant}
}

// ParseYAMLMapping parses YAML content whose root must be a mapping.
// Syntax errors are returned as-is; a non-mapping root wraps ErrNotMapping.
func ParseYAMLMapping(content []byte) (map[string]any, error) {
	var document any
	if unmarshalError := yaml.Unmarshal(content, &document); unmarshalError != nil {
		return nil, unmarshalError
	}
	mapping, isMapping := document.(map[string]any)
	if !isMapping {
		return nil, fmt.Errorf("%w: "+notMappingTemplateConstant, ErrNotMapping, document)
	}
	return mapping, nil
}

// MissingKeys returns every key in requiredKeys that document does not define, in order.
func MissingKeys(document map[string]any, requiredKeys []string) []string {
	var missing []string
	for _, requiredKey := range requiredKeys {
		if _, present := document[requiredKey]; !present {
			missing = append(missing, requiredKey)
		}
	}
	return missing
}

// HasAgentList reports whether document holds a non-empty list under "agents".
func HasAgentList(document map[string]any) bool {
	agents, isList := document[agentsKeyConstant].([]any)
	return isList && len(agents) > 0
}

// DecodeCapabilities converts a parsed capabilities document into Capabilities.
// Scalar agent entries are converted to strings.
func DecodeCapabilities(document map[string]any) (Capabilities, error) {
	var capabilities Capabilities
	if decodeError := mapstructure.WeakDecode(document, &capabilities); decodeError != nil {
		return Capabilities{}, fmt.Errorf(capabilitiesDecodeTemplateConstant, decodeError)
	}
	return capabilities, nil
}

// DecodeSprint converts a parsed sprint document into Sprint.
func DecodeSprint(document map[string]any) (Sprint, error) {
	var sprint Sprint
	if decodeError := mapstructure.WeakDecode(document, &sprint); decodeError != nil {
		return Sprint{}, fmt.Errorf(sprintDecodeTemplateConstant, decodeError)
	}
	return sprint, nil
}

// UndefinedAgents returns the sorted, de-duplicated agents that registry does not define.
func UndefinedAgents(capabilities Capabilities, registry ModeRegistry) []string {
	seen := map[string]struct{}{}
	var undefined []string
	for _, agent := range capabilities.Agents {
		if registry.Defines(agent) {
			continue
		}
		if _, duplicate := seen[agent]; duplicate {
			continue
		}
		seen[agent] = struct{}{}
		undefined = append(undefined, agent)
	}
	sort.Strings(undefined)
	return undefined
}
