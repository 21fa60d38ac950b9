package openai

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
)

// emotionScores is the structured output requested from the model.
type emotionScores struct {
	Joy      float64 `json:"joy" jsonschema:"required" jsonschema_description:"Strength of joy in [0,1]"`
	Sadness  float64 `json:"sadness" jsonschema:"required" jsonschema_description:"Strength of sadness in [0,1]"`
	Anger    float64 `json:"anger" jsonschema:"required" jsonschema_description:"Strength of anger in [0,1]"`
	Fear     float64 `json:"fear" jsonschema:"required" jsonschema_description:"Strength of fear in [0,1]"`
	Surprise float64 `json:"surprise" jsonschema:"required" jsonschema_description:"Strength of surprise in [0,1]"`
	Love     float64 `json:"love" jsonschema:"required" jsonschema_description:"Strength of love in [0,1]"`
	Neutral  float64 `json:"neutral" jsonschema:"required" jsonschema_description:"Strength of a neutral, factual tone in [0,1]"`
}

// generateSchema reflects T into a JSON schema accepted by strict structured
// outputs: every object closed and every property required.
func generateSchema[T any]() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	raw, err := reflector.Reflect(v).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	delete(m, "$schema")
	delete(m, "$id")
	closeObjects(m)
	return m, nil
}

func closeObjects(schema map[string]any) {
	props, _ := schema["properties"].(map[string]any)
	if t, _ := schema["type"].(string); t == "object" {
		schema["additionalProperties"] = false
		if len(props) > 0 {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			slices.Sort(required)
			schema["required"] = required
		}
	}
	for _, p := range props {
		if child, ok := p.(map[string]any); ok {
			closeObjects(child)
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		closeObjects(items)
	}
}
