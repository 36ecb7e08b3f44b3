package ai

import "strings"

// Cost is the computed monetary cost of one completion, for logging and
// monitoring only.
type Cost struct {
	InputCost  float64 `json:"inputCost"`
	OutputCost float64 `json:"outputCost"`
	Total      float64 `json:"total"`
	Tokens     int32   `json:"tokens"`
}

type modelPricing struct {
	input  float64 // USD per 1M prompt tokens
	output float64 // USD per 1M completion tokens
}

var pricing = map[string]modelPricing{
	"gemini-2.0-flash":      {input: 0.10, output: 0.40},
	"gemini-2.0-flash-lite": {input: 0.075, output: 0.30},
	"gemini-1.5-pro":        {input: 1.25, output: 5.00},
	"gemini-1.5-flash":      {input: 0.075, output: 0.30},
}

// CalculateCost prices a completion. Model versions carry suffixes
// (e.g. "gemini-2.0-flash-001"), so match on the longest known prefix;
// unknown models fall back to the default model's pricing.
func CalculateCost(promptTokens, completionTokens, totalTokens int32, model string) Cost {
	p, ok := pricing[model]
	if !ok {
		best := ""
		for name := range pricing {
			if strings.HasPrefix(model, name) && len(name) > len(best) {
				best = name
			}
		}
		if best != "" {
			p = pricing[best]
		} else {
			p = pricing[defaultModel]
		}
	}

	inputCost := float64(promptTokens) / 1e6 * p.input
	outputCost := float64(completionTokens) / 1e6 * p.output
	return Cost{
		InputCost:  inputCost,
		OutputCost: outputCost,
		Total:      inputCost + outputCost,
		Tokens:     totalTokens,
	}
}
