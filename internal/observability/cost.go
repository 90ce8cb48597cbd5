package observability

import (
	"strconv"
	"strings"
)

const (
	tokensPerMillion    = 1_000_000.0
	costFormatPrecision = 6
)

// ModelPricing contains pricing per 1M tokens in USD
type ModelPricing struct {
	InputPricePer1M  float64
	OutputPricePer1M float64
}

// PricingTable is keyed by model id prefix; the longest matching prefix wins
var PricingTable = map[string]ModelPricing{
	"gemini-2.5-flash-lite": {InputPricePer1M: 0.10, OutputPricePer1M: 0.40},
	"gemini-2.5-flash":      {InputPricePer1M: 0.30, OutputPricePer1M: 2.50},
	"gemini-2.5-pro":        {InputPricePer1M: 1.25, OutputPricePer1M: 10.00},
	"gemini-2.0-flash":      {InputPricePer1M: 0.10, OutputPricePer1M: 0.40},
	"gpt-4o-mini":           {InputPricePer1M: 0.15, OutputPricePer1M: 0.60},
	"gpt-4o":                {InputPricePer1M: 2.50, OutputPricePer1M: 10.00},
}

// defaultPricingModel is used for models missing from the table
const defaultPricingModel = "gemini-2.5-flash-lite"

// PricingFor returns the pricing entry for a model id
func PricingFor(modelID string) ModelPricing {
	id := strings.ToLower(modelID)
	best := ""
	for prefix := range PricingTable {
		if strings.HasPrefix(id, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		best = defaultPricingModel
	}
	return PricingTable[best]
}

// CalculateCost estimates the USD cost of one generation call
func CalculateCost(modelID string, inputTokens, outputTokens int) float64 {
	pricing := PricingFor(modelID)
	inputCost := float64(inputTokens) / tokensPerMillion * pricing.InputPricePer1M
	outputCost := float64(outputTokens) / tokensPerMillion * pricing.OutputPricePer1M
	return inputCost + outputCost
}

// FormatCost formats a cost value as a USD string
func FormatCost(cost float64) string {
	return "$" + strconv.FormatFloat(cost, 'f', costFormatPrecision, 64)
}
