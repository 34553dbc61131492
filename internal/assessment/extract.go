package assessment

import (
	"strings"

	"github.com/healprint/chat-service/internal/domain"
)

// Extract scans a free-text user message against the symptom taxonomy and
// returns the evidence it mentions. The scan is a deliberate cheap substring
// match on the space-rendered key, not NLP: "oily" matching both oily_skin
// and oily_hair independently is expected. Extraction is idempotent and
// order-independent.
func Extract(message string) map[string]domain.SymptomEvidence {
	found := make(map[string]domain.SymptomEvidence)
	lower := strings.ToLower(message)

	for category, symptoms := range taxonomy {
		for _, key := range symptoms {
			if strings.Contains(lower, strings.ReplaceAll(key, "_", " ")) {
				found[key] = domain.SymptomEvidence{
					Category:  category,
					Mentioned: true,
				}
			}
		}
	}

	return found
}

// MergeEvidence merges src into dst and returns the union. Evidence only
// accumulates; keys are never removed.
func MergeEvidence(dst, src map[string]domain.SymptomEvidence) map[string]domain.SymptomEvidence {
	merged := make(map[string]domain.SymptomEvidence, len(dst)+len(src))
	for k, v := range dst {
		merged[k] = v
	}
	for k, v := range src {
		merged[k] = v
	}
	return merged
}
