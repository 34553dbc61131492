package completion

import (
	"fmt"
	"sort"
	"strings"

	"github.com/healprint/chat-service/internal/assessment"
	"github.com/healprint/chat-service/internal/domain"
)

const systemPrompt = `You are HealPrint AI, a professional health and wellness agent specializing in connecting internal health symptoms with external skin and hair problems.

Your approach:
- Ask thoughtful, targeted questions to understand the full health picture
- Connect internal and external symptoms to identify root causes
- Provide evidence-based, holistic recommendations
- Always prioritize safety and recommend professional consultation when needed
- Acknowledge the user's previous response before asking new questions
- When you provide numbered options and the user selects one, acknowledge their choice and ask follow-up questions about it

Important guidelines:
- Never provide specific medical diagnoses
- Always recommend professional consultation for serious concerns
- Focus on lifestyle, nutrition, and wellness approaches
- Use clean, plain-text formatting without markdown emphasis`

// BuildInstructions assembles the full instruction text for one chat turn:
// system prompt, the symptom taxonomy available to the agent, and the
// synthesized conversation context.
func BuildInstructions(conv *domain.Conversation) string {
	var sb strings.Builder
	sb.WriteString(systemPrompt)
	sb.WriteString("\n\nSymptom categories you can assess:\n")
	sb.WriteString(renderTaxonomy())
	sb.WriteString("\n\nCONVERSATION CONTEXT: ")
	sb.WriteString(BuildContext(conv))
	return sb.String()
}

// BuildAnalysisPrompt assembles the prompt for a comprehensive diagnostic
// analysis of the collected evidence.
func BuildAnalysisPrompt(conv *domain.Conversation, factors []domain.HealthFactor) string {
	keys := make([]string, 0, len(conv.SymptomsCollected))
	for k := range conv.SymptomsCollected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("Based on the collected symptoms and conversation, provide a comprehensive health analysis.\n\n")
	sb.WriteString("Collected symptoms: ")
	sb.WriteString(strings.Join(keys, ", "))
	sb.WriteString("\n\nRelevant health factors:\n")
	for _, f := range factors {
		fmt.Fprintf(&sb, "- %s (impact: %s): %s\n", f.Factor, f.ImpactLevel, strings.Join(f.Recommendations, "; "))
	}
	sb.WriteString(`
Please provide:
1. Primary health concerns identified
2. Likely root causes
3. Specific recommendations
4. Next steps
5. Whether professional consultation is needed`)
	return sb.String()
}

func renderTaxonomy() string {
	categories := assessment.Categories()

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "- %s: %s\n", name, strings.Join(categories[name], ", "))
	}
	return sb.String()
}
