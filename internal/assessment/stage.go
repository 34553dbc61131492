// Package assessment derives the state of a health-assessment conversation
// from the evidence collected so far: the stage transition table, the symptom
// taxonomy scan, and the health-factor rule table.
package assessment

import "github.com/healprint/chat-service/internal/domain"

// Thresholds for entering each stage, evaluated after every exchange.
const (
	diagnosticMinSymptoms  = 3
	diagnosticMinExchanges = 2
)

// EvaluateStage recomputes the assessment stage from scratch. It is a pure
// function of the current evidence size and the number of assistant-authored
// messages; the stage is never ratcheted forward, so corrected evidence
// bookkeeping can legitimately move it backward.
func EvaluateStage(symptomCount, assistantMessages int) domain.AssessmentStage {
	if symptomCount >= diagnosticMinSymptoms && assistantMessages >= diagnosticMinExchanges {
		return domain.StageDiagnosticReady
	}
	if symptomCount >= 1 || assistantMessages >= 1 {
		return domain.StageGatheringInfo
	}
	return domain.StageInitial
}

// NeedsDiagnosis reports whether enough information has been gathered to
// produce a diagnosis.
func NeedsDiagnosis(stage domain.AssessmentStage) bool {
	return stage == domain.StageDiagnosticReady
}
