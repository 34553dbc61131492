package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/healprint/chat-service/internal/domain"
)

func TestEvaluateStage(t *testing.T) {
	tests := []struct {
		name              string
		symptomCount      int
		assistantMessages int
		want              domain.AssessmentStage
	}{
		{"no evidence no exchanges", 0, 0, domain.StageInitial},
		{"one symptom no exchanges", 1, 0, domain.StageGatheringInfo},
		{"no symptoms one exchange", 0, 1, domain.StageGatheringInfo},
		{"two symptoms two exchanges", 2, 2, domain.StageGatheringInfo},
		{"three symptoms one exchange", 3, 1, domain.StageGatheringInfo},
		{"three symptoms two exchanges", 3, 2, domain.StageDiagnosticReady},
		{"many symptoms many exchanges", 10, 8, domain.StageDiagnosticReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateStage(tt.symptomCount, tt.assistantMessages))
		})
	}
}

// As evidence and exchanges only grow within a conversation, the stage never
// moves backward along that walk.
func TestEvaluateStage_MonotoneAlongGrowth(t *testing.T) {
	rank := map[domain.AssessmentStage]int{
		domain.StageInitial:         0,
		domain.StageGatheringInfo:   1,
		domain.StageDiagnosticReady: 2,
	}

	prev := EvaluateStage(0, 0)
	for symptoms := 0; symptoms <= 6; symptoms++ {
		for exchanges := symptoms; exchanges <= symptoms+3; exchanges++ {
			cur := EvaluateStage(symptoms, exchanges)
			assert.GreaterOrEqual(t, rank[cur], rank[prev],
				"stage regressed at symptoms=%d exchanges=%d", symptoms, exchanges)
			prev = cur
		}
	}
}

func TestNeedsDiagnosis(t *testing.T) {
	assert.True(t, NeedsDiagnosis(domain.StageDiagnosticReady))
	assert.False(t, NeedsDiagnosis(domain.StageInitial))
	assert.False(t, NeedsDiagnosis(domain.StageGatheringInfo))
	assert.False(t, NeedsDiagnosis(domain.StageCompleted))
}
