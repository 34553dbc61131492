package domain

import "time"

// ChatRequest is an inbound chat turn.
type ChatRequest struct {
	Message        string `json:"message" validate:"required,max=4000"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse is the outcome of one chat turn.
type ChatResponse struct {
	Response          string                     `json:"response"`
	ConversationID    string                     `json:"conversation_id"`
	MessageID         string                     `json:"message_id"`
	AssessmentStage   AssessmentStage            `json:"assessment_stage"`
	SymptomsCollected map[string]SymptomEvidence `json:"symptoms_collected"`
	NeedsDiagnosis    bool                       `json:"needs_diagnosis"`
}

// HealthFactor links a root-cause factor to the symptoms it explains and the
// lifestyle or testing recommendations that address it.
type HealthFactor struct {
	Factor          string   `json:"factor"`
	ImpactLevel     string   `json:"impact_level"`
	RelatedSymptoms []string `json:"related_symptoms"`
	Recommendations []string `json:"recommendations"`
}

// DiagnosticReport is the result of analyzing a diagnostic-ready conversation.
type DiagnosticReport struct {
	ConversationID   string                     `json:"conversation_id"`
	Analysis         string                     `json:"analysis"`
	SymptomsAnalyzed map[string]SymptomEvidence `json:"symptoms_analyzed"`
	HealthFactors    []HealthFactor             `json:"health_factors"`
	GeneratedAt      time.Time                  `json:"generated_at"`
}
