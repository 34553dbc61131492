package completion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/healprint/chat-service/internal/domain"
)

func conversationWith(stage domain.AssessmentStage, symptoms []string, messages ...domain.Message) *domain.Conversation {
	collected := make(map[string]domain.SymptomEvidence, len(symptoms))
	for _, s := range symptoms {
		collected[s] = domain.SymptomEvidence{Category: "skin_conditions", Mentioned: true}
	}
	return &domain.Conversation{
		ConversationID:    "conv_u1_100",
		UserID:            "u1",
		Messages:          messages,
		AssessmentStage:   stage,
		SymptomsCollected: collected,
	}
}

func msg(role domain.MessageRole, content string) domain.Message {
	return domain.Message{Role: role, Content: content}
}

func TestBuildContext_StageAlwaysFirst(t *testing.T) {
	ctx := BuildContext(conversationWith(domain.StageInitial, nil))

	parts := strings.Split(ctx, " | ")
	assert.Equal(t, "Current Assessment Stage: initial", parts[0])
}

func TestBuildContext_SymptomsSorted(t *testing.T) {
	ctx := BuildContext(conversationWith(domain.StageGatheringInfo, []string{"rashes", "acne", "dandruff"}))

	assert.Contains(t, ctx, "Identified Symptoms: acne, dandruff, rashes")
}

func TestBuildContext_OmitsSymptomsWhenEmpty(t *testing.T) {
	ctx := BuildContext(conversationWith(domain.StageInitial, nil))

	assert.NotContains(t, ctx, "Identified Symptoms")
}

func TestBuildContext_ClassifiesOptionsResponse(t *testing.T) {
	ctx := BuildContext(conversationWith(domain.StageGatheringInfo, nil,
		msg(domain.RoleAssistant, "Which applies? 1. dry skin 2. oily skin"),
		msg(domain.RoleUser, "2"),
	))

	assert.Contains(t, ctx, contextRespondingToOptions)
}

func TestBuildContext_ClassifiesQuestionResponse(t *testing.T) {
	ctx := BuildContext(conversationWith(domain.StageGatheringInfo, nil,
		msg(domain.RoleAssistant, "How long has this been going on?"),
		msg(domain.RoleUser, "about a month"),
	))

	assert.Contains(t, ctx, contextRespondingToQuestion)
}

func TestBuildContext_ClassifiesAdditionalInfo(t *testing.T) {
	ctx := BuildContext(conversationWith(domain.StageGatheringInfo, nil,
		msg(domain.RoleAssistant, "I see, thanks for sharing that"),
		msg(domain.RoleUser, "also my scalp itches"),
	))

	assert.Contains(t, ctx, contextAdditionalInfo)
}

func TestBuildContext_NoClassificationWithoutExchange(t *testing.T) {
	ctx := BuildContext(conversationWith(domain.StageInitial, nil,
		msg(domain.RoleUser, "hello"),
	))

	assert.NotContains(t, ctx, "Previous Context")
}

func TestBuildContext_LengthBuckets(t *testing.T) {
	withLen := func(n int) *domain.Conversation {
		msgs := make([]domain.Message, n)
		for i := range msgs {
			msgs[i] = msg(domain.RoleUser, "m")
		}
		return conversationWith(domain.StageGatheringInfo, nil, msgs...)
	}

	assert.Contains(t, BuildContext(withLen(2)), "Early stage")
	assert.Contains(t, BuildContext(withLen(3)), "Mid-stage")
	assert.Contains(t, BuildContext(withLen(6)), "Mid-stage")
	assert.Contains(t, BuildContext(withLen(7)), "Advanced stage")
}

func TestBuildMessages_Window(t *testing.T) {
	msgs := make([]domain.Message, 15)
	for i := range msgs {
		msgs[i] = msg(domain.RoleUser, string(rune('a'+i)))
	}
	conv := conversationWith(domain.StageGatheringInfo, nil, msgs...)

	out := BuildMessages(conv, 10)
	assert.Len(t, out, 10)
	// The window keeps the most recent messages.
	assert.Equal(t, conv.Messages[5].Content, out[0].Content)
	assert.Equal(t, conv.Messages[14].Content, out[9].Content)
}

func TestBuildMessages_ShorterThanWindow(t *testing.T) {
	conv := conversationWith(domain.StageGatheringInfo, nil,
		msg(domain.RoleUser, "hi"),
		msg(domain.RoleAssistant, "hello"),
	)

	out := BuildMessages(conv, 10)
	assert.Len(t, out, 2)
	assert.Equal(t, "user", out[0].Role)
	assert.Equal(t, "assistant", out[1].Role)
}

func TestBuildInstructions_ContainsTaxonomyAndContext(t *testing.T) {
	conv := conversationWith(domain.StageGatheringInfo, []string{"acne"})

	instructions := BuildInstructions(conv)
	assert.Contains(t, instructions, "HealPrint AI")
	assert.Contains(t, instructions, "skin_conditions")
	assert.Contains(t, instructions, "CONVERSATION CONTEXT: Current Assessment Stage: gathering_info")
}

func TestFallbackFor(t *testing.T) {
	assert.Equal(t, fallbackQuota, FallbackFor(ErrQuotaExhausted))
	assert.Equal(t, fallbackAuth, FallbackFor(ErrUnauthorized))
	assert.Equal(t, fallbackGeneric, FallbackFor(assert.AnError))
}

func TestKeywordReply(t *testing.T) {
	assert.Contains(t, KeywordReply("Hello!"), "HealPrint AI")
	assert.Contains(t, KeywordReply("my skin is terrible"), "skin")
	assert.Contains(t, KeywordReply("hair keeps thinning"), "Hair health")
	assert.Contains(t, KeywordReply("I need support"), "support@healprint.xyz")
	assert.Contains(t, KeywordReply("xyzzy"), "limited mode")
}
