package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healprint/chat-service/internal/domain"
)

func TestExtract_MatchesTaxonomyPhrases(t *testing.T) {
	found := Extract("I have acne and I'm stressed")

	// "stressed" is not a taxonomy phrase; only acne matches.
	require.Len(t, found, 1)
	assert.Equal(t, domain.SymptomEvidence{Category: CategorySkin, Mentioned: true}, found["acne"])
}

func TestExtract_MultiWordKeys(t *testing.T) {
	found := Extract("lots of hair loss and very dry skin lately")

	assert.Contains(t, found, "hair_loss")
	assert.Contains(t, found, "dry_skin")
	assert.Equal(t, CategoryHair, found["hair_loss"].Category)
	assert.Equal(t, CategorySkin, found["dry_skin"].Category)
}

func TestExtract_CaseInsensitive(t *testing.T) {
	assert.Equal(t, Extract("ACNE and Dandruff"), Extract("acne and dandruff"))
}

func TestExtract_NoMatches(t *testing.T) {
	assert.Empty(t, Extract("hello, how does this work?"))
}

func TestExtract_Idempotent(t *testing.T) {
	msg := "acne, hair loss and fatigue"
	first := Extract(msg)
	second := Extract(msg)
	assert.Equal(t, first, second)
}

// A substring can legitimately witness more than one key.
func TestExtract_OverlappingKeys(t *testing.T) {
	found := Extract("everything feels oily: oily skin and oily hair")

	assert.Contains(t, found, "oily_skin")
	assert.Contains(t, found, "oily_hair")
}

func TestMergeEvidence_Union(t *testing.T) {
	a := Extract("I have acne")
	b := Extract("and hair loss")

	merged := MergeEvidence(a, b)
	assert.Len(t, merged, 2)
	assert.Contains(t, merged, "acne")
	assert.Contains(t, merged, "hair_loss")

	// Order-independent.
	assert.Equal(t, merged, MergeEvidence(b, a))
}

func TestMergeEvidence_Monotone(t *testing.T) {
	base := Extract("acne and dandruff")

	// Merging an empty extraction changes nothing.
	merged := MergeEvidence(base, Extract("it got worse yesterday"))
	assert.Equal(t, base, merged)

	// Inputs are never mutated.
	merged["rashes"] = domain.SymptomEvidence{Category: CategorySkin, Mentioned: true}
	assert.Len(t, base, 2)
}
