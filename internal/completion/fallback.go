package completion

import (
	"errors"
	"strings"
)

// Canned user-safe replies for provider failures. Credential and quota
// failures point the user at support; anything else asks them to retry.
const (
	fallbackQuota = "I'm currently unable to process your request due to API credit limitations. " +
		"Please contact support at support@healprint.xyz or try again later."
	fallbackAuth = "I'm currently unable to process your request due to an authentication issue " +
		"with the AI service. Please contact support at support@healprint.xyz."
	fallbackGeneric = "I apologize, I'm experiencing technical difficulties. " +
		"Please try again later or contact support at support@healprint.xyz."
)

// FallbackFor maps a provider failure to user-visible fallback text.
func FallbackFor(err error) string {
	switch {
	case errors.Is(err, ErrQuotaExhausted):
		return fallbackQuota
	case errors.Is(err, ErrUnauthorized):
		return fallbackAuth
	default:
		return fallbackGeneric
	}
}

// KeywordReply produces a degraded-mode assistant reply when no completion
// provider is configured, keyed off the user's message.
func KeywordReply(userMessage string) string {
	lower := strings.ToLower(userMessage)

	switch {
	case containsAny(lower, "hello", "hi", "hey", "start"):
		return "Hello! I'm HealPrint AI, your health and wellness assistant. I'm currently running " +
			"in a limited mode, but I'm here to help guide you through your health journey. Please " +
			"describe any skin, hair, or health concerns you'd like to discuss."
	case containsAny(lower, "skin", "acne", "rash", "dry", "oily"):
		return "I understand you're concerned about skin issues. Common skin concerns often relate " +
			"to diet, stress, hormones, or skincare routines. Would you like to share more details " +
			"about your specific skin concerns?"
	case containsAny(lower, "hair", "thinning", "dandruff"):
		return "Hair health is often connected to internal factors like nutrition, stress, and " +
			"hormonal balance. What specific hair concerns are you experiencing?"
	case containsAny(lower, "help", "support", "contact"):
		return "I'm here to help! Our support team is available at support@healprint.xyz, or you " +
			"can keep describing your health concerns and I'll do my best to guide you."
	default:
		return "Thank you for your message. I'm currently running in a limited mode, but please " +
			"feel free to describe any health concerns you have, and I'll do my best to provide " +
			"helpful guidance."
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
