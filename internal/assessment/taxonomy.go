package assessment

// Symptom categories.
const (
	CategorySkin     = "skin_conditions"
	CategoryHair     = "hair_conditions"
	CategoryInternal = "internal_health"
)

// taxonomy maps each category to its canonical symptom keys. Keys are
// underscore-joined words; their human-readable form (underscores replaced
// with spaces) is what gets matched against user input.
var taxonomy = map[string][]string{
	CategorySkin: {
		"acne", "blackheads", "whiteheads", "cysts", "nodules",
		"dry_skin", "oily_skin", "sensitive_skin", "redness", "inflammation",
		"rashes", "eczema", "psoriasis", "dermatitis", "rosacea",
		"hyperpigmentation", "dark_spots", "melasma", "age_spots",
		"wrinkles", "fine_lines", "sagging", "dull_skin", "uneven_texture",
	},
	CategoryHair: {
		"hair_loss", "thinning", "bald_patches", "receding_hairline",
		"dry_hair", "oily_hair", "brittle_hair", "split_ends",
		"dandruff", "scalp_irritation", "scalp_psoriasis", "scalp_eczema",
		"slow_growth", "excessive_shedding", "breakage", "frizz",
	},
	CategoryInternal: {
		"digestive_issues", "bloating", "constipation", "diarrhea", "acid_reflux",
		"fatigue", "low_energy", "sleep_issues", "insomnia", "poor_sleep_quality",
		"mood_swings", "anxiety", "depression", "irritability", "brain_fog",
		"weight_changes", "unexplained_weight_gain", "unexplained_weight_loss",
		"hormonal_imbalances", "irregular_cycles", "pms_symptoms", "menopause_symptoms",
	},
}

// Categories returns the taxonomy as category -> symptom keys.
func Categories() map[string][]string {
	out := make(map[string][]string, len(taxonomy))
	for category, symptoms := range taxonomy {
		out[category] = append([]string(nil), symptoms...)
	}
	return out
}
