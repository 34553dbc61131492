package assessment

import "github.com/healprint/chat-service/internal/domain"

// healthFactors is the static rule table linking root-cause factors to the
// symptoms they commonly explain. It drives the diagnostic analysis prompt;
// it is not a learned model.
var healthFactors = []domain.HealthFactor{
	{
		Factor:          "Nutritional Deficiencies",
		ImpactLevel:     "high",
		RelatedSymptoms: []string{"hair_loss", "dry_skin", "fatigue", "brittle_hair", "slow_growth"},
		Recommendations: []string{
			"Get comprehensive blood work (iron, B12, vitamin D, zinc)",
			"Increase protein intake",
			"Add omega-3 fatty acids",
			"Consider a multivitamin supplement",
			"Eat more leafy greens and colorful vegetables",
		},
	},
	{
		Factor:          "Hormonal Imbalances",
		ImpactLevel:     "high",
		RelatedSymptoms: []string{"acne", "hair_loss", "mood_swings", "weight_changes", "irregular_cycles"},
		Recommendations: []string{
			"Get hormone panel testing (thyroid, sex hormones)",
			"Track menstrual cycles",
			"Manage stress levels",
			"Consult an endocrinologist if severe",
		},
	},
	{
		Factor:          "Chronic Stress",
		ImpactLevel:     "high",
		RelatedSymptoms: []string{"acne", "hair_loss", "fatigue", "sleep_issues", "inflammation"},
		Recommendations: []string{
			"Implement stress management techniques",
			"Practice meditation or yoga",
			"Get adequate sleep",
			"Engage in regular physical activity",
		},
	},
	{
		Factor:          "Gut Health Issues",
		ImpactLevel:     "medium",
		RelatedSymptoms: []string{"acne", "inflammation", "bloating", "fatigue", "mood_swings"},
		Recommendations: []string{
			"Get gut health testing",
			"Eliminate inflammatory foods",
			"Add probiotics and prebiotics",
			"Consider an elimination diet",
		},
	},
	{
		Factor:          "Environmental Factors",
		ImpactLevel:     "medium",
		RelatedSymptoms: []string{"dry_skin", "sensitive_skin", "wrinkles", "inflammation"},
		Recommendations: []string{
			"Use gentle, fragrance-free products",
			"Protect skin from UV damage",
			"Improve indoor air quality",
			"Avoid harsh chemicals",
		},
	},
}

// FactorsForSymptoms returns the health factors whose related symptoms
// overlap the collected symptom keys, in table order.
func FactorsForSymptoms(symptomKeys []string) []domain.HealthFactor {
	keys := make(map[string]struct{}, len(symptomKeys))
	for _, k := range symptomKeys {
		keys[k] = struct{}{}
	}

	var factors []domain.HealthFactor
	for _, factor := range healthFactors {
		for _, related := range factor.RelatedSymptoms {
			if _, ok := keys[related]; ok {
				factors = append(factors, factor)
				break
			}
		}
	}
	return factors
}
