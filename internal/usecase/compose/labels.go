package compose

// labels hold the user-facing section headings per response language.
type labels struct {
	dietPlan  string
	breakfast string
	lunch     string
	snack     string
	dinner    string
	note      string
	question  string
	nutrition string
	ayurveda  string
	general   string
}

func labelsFor(lang string) labels {
	if lang == "hi" {
		return labels{
			dietPlan:  "आहार योजना",
			breakfast: "नाश्ता",
			lunch:     "दोपहर का भोजन",
			snack:     "स्नैक",
			dinner:    "रात का खाना",
			note:      "नोट: भूख और गतिविधि के अनुसार मात्रा समायोजित करें। व्यक्तिगत सलाह के लिए विशेषज्ञ से संपर्क करें।",
			question:  "प्रश्न",
			nutrition: "पोषण जानकारी (प्रति 100 ग्राम)",
			ayurveda:  "आयुर्वेदिक गुण",
			general:   "सामान्य जानकारी",
		}
	}
	return labels{
		dietPlan:  "Diet Plan",
		breakfast: "Breakfast",
		lunch:     "Lunch",
		snack:     "Snack",
		dinner:    "Dinner",
		note:      "Note: Adjust portions based on appetite and activity. Consult a professional for personalized advice.",
		question:  "Question",
		nutrition: "Nutritional Information (per 100g)",
		ayurveda:  "Ayurvedic Properties",
		general:   "General Insights",
	}
}
