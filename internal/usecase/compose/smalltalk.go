package compose

import "strings"

// Smalltalk phrase groups, matched as substrings of the lowered query.
var (
	greetingWords = []string{"hi", "hello", "hey", "namaste", "नमस्ते", "नमस्कार"}
	thanksWords   = []string{"thanks", "thank you", "धन्यवाद"}
	byeWords      = []string{"bye", "goodbye", "see you", "अलविदा"}
	whoWords      = []string{"who are you", "about you", "तुम कौन हो", "आप कौन हैं"}
	helpWords     = []string{"help", "what can you do", "capabilities", "assist", "सहायता", "मदद"}
)

// smalltalkOrHelp answers greetings, thanks, and capability questions
// when no document matched, falling back to a redirect prompt.
func smalltalkOrHelp(query, lang string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	hindi := lang == "hi"

	switch {
	case containsAny(q, greetingWords):
		if hindi {
			return "नमस्ते! मैं आपके पोषण और आयुर्वेद संबंधित प्रश्नों में मदद कर सकता/सकती हूँ। आप किसी दाल/अनाज/सब्जी के पोषण या आयुर्वेदिक गुण पूछ सकते हैं, या कैलोरी लक्ष्य के साथ डाइट प्लान माँग सकते हैं।"
		}
		return "Hello! I can help with nutrition and Ayurveda questions. Ask about nutrition or Ayurvedic properties of lentils/grains/vegetables, or request a diet plan with a calorie target."
	case containsAny(q, thanksWords):
		if hindi {
			return "आपका स्वागत है!"
		}
		return "You're welcome!"
	case containsAny(q, byeWords):
		if hindi {
			return "धन्यवाद! फिर मिलेंगे।"
		}
		return "Thanks! See you again."
	case containsAny(q, whoWords):
		if hindi {
			return "मैं पोषण और आयुर्वेद सहायक हूँ—CSV ज्ञान-आधार से जानकारी देता/देती हूँ, और आपकी पसंद के आधार पर सीखता/सीखती रहता/रहती हूँ।"
		}
		return "I'm a Nutrition & Ayurveda Assistant—answering from a CSV knowledge base and learning from your preferences."
	case containsAny(q, helpWords):
		if hindi {
			return "मैं आपके लिए ये कर सकता/सकती हूँ:\n- किसी खाद्य पदार्थ के पोषण/आयुर्वेदिक गुण बताना\n- पित्त/वात/कफ संतुलन के अनुसार सुझाव\n- 2000 kcal जैसा लक्ष्य देकर डाइट प्लान बनाना\nउदाहरण: \"मूंग दाल nutrition\", \"pitta balancing foods\", \"diet plan 2200 vegetarian\""
		}
		return "I can help you with:\n- Nutrition/Ayurvedic properties of foods\n- Vata/Pitta/Kapha balancing suggestions\n- Diet plans with calorie targets (e.g., 2000 kcal)\nExamples: \"moong dal nutrition\", \"pitta balancing foods\", \"diet plan 2200 vegetarian\""
	}

	if hindi {
		return "मुझे आपके प्रश्न का सटीक संदर्भ नहीं मिला। आप किसी खाद्य का नाम लिखकर पोषण/आयुर्वेद पूछें, या कैलोरी लक्ष्य देकर डाइट प्लान माँगें।"
	}
	return "I couldn't find a specific match. Ask for nutrition/Ayurvedic properties of a food, or request a diet plan with a calorie target."
}

func containsAny(q string, words []string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}
