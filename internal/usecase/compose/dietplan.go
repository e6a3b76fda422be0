package compose

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Diet plan defaults and bounds. Calorie targets outside the accepted
// range fall back to the default.
const (
	defaultCalorieTarget = 2000
	minCalorieTarget     = 1000
	maxCalorieTarget     = 3500
)

var (
	calorieRe = regexp.MustCompile(`(\d{3,4})\s*(kcal|cal|calories)?`)
	avoidRe   = regexp.MustCompile(`avoid\s+([a-zA-Z\x{0900}-\x{097F}]+)`)
)

// mealShares split the daily calorie target across meals, in serving
// order.
var mealShares = []struct {
	name  string
	share float64
}{
	{"breakfast", 0.25},
	{"lunch", 0.35},
	{"snack", 0.15},
	{"dinner", 0.25},
}

type pickedFood struct {
	doc    foodDoc
	cal100 float64 // kcal per 100g
}

type foodDoc struct {
	title     string
	nutrition map[string]string
	ayurveda  map[string]string
}

// DietPlan renders a day plan from the corpus: meals sized per fixed
// calorie shares, portions derived from per-100g calories, filtered by
// parsed preferences.
func (s *Service) DietPlan(query, lang string) string {
	target := parseCalorieTarget(query)
	avoid := parseAvoidList(query)
	groups := s.groupFoods()
	L := labelsFor(lang)

	var lines []string
	lines = append(lines, fmt.Sprintf("%s (~%d kcal)", L.dietPlan, target))
	for _, meal := range mealShares {
		mealTarget := int(float64(target) * meal.share)
		cereals := pickWithCalories(groups["cereals"], 1)
		pulses := pickWithCalories(groups["pulses"], 1)
		vegetables := pickWithCalories(groups["vegetables"], 1)

		var chosen []pickedFood
		switch meal.name {
		case "breakfast", "dinner":
			chosen = append(cereals, pulses...)
		case "lunch":
			chosen = append(append(cereals, pulses...), vegetables...)
		default:
			chosen = vegetables
			if len(chosen) == 0 {
				chosen = cereals
			}
		}
		if len(chosen) > 3 {
			chosen = chosen[:3]
		}

		lines = append(lines, fmt.Sprintf("\n%s (~%d kcal)", mealLabel(L, meal.name), mealTarget))
		portions := portionLines(chosen, mealTarget, avoid, lang)
		if len(portions) == 0 {
			if lang == "hi" {
				lines = append(lines, "- दाल और अनाज को सब्जियों के साथ मिलाएँ")
			} else {
				lines = append(lines, "- Choose mixed dal and cereals with vegetables")
			}
			continue
		}
		lines = append(lines, portions...)
	}
	lines = append(lines, "\n"+L.note)
	return strings.Join(lines, "\n")
}

func mealLabel(L labels, meal string) string {
	switch meal {
	case "breakfast":
		return L.breakfast
	case "lunch":
		return L.lunch
	case "snack":
		return L.snack
	default:
		return L.dinner
	}
}

// groupFoods buckets corpus documents into coarse food groups by
// category and title keywords.
func (s *Service) groupFoods() map[string][]foodDoc {
	groups := map[string][]foodDoc{}
	for _, doc := range s.corpus.Docs() {
		cat := strings.ToLower(doc.Category)
		title := strings.ToLower(doc.Title)
		food := foodDoc{title: doc.Title, nutrition: doc.Nutrition, ayurveda: doc.Ayurveda}
		switch {
		case strings.Contains(cat, "cereal") || strings.Contains(cat, "grain") ||
			strings.Contains(title, "rice") || strings.Contains(title, "wheat"):
			groups["cereals"] = append(groups["cereals"], food)
		case strings.Contains(cat, "pulse") || strings.Contains(cat, "lentil") ||
			strings.Contains(title, "dal"):
			groups["pulses"] = append(groups["pulses"], food)
		case strings.Contains(cat, "veg"):
			groups["vegetables"] = append(groups["vegetables"], food)
		default:
			groups["others"] = append(groups["others"], food)
		}
	}
	return groups
}

// pickWithCalories prefers foods with a parseable calorie value, then
// pads with remaining foods at an assumed 100 kcal per 100g.
func pickWithCalories(foods []foodDoc, n int) []pickedFood {
	picked := make([]pickedFood, 0, n)
	taken := make(map[string]struct{}, n)
	for _, f := range foods {
		if len(picked) >= n {
			break
		}
		if cal, ok := parseFloat(f.nutrition["calories"]); ok && cal > 0 {
			picked = append(picked, pickedFood{doc: f, cal100: cal})
			taken[f.title] = struct{}{}
		}
	}
	for _, f := range foods {
		if len(picked) >= n {
			break
		}
		if _, ok := taken[f.title]; ok {
			continue
		}
		cal, ok := parseFloat(f.nutrition["calories"])
		if !ok || cal <= 0 {
			cal = 100.0
		}
		picked = append(picked, pickedFood{doc: f, cal100: cal})
		taken[f.title] = struct{}{}
	}
	return picked
}

func portionLines(chosen []pickedFood, mealTarget int, avoid []string, lang string) []string {
	if len(chosen) == 0 {
		return nil
	}
	perItem := float64(mealTarget) / float64(len(chosen))

	var lines []string
	for _, pick := range chosen {
		if avoided(pick.doc.title, avoid) {
			continue
		}
		grams := int(perItem / pick.cal100 * 100)
		lines = append(lines, fmt.Sprintf("- %s: ~%d g", pick.doc.title, grams))
		if extra := nutritionExtras(pick.doc.nutrition, lang); extra != "" {
			lines = append(lines, "  • "+extra)
		}
		if props := ayurvedaProps(pick.doc.ayurveda, lang); props != "" {
			lines = append(lines, "  • "+props)
		}
	}
	return lines
}

func avoided(title string, avoid []string) bool {
	t := strings.ToLower(title)
	for _, a := range avoid {
		if strings.Contains(t, a) {
			return true
		}
	}
	return false
}

func nutritionExtras(nutrition map[string]string, lang string) string {
	per100 := "per 100g"
	names := map[string]string{"protein": "Protein", "carbs": "Carbs", "fats": "Fats"}
	if lang == "hi" {
		per100 = "प्रति 100 ग्राम"
		names = map[string]string{"protein": "प्रोटीन", "carbs": "कार्ब्स", "fats": "वसा"}
	}
	var extras []string
	for _, key := range []string{"protein", "carbs", "fats"} {
		if v := nutrition[key]; v != "" {
			extras = append(extras, fmt.Sprintf("%s %s %s", names[key], v, per100))
		}
	}
	return strings.Join(extras, ", ")
}

func ayurvedaProps(ayurveda map[string]string, lang string) string {
	names := map[string]string{"rasa": "Rasa", "virya": "Virya", "vipaka": "Vipaka", "dosha_effects": "Dosha"}
	if lang == "hi" {
		names = map[string]string{"rasa": "रस", "virya": "वीर्य", "vipaka": "विपाक", "dosha_effects": "दोष"}
	}
	var props []string
	for _, key := range []string{"rasa", "virya", "vipaka", "dosha_effects"} {
		if v := ayurveda[key]; v != "" {
			props = append(props, fmt.Sprintf("%s: %s", names[key], v))
		}
	}
	return strings.Join(props, ", ")
}

// parseCalorieTarget extracts a 3-4 digit calorie target from the query,
// clamping to the accepted range via the default.
func parseCalorieTarget(query string) int {
	m := calorieRe.FindStringSubmatch(strings.ToLower(query))
	if m == nil {
		return defaultCalorieTarget
	}
	val, err := strconv.Atoi(m[1])
	if err != nil || val < minCalorieTarget || val > maxCalorieTarget {
		return defaultCalorieTarget
	}
	return val
}

func parseAvoidList(query string) []string {
	var avoid []string
	for _, m := range avoidRe.FindAllStringSubmatch(strings.ToLower(query), -1) {
		avoid = append(avoid, m[1])
	}
	return avoid
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
