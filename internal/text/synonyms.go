package text

// synonyms is a fixed many-to-many table for one-hop query expansion.
// No transitive closure: expanding "dal" adds "moong" but not "mung"
// unless "mung" is listed under "dal" itself.
var synonyms = map[string][]string{
	"dal":    {"lentil", "pulse", "moong", "mung", "toor", "tur", "arhar", "chana", "urad", "masoor", "pigeon", "pea"},
	"lentil": {"dal", "pulse", "moong", "mung", "masoor", "urad", "chana"},
	"pulse":  {"dal", "lentil"},
	"moong":  {"mung", "green", "gram"},
	"toor":   {"tur", "pigeon", "pea", "arhar"},
	"arhar":  {"toor", "tur", "pigeon", "pea"},
	"chana":  {"chickpea", "gram"},
	"urad":   {"black", "gram"},
	"masoor": {"red", "lentil"},
}

// Expand returns base followed by the synonyms of each base term, each
// added once in first-seen order. Base terms are passed through untouched.
func Expand(base []string) []string {
	out := make([]string, 0, len(base))
	seen := make(map[string]struct{}, len(base))
	for _, t := range base {
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, t := range base {
		for _, syn := range synonyms[t] {
			if _, ok := seen[syn]; ok {
				continue
			}
			seen[syn] = struct{}{}
			out = append(out, syn)
		}
	}
	return out
}
