package corpus

import (
	"regexp"
	"strings"
)

// The primary CSV stores nutrition/ayurveda cells as brace-style map
// literals, e.g. {'protein': '24g', 'fiber': '11g'}. Parsing is
// best-effort: a cell that does not match yields an empty map.
var rePair = regexp.MustCompile(`['"]([^'"]+)['"]\s*:\s*['"]([^'"]*)['"]`)

func parseMapLiteral(cell string) map[string]string {
	out := map[string]string{}
	cell = strings.TrimSpace(cell)
	if !strings.HasPrefix(cell, "{") {
		return out
	}
	for _, m := range rePair.FindAllStringSubmatch(cell, -1) {
		key := strings.TrimSpace(m[1])
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(m[2])
	}
	return out
}
