package service

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/ikkim/animeroast-backend/internal/app/model"
)

const (
	roastMarker = "ROAST:"
	statsMarker = "STATS:"
)

var codeFence = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")

// ParseRoastResponse splits model output into the roast and its stats.
// Missing or unreadable stats fall back to StatDefault; every stat is
// clamped to 0..100.
func ParseRoastResponse(text string) (string, model.RoastStats) {
	text = strings.TrimSpace(text)
	idx := strings.Index(text, statsMarker)
	if idx < 0 {
		return strings.TrimSpace(strings.TrimPrefix(text, roastMarker)), model.DefaultRoastStats()
	}

	roast := strings.TrimSpace(text[:idx])
	roast = strings.TrimSpace(strings.TrimPrefix(roast, roastMarker))
	return roast, parseStats(text[idx+len(statsMarker):])
}

func parseStats(raw string) model.RoastStats {
	stats := model.DefaultRoastStats()

	obj := extractJSONObject(codeFence.ReplaceAllString(raw, ""))
	if obj == "" {
		return stats
	}

	var values map[string]interface{}
	if err := json.Unmarshal([]byte(obj), &values); err != nil {
		return stats
	}

	fields := map[string]*int{
		"horniness_level":      &stats.HorninessLevel,
		"plot_armor_thickness": &stats.PlotArmorThickness,
		"filler_hell":          &stats.FillerHell,
		"power_creep":          &stats.PowerCreep,
		"cringe_factor":        &stats.CringeFactor,
		"fan_toxicity":         &stats.FanToxicity,
	}
	for key, dst := range fields {
		if v, ok := statValue(values[key]); ok {
			*dst = v
		}
	}
	return stats.Clamp()
}

// statValue accepts JSON numbers and numeric strings.
func statValue(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(math.Round(n)), true
	case string:
		var f float64
		if err := json.Unmarshal([]byte(strings.TrimSpace(n)), &f); err != nil {
			return 0, false
		}
		return int(math.Round(f)), true
	default:
		return 0, false
	}
}

// extractJSONObject returns the text from the first '{' to its matching '}'.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

type roastRewrite struct {
	pattern     *regexp.Regexp
	replacement string
}

var statisticalLanguage = []roastRewrite{
	{regexp.MustCompile(`\b\d+(\.\d+)?%`), ""},
	{regexp.MustCompile(`(?i)\b\d+ percent\b`), ""},
	{regexp.MustCompile(`(?i)\bout of \d+ reviews?\b`), ""},
	{regexp.MustCompile(`(?i)\b\d+ reviews?\b`), ""},
	{regexp.MustCompile(`\b\d+\.\d+/10\b`), ""},
	{regexp.MustCompile(`(?i)\bscored \d+`), ""},
	{regexp.MustCompile(`(?i)\brating of \d+`), ""},
	{regexp.MustCompile(`(?i)\baccording to (the )?data\b,?`), ""},
	{regexp.MustCompile(`(?i)\bstatistics show\b`), ""},
	{regexp.MustCompile(`(?i)\bdata indicates\b`), ""},
	{regexp.MustCompile(`(?i)\bcoming in at\b`), ""},
}

var (
	spaceRun         = regexp.MustCompile(`[ \t]+`)
	spaceBeforePunct = regexp.MustCompile(`\s+([.,!?])`)
	repeatedPunct    = regexp.MustCompile(`([.,!?])\s+([.,!?])`)
	emptyBrackets    = regexp.MustCompile(`\(\s*\)|\[\s*\]`)
)

// CleanRoast strips statistical phrasing the model tends to echo back
// from the prompt data.
func CleanRoast(roast string) string {
	cleaned := roast
	for _, rw := range statisticalLanguage {
		cleaned = rw.pattern.ReplaceAllString(cleaned, rw.replacement)
	}
	cleaned = emptyBrackets.ReplaceAllString(cleaned, "")
	cleaned = spaceRun.ReplaceAllString(cleaned, " ")
	cleaned = repeatedPunct.ReplaceAllStringFunc(cleaned, func(m string) string {
		if m[0] == m[len(m)-1] {
			return m[:1]
		}
		return m
	})
	cleaned = spaceBeforePunct.ReplaceAllString(cleaned, "$1")
	return strings.TrimSpace(cleaned)
}

// HasStatistics reports whether roast still reads like a data report.
func HasStatistics(roast string) bool {
	for _, rw := range statisticalLanguage {
		if rw.pattern.MatchString(roast) {
			return true
		}
	}
	return false
}
