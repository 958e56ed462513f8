package validation

import (
	"regexp"
	"strings"
)

// StrongVerbs are action verbs recommended for achievement-style text
var StrongVerbs = []string{
	"achieved", "architected", "built", "coordinated", "created", "delivered", "designed",
	"developed", "engineered", "established", "executed", "facilitated", "generated",
	"implemented", "improved", "increased", "launched", "led", "managed", "optimized",
	"reduced", "resolved", "scaled", "shipped", "streamlined", "transformed", "validated",
}

// weakPhrases are openers that undersell an achievement
var weakPhrases = []string{
	"was involved in", "participated in", "assisted with", "contributed to", "was part of",
	"worked on", "supported", "helped", "made", "did",
}

var (
	digitRe = regexp.MustCompile(`\d`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}(-\d{2})?$`)
)

// weakOpener returns the weak phrase text starts with, if any
func weakOpener(text string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, phrase := range weakPhrases {
		if lower == phrase || strings.HasPrefix(lower, phrase+" ") || strings.HasPrefix(lower, phrase+",") {
			return phrase, true
		}
	}
	return "", false
}

// isQuantified checks if text contains numbers or percentages
func isQuantified(text string) bool {
	return digitRe.MatchString(text) || strings.Contains(text, "%")
}

// validDate accepts YYYY-MM, YYYY-MM-DD and the open-ended "Present"
func validDate(value string) bool {
	value = strings.TrimSpace(value)
	return dateRe.MatchString(value) || strings.EqualFold(value, "present")
}

var standardSkillLevels = map[string]bool{
	"beginner": true, "intermediate": true, "advanced": true, "expert": true, "proficient": true,
	"master": true, "native": true,
}
