package extraction

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`(?:\+?\d{1,2}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	urlRe   = regexp.MustCompile(`\bhttps?://[^\s,;]+`)

	isoMonthRe  = regexp.MustCompile(`\b((?:19|20)\d{2})-(0[1-9]|1[0-2])(?:-(0[1-9]|[12]\d|3[01]))?\b`)
	monthYearRe = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+((?:19|20)\d{2})\b`)
	yearRe      = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	presentRe   = regexp.MustCompile(`(?i)\b(present|now|current(?:ly)?|today|ongoing|since)\b`)

	sentenceSplitRe = regexp.MustCompile(`[.!?;\n]+\s*`)
	listSplitRe     = regexp.MustCompile(`\s*(?:,|;|\n|\band\b|&|/|\|)\s*`)
	quotedRe        = regexp.MustCompile(`["“]([^"”]{2,})["”]`)
)

var months = map[string]string{
	"jan": "01", "feb": "02", "mar": "03", "apr": "04", "may": "05", "jun": "06",
	"jul": "07", "aug": "08", "sep": "09", "sept": "09", "oct": "10", "nov": "11", "dec": "12",
}

type dateToken struct {
	pos   int
	value string
}

// findDates returns date-like tokens in input order, normalized to YYYY-MM(-DD) where a month is known
func findDates(text string) []dateToken {
	var tokens []dateToken
	covered := func(pos int) bool {
		for _, t := range tokens {
			if pos >= t.pos && pos < t.pos+8 {
				return true
			}
		}
		return false
	}

	for _, m := range isoMonthRe.FindAllStringSubmatchIndex(text, -1) {
		tokens = append(tokens, dateToken{pos: m[0], value: text[m[0]:m[1]]})
	}
	for _, m := range monthYearRe.FindAllStringSubmatchIndex(text, -1) {
		month := months[strings.ToLower(text[m[2]:m[3]])]
		tokens = append(tokens, dateToken{pos: m[0], value: fmt.Sprintf("%s-%s", text[m[4]:m[5]], month)})
	}
	for _, m := range yearRe.FindAllStringIndex(text, -1) {
		if covered(m[0]) || insideMonthYear(text, m[0]) {
			continue
		}
		tokens = append(tokens, dateToken{pos: m[0], value: text[m[0]:m[1]]})
	}

	// input order
	for i := 1; i < len(tokens); i++ {
		for j := i; j > 0 && tokens[j].pos < tokens[j-1].pos; j-- {
			tokens[j], tokens[j-1] = tokens[j-1], tokens[j]
		}
	}
	return tokens
}

func insideMonthYear(text string, pos int) bool {
	for _, m := range monthYearRe.FindAllStringSubmatchIndex(text, -1) {
		if pos >= m[4] && pos < m[5] {
			return true
		}
	}
	return false
}

// dateRange picks a start and end date from the text. An open-ended mention yields "Present".
func dateRange(text string) (start, end string) {
	dates := findDates(text)
	if len(dates) > 0 {
		start = dates[0].value
	}
	if len(dates) > 1 {
		end = dates[1].value
	} else if start != "" && presentRe.MatchString(text) {
		end = "Present"
	}
	return start, end
}

func sentences(text string) []string {
	var out []string
	for _, s := range sentenceSplitRe.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// splitList breaks a free-form enumeration into trimmed items
func splitList(text string) []string {
	var out []string
	for _, item := range listSplitRe.Split(text, -1) {
		item = strings.Trim(strings.TrimSpace(item), ".!?:\"'")
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// stripLead removes a leading phrase (case-insensitive) such as "my skills are"
func stripLead(text string, leads ...string) string {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	for _, lead := range leads {
		if strings.HasPrefix(lower, lead) {
			return strings.TrimSpace(strings.TrimLeft(trimmed[len(lead):], ":- "))
		}
	}
	return trimmed
}

// titleCase upper-cases the first letter of each word, keeping acronyms intact
func titleCase(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 && unicode.IsLower(r[0]) {
			r[0] = unicode.ToUpper(r[0])
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

// capitalizedRun collects the leading run of capitalized words from text
func capitalizedRun(text string, max int) string {
	var out []string
	for _, field := range strings.Fields(text) {
		w := strings.Trim(field, ",.;:!?")
		r := []rune(w)
		if len(r) == 0 || !unicode.IsUpper(r[0]) || len(out) == max {
			break
		}
		out = append(out, w)
		if w != field {
			break
		}
	}
	return strings.Join(out, " ")
}
