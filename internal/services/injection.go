package services

import (
	"regexp"
	"strings"
)

// injectionPatterns match instruction-like phrasing aimed at the model rather
// than at a human reader of a job advertisement.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(ignore|disregard|forget)\s+(all\s+|any\s+)?(the\s+)?(previous|prior|above|earlier|preceding)\s+(instructions|prompts?|rules|directions)`),
	regexp.MustCompile(`(?i)\byou\s+are\s+now\s+(a|an|the)\b`),
	regexp.MustCompile(`(?i)\b(system|developer)\s+prompt\b`),
	regexp.MustCompile(`(?i)\[(system|assistant|inst)\]|<\|?(system|im_start)\|?>`),
	regexp.MustCompile(`(?i)\b(give|assign|rate)\s+(this|the|every|any)\s+(candidate|resume|applicant)\s+(a\s+)?(score|rating)\s+of\b`),
	regexp.MustCompile(`(?i)\b(suitability|match)\s+score\s*(:|of|=)\s*100\b`),
	regexp.MustCompile(`(?i)\brespond\s+only\s+with\b`),
}

// DetectInjection returns the instruction-like phrases found in text, in the
// order the patterns are checked. Nothing is removed from the text.
func DetectInjection(text string) []string {
	var found []string
	for _, re := range injectionPatterns {
		if match := re.FindString(text); match != "" {
			found = append(found, strings.TrimSpace(match))
		}
	}
	return found
}
