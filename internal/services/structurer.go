package services

import (
	"regexp"
	"strconv"
	"strings"

	"resume-matcher/internal/models"
)

// section is the list currently collecting bullet lines.
type section int

const (
	sectionNone section = iota
	sectionMatches
	sectionWeaknesses
	sectionSuggestions
)

var (
	stepOneRe       = regexp.MustCompile(`(?i)^step\s*1\b\s*[:.)\-–—]?\s*`)
	titleLabelRe    = regexp.MustCompile(`(?i)^(job\s+title|position|role)\s*[:\-–—]\s*`)
	scoreMarkerRe   = regexp.MustCompile(`(?i)suitability\s+score`)
	matchScoreRe    = regexp.MustCompile(`(?i)match\s+score`)
	anyScoreRe      = regexp.MustCompile(`(?i)(suitability|match)\s+score`)
	parenthesisRe   = regexp.MustCompile(`\([^)]*\)`)
	scoreDigitsRe   = regexp.MustCompile(`\d{1,3}`)
	weaknessesRe    = regexp.MustCompile(`(?i)\b(weak\w*|missing)\b`)
	gapsRe          = regexp.MustCompile(`(?i)\bgaps?\b`)
	numberedItemRe  = regexp.MustCompile(`^\d+[.)]`)
	itemMarkerRe    = regexp.MustCompile(`^(?:[-*•]+|\d+[.)])\s*`)
	bulletMarkerRe  = regexp.MustCompile(`^[-*•]+\s*`)
	headingHashesRe = regexp.MustCompile(`^#+\s*`)

	emphasisReplacer = strings.NewReplacer("**", "", "__", "")
)

type resultLine struct {
	text  string
	lower string
}

type resultParser struct {
	result  models.StructuredResult
	section section
}

// lineRule is one predicate/action pair. Rules are tried in order and the
// first matching rule consumes the line.
type lineRule struct {
	name  string
	match func(p *resultParser, l resultLine) bool
	apply func(p *resultParser, l resultLine)
}

var structureRules = []lineRule{
	{
		name:  "job_title",
		match: func(_ *resultParser, l resultLine) bool { return stepOneRe.MatchString(l.text) },
		apply: (*resultParser).setJobTitle,
	},
	{
		name: "score",
		match: func(_ *resultParser, l resultLine) bool {
			return scoreMarkerRe.MatchString(l.text) ||
				(matchScoreRe.MatchString(l.text) && isHeaderShaped(l.text))
		},
		apply: (*resultParser).setScore,
	},
	sectionRule("matches", sectionMatches,
		func(lower string) bool { return strings.Contains(lower, "matching points") },
		func(lower string) bool { return strings.Contains(lower, "key match") },
	),
	sectionRule("weaknesses", sectionWeaknesses, weaknessesRe.MatchString, gapsRe.MatchString),
	sectionRule("suggestions", sectionSuggestions,
		func(lower string) bool { return strings.Contains(lower, "suggestion") },
		func(lower string) bool { return strings.Contains(lower, "recommendation") },
	),
	{
		name: "item",
		match: func(p *resultParser, l resultLine) bool {
			return p.section != sectionNone && isListItem(l.text)
		},
		apply: (*resultParser).appendItem,
	},
}

// StructureResult turns a free-text completion into a StructuredResult.
// It never fails: unrecognised lines are skipped and missing sections stay empty.
func StructureResult(raw string) models.StructuredResult {
	p := &resultParser{
		result: models.StructuredResult{
			Matches:     []string{},
			Weaknesses:  []string{},
			Suggestions: []string{},
		},
	}

	for _, rawLine := range strings.Split(raw, "\n") {
		text := normaliseLine(rawLine)
		if text == "" {
			continue
		}
		p.consume(resultLine{text: text, lower: strings.ToLower(text)})
	}

	return p.result
}

func (p *resultParser) consume(l resultLine) {
	for _, rule := range structureRules {
		if rule.match(p, l) {
			rule.apply(p, l)
			return
		}
	}
}

func (p *resultParser) setJobTitle(l resultLine) {
	title := stepOneRe.ReplaceAllString(l.text, "")
	title = titleLabelRe.ReplaceAllString(title, "")
	p.result.JobTitle = strings.TrimSpace(title)
}

func (p *resultParser) setScore(l resultLine) {
	loc := anyScoreRe.FindStringIndex(l.text)
	if loc == nil {
		return
	}

	// "(0-100)" style ranges are instructions echoed back, not the score.
	rest := parenthesisRe.ReplaceAllString(l.text[loc[1]:], "")
	digits := scoreDigitsRe.FindString(rest)
	if digits == "" {
		return
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return
	}
	p.result.Score = "Suitability Score: " + strconv.Itoa(n)
}

func (p *resultParser) appendItem(l resultLine) {
	p.add(p.section, stripItemMarker(l.text))
}

func (p *resultParser) add(s section, item string) {
	item = strings.TrimSpace(item)
	if item == "" {
		return
	}

	switch s {
	case sectionMatches:
		p.result.Matches = append(p.result.Matches, item)
	case sectionWeaknesses:
		p.result.Weaknesses = append(p.result.Weaknesses, item)
	case sectionSuggestions:
		p.result.Suggestions = append(p.result.Suggestions, item)
	}
}

// sectionRule opens target on a header line and keeps any content written
// after the header's colon as the first item. Bullet lines are never headers.
// The alternate marker ("key match", "gaps", "recommendation") only counts on
// header-shaped lines, so numbered items that mention it stay items.
func sectionRule(name string, target section, marker, alternate func(lower string) bool) lineRule {
	return lineRule{
		name: name,
		match: func(_ *resultParser, l resultLine) bool {
			if bulletMarkerRe.MatchString(l.text) {
				return false
			}
			return marker(l.lower) || (alternate(l.lower) && isHeaderShaped(l.text))
		},
		apply: func(p *resultParser, l resultLine) {
			idx := strings.Index(l.text, ":")

			// "2. Missing Kubernetes" inside an open weaknesses list is an item.
			if idx == -1 && p.section == target && numberedItemRe.MatchString(l.text) {
				p.add(target, stripItemMarker(l.text))
				return
			}

			p.section = target
			if idx != -1 {
				p.add(target, bulletMarkerRe.ReplaceAllString(strings.TrimSpace(l.text[idx+1:]), ""))
			}
		},
	}
}

func normaliseLine(raw string) string {
	text := strings.TrimSpace(raw)
	text = headingHashesRe.ReplaceAllString(text, "")
	text = emphasisReplacer.Replace(text)
	return strings.TrimSpace(text)
}

// isHeaderShaped reports whether a line can be a header: not a bullet, and a
// numbered line only when it carries a colon.
func isHeaderShaped(text string) bool {
	if bulletMarkerRe.MatchString(text) {
		return false
	}
	return !numberedItemRe.MatchString(text) || strings.Contains(text, ":")
}

func isListItem(text string) bool {
	return bulletMarkerRe.MatchString(text) || numberedItemRe.MatchString(text)
}

func stripItemMarker(text string) string {
	return strings.TrimSpace(itemMarkerRe.ReplaceAllString(text, ""))
}
