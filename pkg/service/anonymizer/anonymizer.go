// Package anonymizer redacts personal data from policy text before it
// is embedded and stored. Insurance vocabulary that the retriever and
// decision engine depend on is shielded from redaction so a clause
// never loses the terms that make it retrievable.
package anonymizer

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// RedactedMarker replaces named-entity spans
	RedactedMarker = "[REDACTED]"
	// RedactedEmailMarker replaces email-shaped substrings
	RedactedEmailMarker = "[REDACTED_EMAIL]"
	// RedactedPhoneMarker replaces phone-shaped substrings
	RedactedPhoneMarker = "[REDACTED_PHONE]"
)

// protectedTerms is the insurance vocabulary preserved verbatim through
// redaction. Multi-word terms come first so "sum insured" is shielded
// as a unit before "insured" alone would match inside it.
var protectedTerms = []string{
	"waiting period",
	"sum insured",
	"pre-approval",
	"hospitalization",
	"treatment",
	"procedure",
	"insured",
	"surgery",
	"policy",
	"claim",
}

var (
	protectedPatterns []*regexp.Regexp

	// personPattern catches title-prefixed names, the strongest lexical
	// signal for a person reference in claim text.
	personPattern = regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr|Prof)\.?\s+[A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)?`)

	// orgPattern catches capitalized phrases ending in a company suffix
	orgPattern = regexp.MustCompile(`\b[A-Z][A-Za-z&]*(?:\s+[A-Z][A-Za-z&]*)*\s+(?:Inc|Ltd|LLC|Corp|Corporation|Company)\.?`)

	// datePatterns cover numeric dates and month-name dates
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
		regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:,?\s*\d{4})?\b`),
		regexp.MustCompile(`\b\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)(?:\s+\d{4})?\b`),
	}

	// nationalityPattern is a small lexicon of group adjectives
	nationalityPattern = regexp.MustCompile(`\b(?:American|British|Indian|Chinese|Japanese|German|French|Canadian|Australian|Hindu|Muslim|Christian|Buddhist|Sikh|Democrat|Republican)\b`)

	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
)

func init() {
	for _, term := range protectedTerms {
		protectedPatterns = append(protectedPatterns,
			regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(term)+`\b`))
	}
}

// DetectEntities runs the lexicon and pattern detectors over text and
// returns the first match per entity label. Labels follow conventional
// NER naming: person, org, date, norp.
func DetectEntities(text string) map[string]string {
	entities := make(map[string]string)
	if m := personPattern.FindString(text); m != "" {
		entities["person"] = m
	}
	if m := orgPattern.FindString(text); m != "" {
		entities["org"] = m
	}
	for _, pattern := range datePatterns {
		if m := pattern.FindString(text); m != "" {
			entities["date"] = m
			break
		}
	}
	if m := nationalityPattern.FindString(text); m != "" {
		entities["norp"] = m
	}
	return entities
}

// Anonymize redacts personal data from text while keeping protected
// insurance terms intact. The second return value reports whether
// anonymization was applied: on internal failure the original text is
// returned unchanged with false, so ingestion can continue and the
// caller can record the skip.
func Anonymize(text string) (result string, applied bool) {
	defer func() {
		if r := recover(); r != nil {
			result = text
			applied = false
		}
	}()

	// Shield protected terms behind unique placeholders. The matched
	// text is saved as-is so the original casing survives restoration.
	var shielded []string
	work := text
	for _, pattern := range protectedPatterns {
		work = pattern.ReplaceAllStringFunc(work, func(match string) string {
			placeholder := fmt.Sprintf("\x00%d\x00", len(shielded))
			shielded = append(shielded, match)
			return placeholder
		})
	}

	work = personPattern.ReplaceAllString(work, RedactedMarker)
	work = orgPattern.ReplaceAllString(work, RedactedMarker)
	for _, pattern := range datePatterns {
		work = pattern.ReplaceAllString(work, RedactedMarker)
	}
	work = nationalityPattern.ReplaceAllString(work, RedactedMarker)

	work = emailPattern.ReplaceAllString(work, RedactedEmailMarker)
	work = phonePattern.ReplaceAllString(work, RedactedPhoneMarker)

	// Restore in reverse so nested placeholders resolve innermost-first
	for i := len(shielded) - 1; i >= 0; i-- {
		placeholder := fmt.Sprintf("\x00%d\x00", i)
		work = strings.ReplaceAll(work, placeholder, shielded[i])
	}

	return work, true
}
