package report

import (
	"fmt"
	"regexp"
	"strings"
)

const notFound = "Not found"

var (
	diagnosisRe = sectionRe(SectionDiagnosis, SectionDrug, SectionDosage, SectionSafety)
	drugRe      = sectionRe(SectionDrug, SectionDosage, SectionSafety)
	dosageRe    = sectionRe(SectionDosage, SectionSafety)
	safetyRe    = regexp.MustCompile(`(?is)` + regexp.QuoteMeta(SectionSafety+":") + `(.*)`)
)

// sectionRe matches the labeled section's body up to the next known label or
// the end of the text.
func sectionRe(label string, followers ...string) *regexp.Regexp {
	alts := make([]string, 0, len(followers))
	for _, f := range followers {
		alts = append(alts, regexp.QuoteMeta(f+":"))
	}
	pattern := fmt.Sprintf(`(?is)%s(.*?)(?:%s|$)`, regexp.QuoteMeta(label+":"), strings.Join(alts, "|"))
	return regexp.MustCompile(pattern)
}

// ParseAssessment extracts the four labeled sections from a generated
// assessment. Missing sections come back as "Not found" rather than empty so
// the rendered report stays readable when the model drifts off format.
func ParseAssessment(text string) Assessment {
	return Assessment{
		Diagnosis: extract(diagnosisRe, text),
		Drug:      extract(drugRe, text),
		Dosage:    extract(dosageRe, text),
		Safety:    extract(safetyRe, text),
	}
}

func extract(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return notFound
	}
	if s := strings.TrimSpace(m[1]); s != "" {
		return s
	}
	return notFound
}

// Found reports whether a parsed section carried real content.
func Found(section string) bool { return section != notFound }
