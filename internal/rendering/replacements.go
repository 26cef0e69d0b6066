package rendering

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-parser/internal/types"
)

// Template placeholders understood by every template.
const (
	PlaceholderName           = "{NAME}"
	PlaceholderEmail          = "{EMAIL}"
	PlaceholderPhone          = "{PHONE}"
	PlaceholderSummary        = "{SUMMARY}"
	PlaceholderDesignation    = "{DESIGNATION}"
	PlaceholderPrimarySkills  = "{PRIMARY_SKILLS}"
	PlaceholderWorkExperience = "{WORK_EXPERIENCE}"
	PlaceholderCertifications = "{CERTIFICATIONS}"
	PlaceholderEducation      = "{EDUCATION}"
	PlaceholderProjects       = "{PROJECTS}"
	PlaceholderAwards         = "{AWARDS}"
	PlaceholderLinkedIn       = "{LINKEDIN}"
	PlaceholderGitHub         = "{GITHUB}"
)

// Placeholders lists every known placeholder in template order.
var Placeholders = []string{
	PlaceholderName,
	PlaceholderEmail,
	PlaceholderPhone,
	PlaceholderSummary,
	PlaceholderDesignation,
	PlaceholderPrimarySkills,
	PlaceholderWorkExperience,
	PlaceholderCertifications,
	PlaceholderEducation,
	PlaceholderProjects,
	PlaceholderAwards,
	PlaceholderLinkedIn,
	PlaceholderGitHub,
}

// BuildReplacements maps every placeholder to the normalized text of its
// field. Missing fields map to "" so no token survives substitution.
func BuildReplacements(record *types.ResumeRecord) map[string]string {
	repl := make(map[string]string, len(Placeholders))
	for _, p := range Placeholders {
		repl[p] = ""
	}
	if record == nil {
		return repl
	}

	repl[PlaceholderName] = record.FullName.Text()
	repl[PlaceholderEmail] = record.Email.Text()
	repl[PlaceholderPhone] = record.Phone.Text()
	repl[PlaceholderSummary] = paragraph(record.ProfessionalSummary)
	repl[PlaceholderDesignation] = record.Designation.Text()
	repl[PlaceholderPrimarySkills] = strings.Join(NormalizeSkills(record.Skills), ", ")
	repl[PlaceholderWorkExperience] = NormalizeWorkExperience(record.WorkExperience)
	repl[PlaceholderCertifications] = NormalizeCertifications(record.Certifications)
	repl[PlaceholderEducation] = NormalizeEducation(record.Education)
	repl[PlaceholderProjects] = NormalizeProjects(record.Projects)
	repl[PlaceholderAwards] = NormalizeAwards(record.Awards)
	repl[PlaceholderLinkedIn] = record.LinkedIn.Text()
	repl[PlaceholderGitHub] = record.GitHub.Text()
	return repl
}

// paragraph keeps the line structure of free text; lists become lines.
func paragraph(v types.Value) string {
	if v.Kind == types.KindString {
		return strings.TrimSpace(v.Str)
	}
	return normalizeSection(v)
}

// newReplacer builds a single-pass literal replacer. Substituted values are
// never scanned again, so a value containing "{NAME}" stays as written.
// Longer tokens are listed first so overlapping keys resolve deterministically.
func newReplacer(repl map[string]string) *strings.Replacer {
	keys := make([]string, 0, len(repl))
	for k := range repl {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, repl[k])
	}
	return strings.NewReplacer(pairs...)
}

// SubstituteText replaces every occurrence of each placeholder in text with
// its literal value. Text without placeholders is returned unchanged.
func SubstituteText(text string, repl map[string]string) string {
	if len(repl) == 0 {
		return text
	}
	return newReplacer(repl).Replace(text)
}
