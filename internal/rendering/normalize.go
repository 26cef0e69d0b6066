package rendering

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-parser/internal/types"
)

// Key aliases for structured entries, in lookup order.
var (
	roleKeys     = []string{"title", "role", "role_name", "designation", "position"}
	companyKeys  = []string{"company", "company_name", "organization", "employer"}
	durationKeys = []string{"duration", "project_duration", "dates", "period"}
	detailKeys   = []string{"details", "description", "project_description", "responsibilities", "work_done"}
	techKeys     = []string{"technologies", "tech_stack"}
	projectKeys  = []string{"project_name", "name", "title"}
)

var (
	skillSeparators = regexp.MustCompile(`[,;]`)
	innerWhitespace = regexp.MustCompile(`\s+`)
	bulletPrefix    = regexp.MustCompile(`^(?:[-*•·]\s*)+`)
)

// NormalizeSkills flattens any skills shape into an ordered list of trimmed,
// non-empty skill names. Mappings contribute their values in key order, at any
// depth; delimited strings are split on commas and semicolons.
func NormalizeSkills(v types.Value) []string {
	skills := []string{}
	switch v.Kind {
	case types.KindString:
		skills = appendSplit(skills, v.Str)
	case types.KindList:
		skills = appendListSkills(skills, v.Items)
	case types.KindMapping:
		skills = appendMappingSkills(skills, v.Entries)
	}
	return skills
}

func appendMappingSkills(skills []string, entries []types.Entry) []string {
	for _, e := range entries {
		switch e.Value.Kind {
		case types.KindList:
			skills = appendListSkills(skills, e.Value.Items)
		case types.KindString:
			skills = appendSplit(skills, e.Value.Str)
		case types.KindMapping:
			skills = appendMappingSkills(skills, e.Value.Entries)
		default:
			skills = appendClean(skills, e.Value.Text())
		}
	}
	return skills
}

func appendListSkills(skills []string, items []types.Value) []string {
	for _, item := range items {
		if item.Kind == types.KindList {
			skills = appendListSkills(skills, item.Items)
			continue
		}
		skills = appendClean(skills, item.Text())
	}
	return skills
}

func appendSplit(skills []string, s string) []string {
	for _, part := range skillSeparators.Split(s, -1) {
		skills = appendClean(skills, part)
	}
	return skills
}

func appendClean(skills []string, s string) []string {
	s = innerWhitespace.ReplaceAllString(strings.TrimSpace(s), " ")
	if s == "" {
		return skills
	}
	return append(skills, s)
}

// NormalizeWorkExperience renders work history as text. Each structured entry
// becomes "{role} at {company} ({duration})" followed by "  - {detail}" lines;
// the " at" and parenthesized parts are omitted when missing. Plain string
// entries are kept as lines. Order is preserved.
func NormalizeWorkExperience(v types.Value) string {
	switch v.Kind {
	case types.KindString:
		return strings.TrimSpace(v.Str)
	case types.KindList:
		return renderEntries(v.Items, renderJob)
	case types.KindMapping:
		return renderEntries([]types.Value{v}, renderJob)
	default:
		return ""
	}
}

func renderJob(entry types.Value) []string {
	role := entry.Lookup(roleKeys...).Text()
	company := entry.Lookup(companyKeys...).Text()
	duration := entry.Lookup(durationKeys...).Text()

	header := role
	if company != "" {
		if header != "" {
			header += " at "
		}
		header += company
	}
	if duration != "" {
		if header != "" {
			header += " "
		}
		header += "(" + duration + ")"
	}

	var lines []string
	if header != "" {
		lines = append(lines, header)
	}
	lines = append(lines, bullets(entry.Lookup(detailKeys...))...)
	if tech := entry.Lookup(techKeys...).Text(); tech != "" {
		lines = append(lines, "  - Technologies: "+tech)
	}
	return lines
}

// NormalizeProjects renders projects as a name line followed by description
// bullets.
func NormalizeProjects(v types.Value) string {
	switch v.Kind {
	case types.KindString:
		return strings.TrimSpace(v.Str)
	case types.KindList:
		return renderEntries(v.Items, renderProject)
	case types.KindMapping:
		return renderEntries([]types.Value{v}, renderProject)
	default:
		return ""
	}
}

func renderProject(entry types.Value) []string {
	var lines []string
	if name := entry.Lookup(projectKeys...).Text(); name != "" {
		lines = append(lines, name)
	}
	lines = append(lines, bullets(entry.Lookup(detailKeys...))...)
	if tech := entry.Lookup(techKeys...).Text(); tech != "" {
		lines = append(lines, "  - Technologies: "+tech)
	}
	return lines
}

// renderEntries renders mapping items with render and keeps other items as
// single trimmed lines.
func renderEntries(items []types.Value, render func(types.Value) []string) string {
	var lines []string
	for _, item := range items {
		switch item.Kind {
		case types.KindMapping:
			lines = append(lines, render(item)...)
		default:
			if line := item.Text(); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// bullets renders detail items as indented bullet lines. A list yields one
// bullet per item; a string yields one bullet per non-empty line, so a
// single-line description is a single bullet.
func bullets(details types.Value) []string {
	var items []string
	switch details.Kind {
	case types.KindList:
		for _, d := range details.Items {
			items = append(items, d.Text())
		}
	case types.KindString, types.KindScalar:
		items = strings.Split(details.Str, "\n")
	case types.KindMapping:
		for _, e := range details.Entries {
			items = append(items, e.Value.Text())
		}
	}

	var lines []string
	for _, item := range items {
		item = strings.TrimSpace(bulletPrefix.ReplaceAllString(strings.TrimSpace(item), ""))
		if item != "" {
			lines = append(lines, "  - "+item)
		}
	}
	return lines
}

// NormalizeEducation renders education as one line per entry. Structured
// entries show their non-empty values joined with ", "; mapping keys are
// dropped.
func NormalizeEducation(v types.Value) string {
	return normalizeSection(v)
}

// NormalizeCertifications renders certifications like NormalizeEducation.
func NormalizeCertifications(v types.Value) string {
	return normalizeSection(v)
}

// NormalizeAwards renders awards like NormalizeEducation.
func NormalizeAwards(v types.Value) string {
	return normalizeSection(v)
}

func normalizeSection(v types.Value) string {
	switch v.Kind {
	case types.KindString:
		return strings.TrimSpace(v.Str)
	case types.KindList:
		return joinLines(v.Items)
	case types.KindMapping:
		values := make([]types.Value, 0, len(v.Entries))
		for _, e := range v.Entries {
			values = append(values, e.Value)
		}
		return joinLines(values)
	default:
		return ""
	}
}

func joinLines(items []types.Value) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if line := item.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
