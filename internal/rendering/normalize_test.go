package rendering

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-parser/internal/types"
)

func entry(key string, v types.Value) types.Entry {
	return types.Entry{Key: key, Value: v}
}

func scalar(s string) types.Value {
	return types.Value{Kind: types.KindScalar, Str: s}
}

func TestNormalizeSkills(t *testing.T) {
	tests := []struct {
		name  string
		input types.Value
		want  []string
	}{
		{
			name: "mapping of categories flattens in order",
			input: types.Mapping(
				entry("languages", types.Strings("Go", "Python")),
				entry("tools", types.String("Docker; Kubernetes")),
			),
			want: []string{"Go", "Python", "Docker", "Kubernetes"},
		},
		{
			name: "nested category mappings split like the top level",
			input: types.Mapping(
				entry("Backend", types.Mapping(entry("lang", types.String("Go, Python; Rust")))),
				entry("Data", types.Mapping(
					entry("stores", types.Strings("PostgreSQL", "Redis")),
					entry("more", types.Mapping(entry("queues", types.String("Kafka")))),
				)),
			),
			want: []string{"Go", "Python", "Rust", "PostgreSQL", "Redis", "Kafka"},
		},
		{
			name:  "list items trimmed and empties dropped",
			input: types.Strings(" Go ", "", "  ", "SQL"),
			want:  []string{"Go", "SQL"},
		},
		{
			name:  "delimited string",
			input: types.String("Go, Python;SQL , "),
			want:  []string{"Go", "Python", "SQL"},
		},
		{
			name:  "nested lists flatten",
			input: types.List(types.Strings("a", "b"), types.String("c")),
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "mapping item in list uses its values",
			input: types.List(types.Mapping(entry("name", types.String("Go")), entry("level", types.String("expert")))),
			want:  []string{"Go, expert"},
		},
		{
			name:  "inner whitespace collapsed",
			input: types.Strings("Machine   learning"),
			want:  []string{"Machine learning"},
		},
		{
			name:  "absent",
			input: types.Value{},
			want:  []string{},
		},
		{
			name:  "scalar",
			input: scalar("42"),
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSkills(tt.input))
		})
	}
}

func TestNormalizeSkills_ItemsAreTrimmedAndNonEmpty(t *testing.T) {
	inputs := []types.Value{
		types.String(" ,, ;Go ;; Rust , "),
		types.Strings("\tGo\n", " ", "Rust  "),
		types.Mapping(entry("a", types.String(" x ; ")), entry("b", types.Strings(" ", " y"))),
		types.List(types.List(types.String(" z ")), types.Value{}),
		types.Mapping(entry("a", types.Mapping(entry("b", types.String(" ;w , "))))),
	}

	for _, in := range inputs {
		for _, skill := range NormalizeSkills(in) {
			assert.NotEmpty(t, skill)
			assert.Equal(t, strings.TrimSpace(skill), skill)
		}
	}
}

func TestNormalizeWorkExperience(t *testing.T) {
	tests := []struct {
		name  string
		input types.Value
		want  string
	}{
		{
			name: "full entry",
			input: types.List(types.Mapping(
				entry("title", types.String("Engineer")),
				entry("company", types.String("Acme")),
				entry("duration", types.String("2020-2022")),
				entry("details", types.Strings("Built X", "Shipped Y")),
			)),
			want: "Engineer at Acme (2020-2022)\n  - Built X\n  - Shipped Y",
		},
		{
			name:  "missing company and duration",
			input: types.List(types.Mapping(entry("title", types.String("Engineer")))),
			want:  "Engineer",
		},
		{
			name: "missing duration only",
			input: types.List(types.Mapping(
				entry("role", types.String("Engineer")),
				entry("employer", types.String("Acme")),
			)),
			want: "Engineer at Acme",
		},
		{
			name: "alternative keys",
			input: types.List(types.Mapping(
				entry("role_name", types.String("Developer")),
				entry("company_name", types.String("Globex")),
				entry("project_duration", types.String("2019")),
				entry("project_description", types.String("Did things")),
			)),
			want: "Developer at Globex (2019)\n  - Did things",
		},
		{
			name: "detail string lines become bullets",
			input: types.List(types.Mapping(
				entry("designation", types.String("Lead")),
				entry("responsibilities", types.String("- Built X\n• Shipped Y\n")),
			)),
			want: "Lead\n  - Built X\n  - Shipped Y",
		},
		{
			name: "technologies",
			input: types.List(types.Mapping(
				entry("title", types.String("Engineer")),
				entry("technologies", types.Strings("Go", "Kafka")),
			)),
			want: "Engineer\n  - Technologies: Go, Kafka",
		},
		{
			name: "entries keep order",
			input: types.List(
				types.Mapping(entry("title", types.String("Senior")), entry("company", types.String("B"))),
				types.Mapping(entry("title", types.String("Junior")), entry("company", types.String("A"))),
			),
			want: "Senior at B\nJunior at A",
		},
		{
			name:  "list of strings",
			input: types.Strings("Engineer at Acme", " Intern ", ""),
			want:  "Engineer at Acme\nIntern",
		},
		{
			name:  "single mapping",
			input: types.Mapping(entry("title", types.String("Engineer")), entry("company", types.String("Acme"))),
			want:  "Engineer at Acme",
		},
		{
			name:  "string",
			input: types.String("  Engineer at Acme  "),
			want:  "Engineer at Acme",
		},
		{
			name:  "absent",
			input: types.Value{},
			want:  "",
		},
		{
			name:  "scalar",
			input: scalar("3"),
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeWorkExperience(tt.input))
		})
	}
}

func TestNormalizeEducation(t *testing.T) {
	tests := []struct {
		name  string
		input types.Value
		want  string
	}{
		{
			name:  "list of strings",
			input: types.Strings("BS CS", "MS EE"),
			want:  "BS CS\nMS EE",
		},
		{
			name: "mapping uses values in insertion order",
			input: types.Mapping(
				entry("bachelor", types.String("BS CS")),
				entry("master", types.String("MS EE")),
			),
			want: "BS CS\nMS EE",
		},
		{
			name: "structured entries",
			input: types.List(types.Mapping(
				entry("degree", types.String("BS CS")),
				entry("institution", types.String("MIT")),
				entry("gpa", types.String("")),
				entry("year", scalar("2016")),
			)),
			want: "BS CS, MIT, 2016",
		},
		{
			name:  "string trimmed",
			input: types.String("  BS CS, MIT \n"),
			want:  "BS CS, MIT",
		},
		{
			name:  "absent",
			input: types.Value{},
			want:  "",
		},
		{
			name:  "scalar",
			input: scalar("2016"),
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEducation(tt.input))
		})
	}
}

func TestNormalizeCertificationsAndAwardsShareSectionRules(t *testing.T) {
	in := types.List(
		types.String("CKA"),
		types.Mapping(entry("name", types.String("AWS SA")), entry("year", scalar("2021"))),
	)

	assert.Equal(t, "CKA\nAWS SA, 2021", NormalizeCertifications(in))
	assert.Equal(t, "CKA\nAWS SA, 2021", NormalizeAwards(in))
}

func TestNormalizeProjects(t *testing.T) {
	tests := []struct {
		name  string
		input types.Value
		want  string
	}{
		{
			name: "name and description",
			input: types.List(types.Mapping(
				entry("project_name", types.String("Parser")),
				entry("project_description", types.String("Built it")),
			)),
			want: "Parser\n  - Built it",
		},
		{
			name: "description list and technologies",
			input: types.List(types.Mapping(
				entry("name", types.String("Crawler")),
				entry("description", types.Strings("Fetches pages", "Dedupes links")),
				entry("tech_stack", types.String("Go")),
			)),
			want: "Crawler\n  - Fetches pages\n  - Dedupes links\n  - Technologies: Go",
		},
		{
			name:  "strings",
			input: types.Strings("Parser", "Crawler"),
			want:  "Parser\nCrawler",
		},
		{
			name:  "absent",
			input: types.Value{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeProjects(tt.input))
		})
	}
}

func TestNormalizersNeverLeakStructure(t *testing.T) {
	nested := types.List(types.Mapping(
		entry("degree", types.Mapping(entry("name", types.String("BS")), entry("major", types.String("CS")))),
		entry("schools", types.Strings("MIT", "CMU")),
	))

	got := NormalizeEducation(nested)
	assert.Equal(t, "BS, CS, MIT, CMU", got)
	assert.NotContains(t, got, "{")
	assert.NotContains(t, got, "[")
}
