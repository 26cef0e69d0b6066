// Package llm - extractor.go describes the structured output requested from the model.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "ResumeRecord")
	Description string        // Task description placed before the structure
	Fields      []SchemaField // Expected output fields, in prompt order
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint rendered verbatim, e.g. `""` or `[""]`
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// RequiredFields returns the names of required fields in schema order.
func (s ExtractionSchema) RequiredFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// BuildSchemaBlock renders the field list and the JSON structure the model must
// return. The result is embedded in the extraction prompt.
func BuildSchemaBlock(schema ExtractionSchema) string {
	var sb strings.Builder

	sb.WriteString("Extract these exact fields:\n")
	for _, field := range schema.Fields {
		sb.WriteString(fmt.Sprintf("- %s: %s", field.Name, field.Description))
		if field.Required {
			sb.WriteString(" (required)")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nJSON structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `""`
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s", field.Name, typeHint))
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}")

	return sb.String()
}

// ResumeSchema returns the extraction schema for resumes. Field names match the
// keys decoded into types.ResumeRecord and the embedded JSON schema.
func ResumeSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "ResumeRecord",
		Description: "Professional resume parser output.",
		Fields: []SchemaField{
			{Name: "full_name", Description: "Full name of the candidate.", Required: true},
			{Name: "email_id", Description: "Email address.", Required: true},
			{Name: "phone", Description: "Phone number.", Required: true},
			{
				Name:        "professional_summary",
				Description: "A concise 3-4 line summary. If not present, write one from the work experience and skills. Escape line breaks with \\n.",
				Required:    true,
			},
			{Name: "github_portfolio", Description: "GitHub profile URL, if available."},
			{Name: "linkedin_id", Description: "LinkedIn profile URL."},
			{Name: "designation", Description: "Current or most recent job title.", Required: true},
			{Name: "certifications", Description: "All certifications combined into one comma-separated string."},
			{
				Name:        "skills",
				Description: "Only the top 10-15 technical skills explicitly mentioned in the resume, comma-separated, no duplicates, no soft skills.",
				Required:    true,
			},
			{
				Name:        "education",
				Type:        `[{"degree": "", "school": "", "location": "", "date": "", "gpa": "", "info": ""}]`,
				Description: "Array of objects in reverse chronological order.",
				Required:    true,
			},
			{
				Name:        "work_experience",
				Type:        `[{"company_name": "", "project_duration": "", "project_description": "", "role_name": "", "technologies": ""}]`,
				Description: "Array of objects in reverse chronological order.",
				Required:    true,
			},
			{
				Name:        "projects",
				Type:        `[{"project_name": "", "project_description": ""}]`,
				Description: "Summarized projects with descriptions.",
			},
			{
				Name:        "awards",
				Type:        `[""]`,
				Description: "Awards, achievements, scholarships or honors received.",
			},
		},
	}
}
