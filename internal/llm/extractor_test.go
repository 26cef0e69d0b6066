package llm

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeSchema_RequiredFields(t *testing.T) {
	schema := ResumeSchema()

	assert.Equal(t, "ResumeRecord", schema.Name)
	assert.Equal(t, []string{
		"full_name", "email_id", "phone", "professional_summary",
		"designation", "skills", "education", "work_experience",
	}, schema.RequiredFields())
}

func TestBuildSchemaBlock_ContainsEveryField(t *testing.T) {
	schema := ResumeSchema()
	block := BuildSchemaBlock(schema)

	for _, field := range schema.Fields {
		assert.Contains(t, block, "- "+field.Name+":")
		assert.Contains(t, block, `"`+field.Name+`": `)
	}
	assert.Contains(t, block, "(required)")
}

func TestBuildSchemaBlock_StructureIsValidJSON(t *testing.T) {
	block := BuildSchemaBlock(ResumeSchema())

	idx := strings.Index(block, "JSON structure:\n")
	require.GreaterOrEqual(t, idx, 0)
	structure := block[idx+len("JSON structure:\n"):]

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(structure), &decoded))
	assert.Len(t, decoded, len(ResumeSchema().Fields))
	assert.IsType(t, []any{}, decoded["work_experience"])
}

func TestBuildSchemaBlock_DefaultTypeHint(t *testing.T) {
	block := BuildSchemaBlock(ExtractionSchema{
		Fields: []SchemaField{{Name: "only", Description: "single field"}},
	})
	assert.Contains(t, block, "\"only\": \"\"\n}")
}
