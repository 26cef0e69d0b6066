package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteXML(t *testing.T) {
	repl := newReplacer(map[string]string{
		PlaceholderName:           "Jane & Co",
		PlaceholderWorkExperience: "Engineer\n  - Built X",
		PlaceholderEmail:          "jane@example.com",
	})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single run",
			input: `<w:p><w:r><w:t>Hello {NAME}</w:t></w:r></w:p>`,
			want:  `<w:p><w:r><w:t xml:space="preserve">Hello Jane &amp; Co</w:t></w:r></w:p>`,
		},
		{
			name:  "existing attributes kept",
			input: `<w:p><w:r><w:t xml:space="preserve">{EMAIL} </w:t></w:r></w:p>`,
			want:  `<w:p><w:r><w:t xml:space="preserve">jane@example.com </w:t></w:r></w:p>`,
		},
		{
			name:  "token split across runs merges into first run",
			input: `<w:p><w:r><w:t>{NA</w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>ME}</w:t></w:r></w:p>`,
			want:  `<w:p><w:r><w:t xml:space="preserve">Jane &amp; Co</w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve"></w:t></w:r></w:p>`,
		},
		{
			name:  "paragraph properties are not paragraphs",
			input: `<w:p><w:pPr><w:jc w:val="left"/></w:pPr><w:r><w:t>{EM</w:t></w:r><w:r><w:t>AIL}</w:t></w:r></w:p>`,
			want:  `<w:p><w:pPr><w:jc w:val="left"/></w:pPr><w:r><w:t xml:space="preserve">jane@example.com</w:t></w:r><w:r><w:t xml:space="preserve"></w:t></w:r></w:p>`,
		},
		{
			name:  "newlines become breaks",
			input: `<w:p><w:r><w:t>{WORK_EXPERIENCE}</w:t></w:r></w:p>`,
			want:  `<w:p><w:r><w:t xml:space="preserve">Engineer</w:t><w:br/><w:t xml:space="preserve">  - Built X</w:t></w:r></w:p>`,
		},
		{
			name:  "escaped text round trips",
			input: `<w:p><w:r><w:t>R&amp;D {EMAIL}</w:t></w:r></w:p>`,
			want:  `<w:p><w:r><w:t xml:space="preserve">R&amp;D jane@example.com</w:t></w:r></w:p>`,
		},
		{
			name:  "untouched without placeholders",
			input: `<w:p><w:r><w:tab/><w:t>R&amp;D</w:t></w:r></w:p><w:p/><w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`,
			want:  `<w:p><w:r><w:tab/><w:t>R&amp;D</w:t></w:r></w:p><w:p/><w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`,
		},
		{
			name:  "empty self-closing run with attributes is left alone",
			input: `<w:p><w:r><w:t xml:space="preserve"/></w:r><w:r><w:t>{NAME}</w:t></w:r></w:p>`,
			want:  `<w:p><w:r><w:t xml:space="preserve"/></w:r><w:r><w:t xml:space="preserve">Jane &amp; Co</w:t></w:r></w:p>`,
		},
		{
			name:  "self-closing run between split token halves",
			input: `<w:p><w:r><w:t>{EM</w:t></w:r><w:r><w:t xml:space="preserve"/></w:r><w:r><w:t>AIL}</w:t></w:r></w:p>`,
			want:  `<w:p><w:r><w:t xml:space="preserve">jane@example.com</w:t></w:r><w:r><w:t xml:space="preserve"/></w:r><w:r><w:t xml:space="preserve"></w:t></w:r></w:p>`,
		},
		{
			name:  "open tag with trailing space",
			input: `<w:p><w:r><w:t >{EMAIL}</w:t></w:r></w:p>`,
			want:  `<w:p><w:r><w:t xml:space="preserve" >jane@example.com</w:t></w:r></w:p>`,
		},
		{
			name:  "text box paragraph nested in a paragraph",
			input: `<w:p><w:r><w:t>{EMAIL}</w:t></w:r><w:r><w:txbxContent><w:p><w:r><w:t>{NA</w:t></w:r><w:r><w:t>ME}</w:t></w:r></w:p></w:txbxContent></w:r></w:p>`,
			want:  `<w:p><w:r><w:t xml:space="preserve">jane@example.com</w:t></w:r><w:r><w:txbxContent><w:p><w:r><w:t xml:space="preserve">Jane &amp; Co</w:t></w:r><w:r><w:t xml:space="preserve"></w:t></w:r></w:p></w:txbxContent></w:r></w:p>`,
		},
		{
			name:  "text outside paragraphs",
			input: `<w:hdr><w:sdt><w:r><w:t>{EMAIL}</w:t></w:r></w:sdt></w:hdr>`,
			want:  `<w:hdr><w:sdt><w:r><w:t xml:space="preserve">jane@example.com</w:t></w:r></w:sdt></w:hdr>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, substituteXML(tt.input, repl))
		})
	}
}

func TestLeafParagraphs(t *testing.T) {
	xml := `<w:body><w:p><w:r><w:t>a</w:t></w:r></w:p><w:p/><w:p w:rsidR="1"><w:txbxContent><w:p>b</w:p></w:txbxContent></w:p></w:body>`

	spans := leafParagraphs(xml)
	if assert.Len(t, spans, 2) {
		assert.Equal(t, `<w:p><w:r><w:t>a</w:t></w:r></w:p>`, xml[spans[0].start:spans[0].end])
		assert.Equal(t, `<w:p>b</w:p>`, xml[spans[1].start:spans[1].end])
	}
}

func TestIsParagraphOpen(t *testing.T) {
	assert.True(t, isParagraphOpen("<w:p>"))
	assert.True(t, isParagraphOpen(`<w:p w:rsidR="00A1">`))
	assert.True(t, isParagraphOpen("<w:p/>"))
	assert.False(t, isParagraphOpen("<w:pPr>"))
	assert.False(t, isParagraphOpen("<w:pStyle/>"))
	assert.False(t, isParagraphOpen("<w:p"))
}
