// Package schemas holds the JSON Schema documents shipped with the binary.
package schemas

import "embed"

// ResumeRecord is the file name of the resume record schema.
const ResumeRecord = "resume_record.schema.json"

// Files contains every *.schema.json in this directory.
//
//go:embed *.schema.json
var Files embed.FS
