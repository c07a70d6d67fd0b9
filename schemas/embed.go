// Package schemas holds the JSON Schemas of the documents exchanged with clients and the LLM.
package schemas

import _ "embed"

// Resume is the schema of a ResumeDocument as accepted by import, validate and save.
//
//go:embed resume.schema.json
var Resume []byte

// TailoringPatch is the schema of the tailoring response returned by the LLM.
//
//go:embed tailoring_patch.schema.json
var TailoringPatch []byte
