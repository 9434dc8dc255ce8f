package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const recordSchemaSrc = `{
  "type": "object",
  "required": ["id", "title"],
  "properties": {
    "id":          {"type": "integer"},
    "title":       {"type": "string"},
    "description": {"type": "string"},
    "completed":   {"type": "boolean"}
  }
}`

var (
	todoSchema     = jsonschema.MustCompileString("todo.schema.json", recordSchemaSrc)
	todoListSchema = jsonschema.MustCompileString("todos.schema.json",
		`{"type": ["array", "null"], "items": `+recordSchemaSrc+`}`)
)

// ErrBadPayload marks a 2xx response whose body does not look like todos.
var ErrBadPayload = errors.New("unexpected response payload")

func validate(schema *jsonschema.Schema, body []byte) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s", ErrBadPayload, schemaMessages(err))
	}
	return nil
}

// schemaMessages flattens a validation error tree into "path: message" lines.
func schemaMessages(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	var out []string
	collect(ve, &out)
	return strings.Join(out, "; ")
}

func collect(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, loc+": "+ve.Message)
		return
	}
	for _, c := range ve.Causes {
		collect(c, out)
	}
}
