package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/workday-go/internal/utils"
)

const schemaURL = "workday://tasks.schema.json"

// bundledSchema describes tasks.json. Extra properties are allowed everywhere
// so that files written by a newer build still load.
const bundledSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Workday tasks",
  "type": "object",
  "properties": {
    "schema_version": { "type": "integer", "const": 1 },
    "session_start": { "type": ["string", "null"], "format": "date-time" },
    "contexts": {
      "type": "object",
      "additionalProperties": { "$ref": "#/$defs/board" }
    }
  },
  "$defs": {
    "board": {
      "type": "object",
      "properties": {
        "tasks": { "type": ["array", "null"], "items": { "$ref": "#/$defs/task" } },
        "active_log": { "type": "string" }
      }
    },
    "task": {
      "type": "object",
      "required": ["id", "title"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "title": { "type": "string", "minLength": 1 },
        "completed": { "type": "boolean" },
        "created_at": { "type": "string", "format": "date-time" },
        "completed_at": { "type": ["string", "null"], "format": "date-time" },
        "notes": { "type": "string" }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// BundledSchema returns the JSON schema for tasks.json.
func BundledSchema() []byte {
	return []byte(bundledSchema)
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, strings.NewReader(bundledSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Validate checks raw tasks.json content and returns every problem found.
// A nil result means the content would load.
func Validate(data []byte) []error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return []error{&ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)}}
	}
	problems := validateRaw(raw)
	if len(problems) > 0 {
		return problems
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return []error{&ValidationError{Err: err}}
	}
	return checkInvariants(&d)
}

// validateRaw runs the bundled schema against decoded JSON.
func validateRaw(raw interface{}) []error {
	s, err := compiledSchema()
	if err != nil {
		return []error{err}
	}
	err = s.Validate(raw)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []error{err}
	}
	var problems []error
	collectSchemaErrors(&problems, ve)
	return problems
}

func collectSchemaErrors(problems *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*problems = append(*problems, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(problems, cause)
	}
}

// checkInvariants reports what the schema cannot express: task ids must be
// unique within their context.
func checkInvariants(d *Document) []error {
	keys := make([]Context, 0, len(d.Contexts))
	for c := range d.Contexts {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var problems []error
	for _, c := range keys {
		b := d.Contexts[c]
		if b == nil {
			continue
		}
		seen := make(map[string]int, len(b.Tasks))
		for i, t := range b.Tasks {
			if first, dup := seen[t.ID]; dup {
				problems = append(problems, &ValidationError{
					Path: fmt.Sprintf("contexts.%s.tasks[%d].id", c, i),
					Err:  fmt.Errorf("duplicate id %q (first at tasks[%d])", t.ID, first),
				})
				continue
			}
			seen[t.ID] = i
		}
	}
	return problems
}
