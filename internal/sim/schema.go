package sim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// snapshotSchema is the structural contract for externally-supplied node
// documents. Validation runs before any field is read, so a malformed
// document never reaches the rebuild path half-parsed.
const snapshotSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://talgya.github.io/macroverse/snapshot.schema.json",
  "type": "object",
  "required": ["id", "name", "tier", "mode", "time_scale", "population",
               "production", "consumption", "stockpile", "stability", "tech",
               "guilds", "scientist_tiers"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string"},
    "tier": {"enum": ["galaxy", "sector", "system", "planet",
                      "gigasegment", "megasegment", "tile"]},
    "mode": {"enum": ["abstract", "semi_active", "active"]},
    "tick": {"type": "number", "minimum": 0},
    "time_scale": {"type": "number", "exclusiveMinimum": 0},
    "address": {"type": "object"},
    "population": {
      "type": "object",
      "required": ["total", "capacity"],
      "properties": {
        "total": {"type": "number", "minimum": 0},
        "capacity": {"type": "number", "exclusiveMinimum": 0}
      }
    },
    "production": {"$ref": "#/$defs/pairs"},
    "consumption": {"$ref": "#/$defs/pairs"},
    "stockpile": {"$ref": "#/$defs/pairs"},
    "guilds": {"$ref": "#/$defs/pairs"},
    "scientist_tiers": {"$ref": "#/$defs/pairs"},
    "stability": {
      "type": "object",
      "properties": {
        "economic": {"$ref": "#/$defs/score"},
        "social": {"$ref": "#/$defs/score"},
        "infrastructure": {"$ref": "#/$defs/score"},
        "happiness": {"$ref": "#/$defs/score"},
        "overall": {"$ref": "#/$defs/score"}
      }
    },
    "tech": {
      "type": "object",
      "required": ["level"],
      "properties": {
        "level": {"type": "integer", "minimum": 0, "maximum": 10},
        "progress": {"type": "number", "minimum": 0, "maximum": 100}
      }
    },
    "children": {
      "type": "array",
      "items": {"$ref": "#"}
    }
  },
  "$defs": {
    "pairs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["key", "value"],
        "properties": {
          "key": {"type": "string"},
          "value": {"type": "number"}
        }
      }
    },
    "score": {"type": "number", "minimum": 0, "maximum": 100}
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func validateDocument(data []byte) error {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString("snapshot.schema.json", snapshotSchema)
	})
	if schemaErr != nil {
		return fmt.Errorf("compile snapshot schema: %w", schemaErr)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}
