package dataset

import (
	"fmt"
	"os"
	"path/filepath"
)

// JSON Schemas (draft-07) for the files a dataset tree contains. They
// are written alongside the items so the tree stays self-describing.

const metaSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "ItemMeta",
  "type": "object",
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "category": {"type": "string", "enum": ["CF", "CFG", "DI", "DOC", "IMS"]},
    "created_at": {"type": "string"},
    "blacklist_passed": {"type": "boolean"},
    "moderation_passed": {"type": "boolean"},
    "notes": {"type": "string"}
  },
  "required": ["id", "category", "created_at", "blacklist_passed", "moderation_passed"],
  "additionalProperties": false
}`

const checksSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "ItemChecks",
  "type": "object",
  "properties": {
    "contains": {"type": "string", "minLength": 1}
  },
  "required": ["contains"],
  "additionalProperties": false
}`

const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Manifest",
  "type": "object",
  "properties": {
    "version": {"type": "string"},
    "count": {"type": "integer", "minimum": 0},
    "categories": {
      "type": "array",
      "items": {"type": "string", "enum": ["CF", "CFG", "DI", "DOC", "IMS"]}
    },
    "items": {"type": "array", "items": {"type": "string", "minLength": 1}}
  },
  "required": ["version", "count", "categories", "items"],
  "additionalProperties": false
}`

var schemaFiles = map[string]string{
	"meta.schema.json":     metaSchema,
	"checks.schema.json":   checksSchema,
	"manifest.schema.json": manifestSchema,
}

// WriteSchemas materializes the schema files under root/schemas.
func WriteSchemas(root string) error {
	dir := filepath.Join(root, "schemas")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("dataset: create schema dir: %w", err)
	}
	for name, body := range schemaFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			return fmt.Errorf("dataset: write %s: %w", name, err)
		}
	}
	return nil
}
