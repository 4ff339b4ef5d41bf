package config

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/yapb/amxx-release/internal/validator"
)

// FileSchemaID identifies the JSON Schema that .amxx-release.yml must satisfy.
const FileSchemaID = "https://github.com/yapb/amxx-release/config.schema.json"

// FileSchema is the JSON Schema for the optional configuration file.
const FileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "https://github.com/yapb/amxx-release/config.schema.json",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "repository": {
      "type": "string",
      "pattern": "^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$"
    },
    "apiUrl": {
      "type": "string",
      "pattern": "^https?://"
    },
    "uploadUrl": {
      "type": "string",
      "pattern": "^https?://"
    },
    "releaseNamePrefix": {
      "type": "string"
    },
    "workDir": {
      "type": "string",
      "minLength": 1
    },
    "distDir": {
      "type": "string",
      "minLength": 1
    }
  }
}`

// compileFileSchema registers and compiles FileSchema with the given compiler.
func compileFileSchema(compiler validator.Compiler) (validator.Validator, error) {
	return compileSchema(compiler, FileSchemaID, FileSchema)
}

// compileSchema compiles schema under id after checking that compiler
// understands the draft named by its $schema keyword.
func compileSchema(compiler validator.Compiler, id, schema string) (validator.Validator, error) {
	draft := validator.Draft(gjson.Get(schema, "$schema").String())
	if !slices.Contains(compiler.SupportedSchemaVersions(), draft) {
		return nil, &UnsupportedDraftError{Draft: draft}
	}

	doc, err := decodeJSON([]byte(schema))
	if err != nil {
		return nil, err
	}
	if err = compiler.AddSchema(id, doc); err != nil {
		return nil, err
	}
	return compiler.Compile(id)
}

// yamlToJSONDocument converts a yaml document into the generic form produced by
// encoding/json so that it can be handed to a validator.
func yamlToJSONDocument(data []byte) (validator.JSONDocument, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return map[string]interface{}{}, nil
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return decodeJSON(b)
}

func decodeJSON(data []byte) (validator.JSONDocument, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}
