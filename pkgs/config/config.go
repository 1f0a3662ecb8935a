// Package config loads and validates the optional talyc.config.yaml
// project file: output directory, extra include search paths, and a
// target language-version string. Grounded in the teacher's
// load-then-validate pattern (core/types/validation.go): YAML is decoded
// to a generic map first, validated against a JSON Schema describing its
// shape, and only then unmarshaled into the typed Config struct.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Config is a project's talyc.config.yaml, once validated.
type Config struct {
	Out             string   `yaml:"out"`
	IncludePaths    []string `yaml:"include_paths"`
	LanguageVersion string   `yaml:"language_version"`
}

// DefaultFileName is the name of the config file talyc looks for next to
// the input module; the CLI has no option to name a different file.
const DefaultFileName = "talyc.config.yaml"

// schema describes the shape of talyc.config.yaml. It's kept as a plain
// map (rather than a struct with jsonschema tags) because
// jsonschema.Compiler.AddResource wants a JSON-Schema document, the same
// shape ValidationConfig's JSONSchema type marshals from in the teacher.
var schema = map[string]any{
	"$schema":              "https://json-schema.org/draft/2020-12/schema",
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"out": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"include_paths": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"language_version": map[string]any{
			"type": "string",
		},
	},
}

// Load reads, schema-validates, and decodes the config file at path. A
// missing file is not an error — talyc runs with built-in defaults — but
// every other failure (malformed YAML, a shape the schema rejects, an
// invalid language_version) is.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{Out: "./out"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var generic map[string]any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := validate(generic); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	if cfg.Out == "" {
		cfg.Out = "./out"
	}
	if cfg.LanguageVersion != "" && !isValidSemver(cfg.LanguageVersion) {
		return nil, fmt.Errorf("config: %s: language_version %q is not a valid semantic version", path, cfg.LanguageVersion)
	}

	return &cfg, nil
}

func validate(doc map[string]any) error {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	const url = "schema://talyc.config.json"
	if err := compiler.AddResource(url, toReader(schema)); err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}
	sch, err := compiler.Compile(url)
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return err
	}
	return nil
}

// toReader marshals a schema literal to JSON, the form
// jsonschema.Compiler.AddResource expects for a resource body.
func toReader(v any) io.Reader {
	b, err := json.Marshal(v)
	if err != nil {
		// schema is a compile-time literal; a marshal failure here would be
		// a programming error, not a runtime condition to recover from.
		panic(fmt.Sprintf("config: marshaling schema: %v", err))
	}
	return bytes.NewReader(b)
}

// isValidSemver checks a language_version string, accepting both the
// "v"-prefixed form golang.org/x/mod/semver requires and the bare form a
// project author would actually write in YAML.
func isValidSemver(v string) bool {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.IsValid(v)
}
