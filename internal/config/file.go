package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const fileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "rule":         {"type": "string", "minLength": 1},
    "n":            {"type": "integer", "minimum": 1, "maximum": 46340},
    "time":         {"type": "number", "minimum": 0},
    "runs":         {"type": "integer", "minimum": 1},
    "seed":         {"type": "integer"},
    "workers":      {"type": "integer", "minimum": 0},
    "policy":       {"enum": ["terminate", "restart"]},
    "skip_extinct": {"type": "boolean"},
    "picture":      {"type": "string"},
    "snapshot":     {"type": "string"},
    "frames":       {"type": "string"},
    "trace":        {"type": "string"},
    "db":           {"type": "string"},
    "chart":        {"type": "string"},
    "params": {
      "type": "object",
      "additionalProperties": {"type": ["string", "number", "boolean"]}
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("config.schema.json", fileSchema)

type fileRun struct {
	Rule        *string        `json:"rule"`
	Size        *int           `json:"n"`
	Horizon     *float64       `json:"time"`
	Runs        *int           `json:"runs"`
	Seed        *int64         `json:"seed"`
	Workers     *int           `json:"workers"`
	Policy      *string        `json:"policy"`
	SkipExtinct *bool          `json:"skip_extinct"`
	Picture     *string        `json:"picture"`
	Snapshot    *string        `json:"snapshot"`
	Frames      *string        `json:"frames"`
	Trace       *string        `json:"trace"`
	DB          *string        `json:"db"`
	Chart       *string        `json:"chart"`
	Params      map[string]any `json:"params"`
}

// LoadFile reads the YAML file at path into r. Keys absent from the file
// leave r unchanged.
func LoadFile(path string, r *Run) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := Decode(b, r); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Decode validates a YAML document against the configuration schema and
// applies it to r.
func Decode(b []byte, r *Run) error {
	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if raw == nil {
		return nil
	}
	// Round-trip through JSON so the validator sees JSON value types.
	js, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	var doc any
	if err := json.Unmarshal(js, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var f fileRun
	if err := json.Unmarshal(js, &f); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	setString(&r.Rule, f.Rule)
	setString(&r.Policy, f.Policy)
	setString(&r.Picture, f.Picture)
	setString(&r.Snapshot, f.Snapshot)
	setString(&r.Frames, f.Frames)
	setString(&r.Trace, f.Trace)
	setString(&r.DB, f.DB)
	setString(&r.Chart, f.Chart)
	if f.Size != nil {
		r.Size = *f.Size
	}
	if f.Horizon != nil {
		r.Horizon = *f.Horizon
	}
	if f.Runs != nil {
		r.Runs = *f.Runs
	}
	if f.Seed != nil {
		r.Seed = *f.Seed
	}
	if f.Workers != nil {
		r.Workers = *f.Workers
	}
	if f.SkipExtinct != nil {
		r.SkipExtinct = *f.SkipExtinct
	}
	if r.Params == nil {
		r.Params = map[string]string{}
	}
	for k, v := range f.Params {
		r.Params[k] = fmt.Sprint(v)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
