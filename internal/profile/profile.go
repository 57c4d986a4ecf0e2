package profile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Profile carries analysis settings loaded from an HCL file.
//
// Thresholds maps a report metric name to its minimum acceptable value;
// the application logs a warning for every metric that falls below its
// threshold after printing the report.
type Profile struct {
	Log        *LogSettings
	Thresholds map[string]float64
}

// LogSettings overrides the logging CLI flags when present. Empty fields
// leave the flag values untouched.
type LogSettings struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
}

// hclProfile is the top-level structure of a profile file for decoding.
type hclProfile struct {
	Log        *LogSettings   `hcl:"log,block"`
	Thresholds *hclThresholds `hcl:"thresholds,block"`
}

// hclThresholds keeps the block body undecoded: threshold names are metric
// keys, not a fixed schema, so they are read as generic attributes.
type hclThresholds struct {
	Body hcl.Body `hcl:",remain"`
}

// Load parses and validates a profile file.
func Load(path string) (*Profile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, diags)
	}

	var raw hclProfile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode profile %s: %w", path, diags)
	}

	p := &Profile{
		Log:        raw.Log,
		Thresholds: map[string]float64{},
	}

	if p.Log != nil {
		if err := validateLogSettings(p.Log); err != nil {
			return nil, fmt.Errorf("profile %s: %w", path, err)
		}
	}

	if raw.Thresholds != nil {
		attrs, diags := raw.Thresholds.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to read thresholds in %s: %w", path, diags)
		}
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to evaluate threshold %q: %w", name, diags)
			}
			num, err := convert.Convert(val, cty.Number)
			if err != nil {
				return nil, fmt.Errorf("threshold %q must be a number: %w", name, err)
			}
			var f float64
			if err := gocty.FromCtyValue(num, &f); err != nil {
				return nil, fmt.Errorf("threshold %q: %w", name, err)
			}
			p.Thresholds[name] = f
		}
	}

	return p, nil
}

func validateLogSettings(ls *LogSettings) error {
	switch ls.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", ls.Level)
	}
	switch ls.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be 'text' or 'json'", ls.Format)
	}
	return nil
}
