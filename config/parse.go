package config

import (
	"log/slog"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/turbot/tailpipe-plugin-excel/reader_errors"
)

// ParseConfig decodes HCL config into target.
func ParseConfig[T any](configString []byte, filename string, target *T) error {
	// parse the config
	file, diags := hclsyntax.ParseConfig(configString, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		slog.Error("ParseConfig: Failed to parse config into hcl file", "diags", diags)
		return diagsToError("failed to parse config", filename, diags)
	}
	// create empty eval context
	evalCtx := &hcl.EvalContext{
		Variables: make(map[string]cty.Value),
		Functions: make(map[string]function.Function),
	}
	// decode the body into the target struct
	moreDiags := gohcl.DecodeBody(file.Body, evalCtx, target)
	diags = append(diags, moreDiags...)
	if diags.HasErrors() {
		slog.Error("ParseConfig: Failed to decode config body", "diags", diags)
		return diagsToError("failed to parse config", filename, diags)
	}
	return nil
}

// Parse decodes, resolves and validates a reader configuration.
func Parse(configString []byte, filename string) (*ReaderConfig, error) {
	var c ReaderConfig
	if err := ParseConfig(configString, filename, &c); err != nil {
		return nil, err
	}
	if err := c.Resolve(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads, resolves and validates the reader configuration at path.
func LoadFile(path string) (*ReaderConfig, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// DecodeFile reads the reader configuration at path without resolving or validating it,
// so that callers can apply overrides first.
func DecodeFile(path string) (*ReaderConfig, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var c ReaderConfig
	if err := ParseConfig(data, path, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, reader_errors.Wrap(reader_errors.InvalidConfig, path, err, "cannot read config file [%s]", path)
	}
	return data, nil
}

func diagsToError(prefix, filename string, diags hcl.Diagnostics) error {
	return reader_errors.Wrap(reader_errors.InvalidConfig, filename, diags, "%s", prefix)
}
