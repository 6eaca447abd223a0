package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"property-mapper/access"
	"property-mapper/internal/diagnostic"
	"property-mapper/mapper"
)

// File permission used by WriteFile.
const filePerm = 0o644

// File is a mapping configuration file.
type File struct {
	Version    string            `yaml:"version"`
	AccessMode access.AccessMode `yaml:"access_mode,omitempty"`
	Classes    []Class           `yaml:"classes,omitempty"`
}

// Class holds the settings of one mapped class.
type Class struct {
	Type       string            `yaml:"type"`
	AccessMode access.AccessMode `yaml:"access_mode,omitempty"`
	Ignore     []string          `yaml:"ignore,omitempty"`
	Columns    map[string]string `yaml:"columns,omitempty"`
}

// LoadFile loads and parses a YAML configuration file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	if f.AccessMode == 0 {
		f.AccessMode = access.Both
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// Validate checks the file for structural problems.
func (f *File) Validate() diagnostic.Diagnostics {
	var d diagnostic.Diagnostics

	if f.Version != "1" {
		d.AddError(diagnostic.CodeUnsupportedVersion, fmt.Sprintf("unsupported config version %q", f.Version), "", "")
	}

	seen := make(map[string]bool)

	for i, c := range f.Classes {
		if c.Type == "" {
			d.AddError(diagnostic.CodeMissingType, fmt.Sprintf("classes[%d] has no type", i), "", "")
			continue
		}

		if seen[c.Type] {
			d.AddError(diagnostic.CodeDuplicateClass, "class is configured more than once", c.Type, "")
		}

		seen[c.Type] = true
	}

	return d
}

// Class returns the settings of the named class.
func (f *File) Class(name string) (*Class, bool) {
	for i := range f.Classes {
		if f.Classes[i].Type == name {
			return &f.Classes[i], true
		}
	}

	return nil, false
}

// Mode returns the access mode for the named class: its own mode when set,
// otherwise the file mode.
func (f *File) Mode(name string) access.AccessMode {
	if c, ok := f.Class(name); ok && c.AccessMode != 0 {
		return c.AccessMode
	}

	if f.AccessMode == 0 {
		return access.Both
	}

	return f.AccessMode
}

// Strategy returns base (access.Default when nil) enforcing the mode of the
// named class.
func (f *File) Strategy(name string, base access.Strategy) access.Strategy {
	return access.WithMode(base, f.Mode(name))
}

// Options returns the mapper options of the named class.
func (f *File) Options(name string) []mapper.Option {
	c, ok := f.Class(name)
	if !ok {
		return nil
	}

	var opts []mapper.Option

	if len(c.Ignore) > 0 {
		opts = append(opts, mapper.WithIgnore(c.Ignore...))
	}

	if len(c.Columns) > 0 {
		opts = append(opts, mapper.WithColumns(c.Columns))
	}

	return opts
}
