package subject

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// fileValidate is the validator instance for subject files.
var fileValidate = validator.New()

// File is the on-disk layout of a subjects YAML file.
type File struct {
	Subjects map[string]*Profile `yaml:"subjects" validate:"dive,keys,required,max=64,endkeys,required"`
}

// Parse decodes a subjects file and merges it over the built-in catalog.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse subjects: %w", err)
	}
	if err := fileValidate.Struct(f); err != nil {
		return nil, fmt.Errorf("validate subjects: %w", err)
	}

	c := Builtin()
	c.merge(f.Subjects)
	return c, nil
}

// Load reads a subjects file. A missing file yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Builtin(), nil
		}
		return nil, fmt.Errorf("read subjects file: %w", err)
	}
	return Parse(data)
}

// DefaultPath resolves the subjects file path in priority order:
// 1. MATHADV_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/mathadventures/subjects.yaml
// 3. ~/.config/mathadventures/subjects.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv("MATHADV_CONFIG"); p != "" {
		return p, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "mathadventures", "subjects.yaml"), nil
}
