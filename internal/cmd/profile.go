package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"
)

// SetFlagsFromProfile applies defaults from a YAML profile whose keys are
// flag names. Flags already set on the command line or from the environment
// take precedence. A key naming no known flag is an error.
func SetFlagsFromProfile(fs *pflag.FlagSet, path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading profile: %w", err)
	}
	var profile map[string]any
	if err := yaml.Unmarshal(contents, &profile); err != nil {
		return fmt.Errorf("parsing profile %s: %w", path, err)
	}
	for name, value := range profile {
		f := fs.Lookup(name)
		if f == nil {
			return fmt.Errorf("unknown flag in profile %s: %s", path, name)
		}
		if f.Changed {
			continue
		}
		if err := fs.Set(name, fmt.Sprintf("%v", value)); err != nil {
			return fmt.Errorf("setting flag %s from profile: %w", name, err)
		}
	}
	return nil
}
