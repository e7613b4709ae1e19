package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const EnvironmentVariablePrefix = "BRICKSMITH_"

// SetFlagsFromEnvVariables sets each unset flag from an environment variable
// named after the flag, e.g. --agent-name from BRICKSMITH_AGENT_NAME. A
// variable suffixed _FILE instead names a file whose contents provide the
// value, so secrets can be mounted on disk rather than exported.
func SetFlagsFromEnvVariables(fs *pflag.FlagSet) error {
	var result error
	fs.VisitAll(func(f *pflag.Flag) {
		if result != nil || f.Changed {
			return
		}
		envVar := flagToEnvVarName(f)
		if val, present := os.LookupEnv(envVar); present {
			if err := fs.Set(f.Name, val); err != nil {
				result = fmt.Errorf("setting flag %s from %s: %w", f.Name, envVar, err)
			}
			return
		}
		if path, present := os.LookupEnv(envVar + "_FILE"); present {
			contents, err := os.ReadFile(path)
			if err != nil {
				result = fmt.Errorf("reading %s: %w", envVar+"_FILE", err)
				return
			}
			if err := fs.Set(f.Name, strings.TrimSpace(string(contents))); err != nil {
				result = fmt.Errorf("setting flag %s from %s: %w", f.Name, envVar+"_FILE", err)
			}
		}
	})
	return result
}

func flagToEnvVarName(f *pflag.Flag) string {
	return fmt.Sprintf("%s%s", EnvironmentVariablePrefix, strings.ReplaceAll(strings.ToUpper(f.Name), "-", "_"))
}
