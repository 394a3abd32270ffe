package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	domainconfig "github.com/felixgeelhaar/agent-shell/domain/config"
)

var (
	// ${VAR}, ${VAR:-default}, ${VAR:?error}
	bracketPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*|:\?[^}]*)?\}`)

	// $VAR
	simplePattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// LookupFunc resolves a variable. It mirrors os.LookupEnv.
type LookupFunc func(name string) (string, bool)

// envExpander expands environment variables in configuration strings.
type envExpander struct {
	// lookup resolves variables, os.LookupEnv when nil.
	lookup LookupFunc
	// strict fails if a referenced variable is not set.
	strict bool
	// missing tracks missing environment variables.
	missing []string
}

// Expand expands environment variables in the input string.
// Supported patterns:
//   - ${VAR} - expands to the value of VAR
//   - ${VAR:-default} - expands to VAR or "default" if not set
//   - ${VAR:?error message} - fails if VAR is not set
//   - $VAR - simple expansion (not recommended, use ${VAR})
func (e *envExpander) Expand(input string) (string, error) {
	e.missing = nil
	lookup := e.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	result := bracketPattern.ReplaceAllStringFunc(input, func(match string) string {
		inner := match[2 : len(match)-1]

		varName, modifier, _ := strings.Cut(inner, ":")
		value, exists := lookup(varName)

		switch {
		case strings.HasPrefix(modifier, "-"):
			if !exists || value == "" {
				return modifier[1:]
			}
		case strings.HasPrefix(modifier, "?"):
			if !exists || value == "" {
				e.missing = append(e.missing, fmt.Sprintf("%s: %s", varName, modifier[1:]))
				return match
			}
		case !exists:
			if e.strict {
				e.missing = append(e.missing, varName)
			}
			return ""
		}

		return value
	})

	result = simplePattern.ReplaceAllStringFunc(result, func(match string) string {
		varName := match[1:]
		value, exists := lookup(varName)
		if !exists {
			if e.strict {
				e.missing = append(e.missing, varName)
			}
			return ""
		}
		return value
	})

	if len(e.missing) > 0 {
		return "", fmt.Errorf("%w: %s", domainconfig.ErrMissingEnvVar, strings.Join(e.missing, ", "))
	}

	return result, nil
}

// ExpandEnv is a convenience function that expands environment variables.
func ExpandEnv(input string) string {
	e := &envExpander{}
	result, _ := e.Expand(input)
	return result
}

// ExpandEnvStrict expands environment variables and returns an error for missing vars.
func ExpandEnvStrict(input string) (string, error) {
	e := &envExpander{strict: true}
	return e.Expand(input)
}

// ExpandWith expands variables resolved by lookup instead of the process environment.
func ExpandWith(input string, lookup LookupFunc, strict bool) (string, error) {
	e := &envExpander{lookup: lookup, strict: strict}
	return e.Expand(input)
}

// MapLookup adapts a map to a LookupFunc.
func MapLookup(vars map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}
