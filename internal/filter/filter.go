// Package filter narrows a tracked-file list by configurable path rules.
package filter

import (
	"strings"

	"github.com/bitshepherds/codefmt/internal/config"
)

// Rules holds the include/exclude predicates applied to each path.
type Rules struct {
	IncludeEndsWith       []string
	ExcludePathContains   []string
	ExcludePathEndsWith   []string
	ExcludePathStartsWith []string
}

// RulesFromConfig extracts the filter rules from a resolved configuration.
func RulesFromConfig(cfg *config.Config) Rules {
	return Rules{
		IncludeEndsWith:       cfg.IncludeEndsWith,
		ExcludePathContains:   cfg.ExcludePathContains,
		ExcludePathEndsWith:   cfg.ExcludePathEndsWith,
		ExcludePathStartsWith: cfg.ExcludePathStartsWith,
	}
}

// Apply returns the paths that qualify under the given rules, preserving
// input order. A path qualifies only if it ends with at least one
// IncludeEndsWith suffix, so an empty suffix set retains nothing.
// Exclusions match anywhere in the path, including position zero.
func Apply(paths []string, r Rules) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if Qualifies(p, r) {
			out = append(out, p)
		}
	}
	return out
}

// Qualifies reports whether a single path passes the rules.
func Qualifies(path string, r Rules) bool {
	included := false
	for _, suffix := range r.IncludeEndsWith {
		if strings.HasSuffix(path, suffix) {
			included = true
			break
		}
	}
	if !included {
		return false
	}

	for _, sub := range r.ExcludePathContains {
		if strings.Contains(path, sub) {
			return false
		}
	}
	for _, suffix := range r.ExcludePathEndsWith {
		if strings.HasSuffix(path, suffix) {
			return false
		}
	}
	for _, prefix := range r.ExcludePathStartsWith {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}
