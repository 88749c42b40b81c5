package discovery

import (
	"path"
	"strings"

	"attrsync/internal/config"
)

// Filter drops descriptors the run should not touch: private repositories and
// forks unless explicitly included, plus anything excluded by name patterns.
func Filter(descriptors []Descriptor, cfg *config.Config) []Descriptor {
	if cfg == nil {
		panic("discovery.Filter: cfg must not be nil")
	}

	includePatterns := cfg.Targeting.Include
	excludePatterns := cfg.Targeting.Exclude

	var filtered []Descriptor
	for _, d := range descriptors {
		if d.Private && !cfg.Targeting.IncludePrivate {
			continue
		}
		if d.Fork && !cfg.Targeting.IncludeForks {
			continue
		}

		// If Include is set, must match at least one.
		if len(includePatterns) > 0 && !matchesAnyPattern(includePatterns, d.FullName(), d.Name) {
			continue
		}
		// If Exclude is set, must not match any.
		if len(excludePatterns) > 0 && matchesAnyPattern(excludePatterns, d.FullName(), d.Name) {
			continue
		}

		filtered = append(filtered, d)
	}

	return filtered
}

func matchesAnyPattern(patterns []string, fullName, repoName string) bool {
	for _, p := range patterns {
		if matchPattern(p, fullName, repoName) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, fullName, repoName string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}
	// If the pattern includes an owner component (contains '/'), match against
	// the full name. Otherwise match against the repo name only so patterns
	// like "*-service" work without spelling out the owner.
	if strings.Contains(pattern, "/") {
		matched, _ := path.Match(pattern, fullName)
		return matched
	}
	matched, _ := path.Match(pattern, repoName)
	return matched
}
