package boot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yoanbernabeu/frankenboot/internal/config"
)

// EnvRequirement describes an application setting that should be set
// explicitly before serving production traffic.
type EnvRequirement struct {
	Name        string
	Description string
	// Unsafe reports whether the current value is insecure. A nil Unsafe
	// only requires the variable to be set.
	Unsafe func(value string) bool
}

// EnvCheckResult holds the result of environment variable checking
type EnvCheckResult struct {
	Missing []EnvRequirement
	Unsafe  []EnvRequirement
	Present []string
}

// OK reports whether every requirement is satisfied
func (r *EnvCheckResult) OK() bool {
	return len(r.Missing) == 0 && len(r.Unsafe) == 0
}

// ProductionEnvRequirements lists the Django settings whose development
// fallbacks are unsafe in production.
var ProductionEnvRequirements = []EnvRequirement{
	{
		Name:        "SECRET_KEY",
		Description: "Django signing key",
		Unsafe: func(v string) bool {
			return v == "unsafe-secret-key" || len(v) < 32
		},
	},
	{
		Name:        "DEBUG",
		Description: "must be false in production",
		Unsafe: func(v string) bool {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			return err != nil || b
		},
	},
	{
		Name:        "ALLOWED_HOSTS",
		Description: "hosts served by the application",
		Unsafe: func(v string) bool {
			for _, h := range strings.Split(v, ",") {
				if strings.TrimSpace(h) == "*" {
					return true
				}
			}
			return false
		},
	},
}

// CheckEnv verifies the production requirements against lookup.
// Nothing is required in development.
func CheckEnv(mode config.Mode, lookup func(string) (string, bool)) *EnvCheckResult {
	result := &EnvCheckResult{}
	if mode != config.ModeProduction {
		return result
	}

	for _, req := range ProductionEnvRequirements {
		value, ok := lookup(req.Name)
		switch {
		case !ok || value == "":
			result.Missing = append(result.Missing, req)
		case req.Unsafe != nil && req.Unsafe(value):
			result.Unsafe = append(result.Unsafe, req)
		default:
			result.Present = append(result.Present, req.Name)
		}
	}

	return result
}

// FormatEnvCheck renders the findings as one line per variable
func FormatEnvCheck(result *EnvCheckResult) []string {
	var lines []string
	for _, req := range result.Missing {
		lines = append(lines, fmt.Sprintf("%s is not set (%s)", req.Name, req.Description))
	}
	for _, req := range result.Unsafe {
		lines = append(lines, fmt.Sprintf("%s has an unsafe value (%s)", req.Name, req.Description))
	}
	return lines
}
