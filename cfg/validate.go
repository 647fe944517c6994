package cfg

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dchest/uniuri"
)

// A ValidationError reports every problem found with the configuration, not
// just the first.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Problems)+1)
	lines = append(lines, "invalid runner configuration:")
	for _, p := range e.Problems {
		lines = append(lines, fmt.Sprintf("  - %s", p))
	}
	return strings.Join(lines, "\n")
}

// Validate checks the configuration and fills in the derived settings: the
// generated runner name and the normalized label set.  On failure it returns
// a *ValidationError listing every missing or malformed setting.  The
// credential value never appears in the error text.
func (runnercfg *RunnerConfig) Validate() error {
	problems := append([]string{}, runnercfg.envProblems...)

	if runnercfg.Credential == "" {
		problems = append(problems, fmt.Sprintf("no credential is configured (set %s)", EnvCredential))
	}

	switch {
	case runnercfg.Repository != "" && runnercfg.Organization != "":
		problems = append(problems, fmt.Sprintf("at most one of %s and %s may be set", EnvRepository, EnvOrganization))
	case runnercfg.Repository == "" && runnercfg.Organization == "":
		problems = append(problems, fmt.Sprintf("one of %s and %s is required", EnvRepository, EnvOrganization))
	case runnercfg.Repository != "":
		if bits := strings.Split(runnercfg.Repository, "/"); len(bits) != 2 || bits[0] == "" || bits[1] == "" {
			problems = append(problems, fmt.Sprintf("%s must have the form owner/name, got %q", EnvRepository, runnercfg.Repository))
		}
	}

	if runnercfg.ControlPlaneURL == "" {
		problems = append(problems, fmt.Sprintf("%s must not be empty", EnvControlPlaneURL))
	}

	if len(problems) != 0 {
		return &ValidationError{Problems: problems}
	}

	if runnercfg.Name == "" {
		runnercfg.Name = generatedRunnerName()
	}

	if runnercfg.Group == "" {
		runnercfg.Group = "default"
	}
	if runnercfg.WorkDir == "" {
		runnercfg.WorkDir = "_work"
	}

	runnercfg.Labels = normalizeLabels(runnercfg.Labels)
	runnercfg.ControlPlaneURL = strings.TrimRight(runnercfg.ControlPlaneURL, "/")

	return nil
}

// Scope returns the registration target.  Only valid after Validate has
// passed.
func (runnercfg *RunnerConfig) Scope() Scope {
	if runnercfg.Organization != "" {
		return OrganizationScope(runnercfg.Organization)
	}
	bits := strings.SplitN(runnercfg.Repository, "/", 2)
	return RepositoryScope(bits[0], bits[1])
}

// The generated name is the hostname with a random suffix, so that several
// runners started from the same image do not collide at the control plane.
func generatedRunnerName() string {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "runner"
	}
	return hostname + "-" + strings.ToLower(uniuri.NewLen(6))
}

// Labels are a set: order is irrelevant and duplicates collapse.  An empty
// set falls back to the default "linux" label.
func normalizeLabels(labels []string) []string {
	seen := map[string]bool{}
	normalized := []string{}
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		normalized = append(normalized, label)
	}
	if len(normalized) == 0 {
		return []string{"linux"}
	}
	sort.Strings(normalized)
	return normalized
}
