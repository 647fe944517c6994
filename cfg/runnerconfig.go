package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mcuadros/go-defaults"
	"gopkg.in/yaml.v3"
)

// RunnerConfig defines the configuration for start-runner.  Values are read
// from an optional YAML config file, with environment variables taking
// precedence.  See the usage string for field descriptions.
type RunnerConfig struct {
	// Credential is the durable secret used to authenticate to the control
	// plane.  It is never logged.
	Credential string `yaml:"credential"`

	// Exactly one of Repository ("owner/name") and Organization must be set.
	Repository   string `yaml:"repository"`
	Organization string `yaml:"organization"`

	Name            string   `yaml:"name"`
	Labels          []string `yaml:"labels"`
	Group           string   `yaml:"group" default:"default"`
	WorkDir         string   `yaml:"workDir" default:"_work"`
	RunAsRoot       bool     `yaml:"runAsRoot"`
	ReplaceExisting bool     `yaml:"replaceExisting"`

	// ControlPlaneURL is the base URL of the control-plane REST API.
	ControlPlaneURL string `yaml:"controlPlaneURL" default:"https://api.github.com"`

	// RegistrationURL is the base URL the configuration procedure registers
	// against; the scope path is appended to it.
	RegistrationURL string `yaml:"registrationURL" default:"https://github.com"`

	// RunnerDir is the directory containing the runner installation (the
	// config and run scripts).
	RunnerDir string `yaml:"runnerDir" default:"."`

	// UnprivilegedUser is the account the job-execution process runs as when
	// runAsRoot is false and start-runner itself is running as root.
	UnprivilegedUser string `yaml:"unprivilegedUser" default:"runner"`

	Logging *LoggingConfig `yaml:"logging"`

	// problems found while reading the environment, reported by Validate
	// together with any missing required settings
	envProblems []string
}

// Environment variables recognized as configuration.
const (
	EnvCredential      = "ACCESS_TOKEN"
	EnvRepository      = "RUNNER_REPOSITORY"
	EnvOrganization    = "RUNNER_ORGANIZATION"
	EnvName            = "RUNNER_NAME"
	EnvLabels          = "RUNNER_LABELS"
	EnvGroup           = "RUNNER_GROUP"
	EnvWorkDir         = "RUNNER_WORKDIR"
	EnvRunAsRoot       = "RUN_AS_ROOT"
	EnvReplaceExisting = "RUNNER_REPLACE_EXISTING"
	EnvControlPlaneURL = "CONTROL_PLANE_URL"
	EnvRegistrationURL = "REGISTRATION_URL"
	EnvRunnerDir       = "RUNNER_DIR"
)

// Load a runner configuration.  The filename is optional; when empty, the
// configuration comes entirely from the environment and defaults.  The
// returned config has not yet been validated.
func LoadRunnerConfig(filename string) (*RunnerConfig, error) {
	var runnercfg RunnerConfig
	defaults.SetDefaults(&runnercfg)

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &runnercfg); err != nil {
			return nil, err
		}
	}

	runnercfg.fromEnvironment()

	return &runnercfg, nil
}

// Overlay environment variables onto the config.  Malformed values are not
// fatal here; they are recorded and reported by Validate together with any
// missing required settings, so the user sees every problem in one pass.
func (runnercfg *RunnerConfig) fromEnvironment() {
	setString := func(dest *string, name string) {
		if v, ok := os.LookupEnv(name); ok {
			*dest = v
		}
	}

	setString(&runnercfg.Credential, EnvCredential)
	setString(&runnercfg.Repository, EnvRepository)
	setString(&runnercfg.Organization, EnvOrganization)
	setString(&runnercfg.Name, EnvName)
	setString(&runnercfg.Group, EnvGroup)
	setString(&runnercfg.WorkDir, EnvWorkDir)
	setString(&runnercfg.ControlPlaneURL, EnvControlPlaneURL)
	setString(&runnercfg.RegistrationURL, EnvRegistrationURL)
	setString(&runnercfg.RunnerDir, EnvRunnerDir)

	if v, ok := os.LookupEnv(EnvLabels); ok {
		runnercfg.Labels = strings.Split(v, ",")
	}

	for _, b := range []struct {
		dest *bool
		name string
	}{
		{&runnercfg.RunAsRoot, EnvRunAsRoot},
		{&runnercfg.ReplaceExisting, EnvReplaceExisting},
	} {
		v, ok := os.LookupEnv(b.name)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			runnercfg.envProblems = append(runnercfg.envProblems,
				fmt.Sprintf("%s must be a boolean, got %q", b.name, v))
			continue
		}
		*b.dest = parsed
	}
}
