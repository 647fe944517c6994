package registration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/forgerun/runner-lifecycle/cfg"
)

// A Configurator runs the local identity-configuration procedure with a
// fresh registration token.  The token must never appear in log output.
type Configurator interface {
	Configure(runnercfg *cfg.RunnerConfig, targetURL, token string) error
}

// scriptConfigurator invokes the configuration script shipped with the
// runner installation.
type scriptConfigurator struct {
	runnerDir string
}

func (c *scriptConfigurator) Configure(runnercfg *cfg.RunnerConfig, targetURL, token string) error {
	args := []string{
		"--url", targetURL,
		"--token", token,
		"--name", runnercfg.Name,
		"--labels", strings.Join(runnercfg.Labels, ","),
		"--runnergroup", runnercfg.Group,
		"--work", runnercfg.WorkDir,
		"--unattended",
	}
	if runnercfg.ReplaceExisting {
		// resolve a name collision at the control plane by force-replacing
		// the existing registration
		args = append(args, "--replace")
	}

	cmd := exec.Command(filepath.Join(c.runnerDir, "config.sh"), args...)
	cmd.Dir = c.runnerDir
	cmd.Env = os.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		// deliberately does not echo the command line, which contains the token
		return fmt.Errorf("config.sh failed: %w", err)
	}
	return nil
}
