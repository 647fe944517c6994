//go:build linux || darwin || freebsd

package supervisor

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"syscall"

	"github.com/forgerun/runner-lifecycle/cfg"
)

// sysProcAttr builds the process attributes for the child.  The child always
// gets its own process group, so termination signals can be forwarded to the
// whole tree.  When the manager runs as root and runAsRoot is false, the
// child is started under the configured unprivileged account instead.
func sysProcAttr(runnercfg *cfg.RunnerConfig) (*syscall.SysProcAttr, error) {
	attr := &syscall.SysProcAttr{Setpgid: true}

	if runnercfg.RunAsRoot || os.Getuid() != 0 {
		return attr, nil
	}

	cred, err := lookupCredential(runnercfg.UnprivilegedUser)
	if err != nil {
		return nil, err
	}
	attr.Credential = cred
	return attr, nil
}

func lookupCredential(username string) (*syscall.Credential, error) {
	usr, err := user.Lookup(username)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user %s: %w", username, err)
	}

	uid, err := strconv.Atoi(usr.Uid)
	if err != nil {
		return nil, fmt.Errorf("failed to convert UID to int: %w", err)
	}

	gid, err := strconv.Atoi(usr.Gid)
	if err != nil {
		return nil, fmt.Errorf("failed to convert GID to int: %w", err)
	}

	groupIDs, err := usr.GroupIds()
	if err != nil {
		return nil, fmt.Errorf("failed to get group IDs: %w", err)
	}

	var gids []uint32
	for _, gidStr := range groupIDs {
		gid, err := strconv.Atoi(gidStr)
		if err != nil {
			return nil, fmt.Errorf("failed to convert GID to int: %w", err)
		}
		gids = append(gids, uint32(gid))
	}

	return &syscall.Credential{
		Uid:    uint32(uid),
		Gid:    uint32(gid),
		Groups: gids,
	}, nil
}
