package tooling

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// PackageInstaller installs system packages.
type PackageInstaller interface {
	Install(ctx context.Context, names []string) error
}

// PackageManager describes how to invoke one host package manager.
type PackageManager struct {
	Name    string
	Args    []string          // Install subcommand and flags; package names follow.
	Sudo    bool              // Prefix with sudo when not running as root.
	Renames map[string]string // Package names that differ on this manager.
}

// knownManagers lists supported package managers in detection order.
var knownManagers = []PackageManager{
	{Name: "apt-get", Args: []string{"install", "-y"}, Sudo: true},
	{Name: "dnf", Args: []string{"install", "-y"}, Sudo: true},
	{Name: "pacman", Args: []string{"-S", "--noconfirm"}, Sudo: true},
	{Name: "brew", Args: []string{"install"}, Renames: map[string]string{"nodejs": "node"}},
}

// DetectPackageManager returns the first supported package manager on PATH.
func DetectPackageManager(lookPath LookPathFunc) (PackageManager, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, pm := range knownManagers {
		if _, err := lookPath(pm.Name); err == nil {
			return pm, nil
		}
	}
	return PackageManager{}, ErrNoPackageManager
}

// Command returns the program and arguments that install names.
func (pm PackageManager) Command(names []string, asRoot bool) (string, []string) {
	args := append([]string{}, pm.Args...)
	for _, n := range names {
		if r, ok := pm.Renames[n]; ok {
			n = r
		}
		args = append(args, n)
	}
	if pm.Sudo && !asRoot {
		return "sudo", append([]string{pm.Name}, args...)
	}
	return pm.Name, args
}

// SystemInstaller installs packages with the host package manager.
type SystemInstaller struct {
	manager PackageManager
	stdio   IO
	env     []string
	asRoot  bool
	logger  *slog.Logger
}

// NewSystemInstaller creates an installer for pm. env is appended to the
// child's environment.
func NewSystemInstaller(pm PackageManager, stdio IO, env []string, logger *slog.Logger) *SystemInstaller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SystemInstaller{
		manager: pm,
		stdio:   stdio,
		env:     env,
		asRoot:  os.Geteuid() == 0,
		logger:  logger,
	}
}

// Install runs the package manager for names. An empty list is a no-op.
func (i *SystemInstaller) Install(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	name, args := i.manager.Command(names, i.asRoot)
	i.logger.Info("installing packages", "manager", i.manager.Name, "packages", names)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = i.stdio.In
	cmd.Stdout = i.stdio.Out
	cmd.Stderr = i.stdio.Err
	cmd.Env = append(os.Environ(), i.env...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("install %v with %s: %w", names, i.manager.Name, err)
	}
	return nil
}
