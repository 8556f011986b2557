package repo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CLIGitter is the concrete implementation of Gitter using the git CLI.
type CLIGitter struct {
	gitPath string // test seam
}

// NewCLIGitter creates a new CLIGitter instance.
func NewCLIGitter() *CLIGitter {
	return &CLIGitter{gitPath: "git"}
}

// LsFiles lists all files tracked at HEAD via a recursive name-only tree listing.
func (g *CLIGitter) LsFiles(ctx context.Context, root string) ([]string, error) {
	out, err := g.run(ctx, root, "ls-tree", "-r", "HEAD", "--name-only")
	if err != nil {
		return nil, fmt.Errorf("git ls-tree failed in %s: %w", root, err)
	}

	return splitLines(out), nil
}

// Status returns the porcelain short-status entries for the working tree.
func (g *CLIGitter) Status(ctx context.Context, root string) ([]string, error) {
	out, err := g.run(ctx, root, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("git status failed in %s: %w", root, err)
	}

	return splitLines(out), nil
}

// run executes a git subcommand in root and returns its stdout. Stderr is
// never part of the parsed output; it is surfaced in the error on failure.
func (g *CLIGitter) run(ctx context.Context, root string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, g.gitPath, args...)
	cmd.Dir = root

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w (stderr: %s)", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}

	return string(out), nil
}

// splitLines splits command output into non-empty lines.
func splitLines(out string) []string {
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(trimmed, "\r\n", "\n"), "\n")
}
