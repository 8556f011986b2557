package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitshepherds/codefmt/internal/config"
)

type mockEnvProvider struct {
	values map[string]string
}

func (m *mockEnvProvider) Get(key string) string {
	return m.values[key]
}

func setupTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	git := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if err := cmd.Run(); err != nil {
			t.Fatalf("git %v failed: %v", args, err)
		}
	}

	git("init")
	git("config", "user.email", "test@example.com")
	git("config", "user.name", "Test User")

	return dir
}

func gitCommitAll(t *testing.T, dir string) {
	t.Helper()
	for _, args := range [][]string{{"add", "."}, {"commit", "-m", "snapshot"}} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		require.NoError(t, cmd.Run())
	}
}

// writeOverrideConfig writes a config file outside the repo and returns an
// env provider pointing CODEFMT_CONFIG at it.
func writeOverrideConfig(t *testing.T, root, formatter string) *mockEnvProvider {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "codefmt.yml")
	content := fmt.Sprintf(`
includeEndsWith: [".cpp", ".h"]
rootDirectory: %q
formatterBinary: %q
`, root, formatter)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))
	return &mockEnvProvider{values: map[string]string{config.ConfigEnvVar: cfgPath}}
}

func TestRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("help prints usage and succeeds", func(t *testing.T) {
		t.Parallel()
		var stdout bytes.Buffer
		err := Run(ctx, []string{"codefmt", "--help"}, &stdout, io.Discard, &mockEnvProvider{})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Usage:")
		assert.Contains(t, stdout.String(), "-verify")
	})

	t.Run("fix formats tracked files end to end", func(t *testing.T) {
		t.Parallel()
		repo := setupTestRepo(t)
		require.NoError(t, os.WriteFile(filepath.Join(repo, "a.cpp"), []byte("int a;"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(repo, "README.md"), []byte("docs"), 0o600))
		gitCommitAll(t, repo)

		bin := fakeFormatter(t, `printf '%s\n' "$@" > /dev/null`)
		env := writeOverrideConfig(t, repo, bin)

		var stdout bytes.Buffer
		err := Run(ctx, []string{"codefmt"}, &stdout, io.Discard, env)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Formatted 1 files")
	})

	t.Run("verify passes on a clean tree", func(t *testing.T) {
		t.Parallel()
		repo := setupTestRepo(t)
		require.NoError(t, os.WriteFile(filepath.Join(repo, "a.cpp"), []byte("int a;"), 0o600))
		gitCommitAll(t, repo)

		bin := fakeFormatter(t, "exit 0")
		env := writeOverrideConfig(t, repo, bin)

		var stdout bytes.Buffer
		err := Run(ctx, []string{"codefmt", "-verify"}, &stdout, io.Discard, env)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "working tree clean")
	})

	t.Run("verify fails with exit 2 on a dirty tree", func(t *testing.T) {
		t.Parallel()
		repo := setupTestRepo(t)
		require.NoError(t, os.WriteFile(filepath.Join(repo, "a.cpp"), []byte("int a;"), 0o600))
		gitCommitAll(t, repo)
		// Uncommitted change, as if formatting rewrote the file.
		require.NoError(t, os.WriteFile(filepath.Join(repo, "a.cpp"), []byte("int b;"), 0o600))

		bin := fakeFormatter(t, "exit 0")
		env := writeOverrideConfig(t, repo, bin)

		var stderr bytes.Buffer
		err := Run(ctx, []string{"codefmt", "-verify"}, io.Discard, &stderr, env)
		require.Error(t, err)
		assert.Equal(t, ExitDirtyTree, ExitCode(err))
		assert.Contains(t, stderr.String(), "Error:")
	})

	t.Run("formatter failure maps to exit 3", func(t *testing.T) {
		t.Parallel()
		repo := setupTestRepo(t)
		require.NoError(t, os.WriteFile(filepath.Join(repo, "a.cpp"), []byte("int a;"), 0o600))
		gitCommitAll(t, repo)

		bin := fakeFormatter(t, "exit 11")
		env := writeOverrideConfig(t, repo, bin)

		err := Run(ctx, []string{"codefmt"}, io.Discard, io.Discard, env)
		require.Error(t, err)
		assert.Equal(t, ExitFormatterFailure, ExitCode(err))
	})

	t.Run("broken configuration maps to exit 1", func(t *testing.T) {
		t.Parallel()
		cfgPath := filepath.Join(t.TempDir(), "broken.yml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("includeEndsWith: [unclosed"), 0o600))
		env := &mockEnvProvider{values: map[string]string{config.ConfigEnvVar: cfgPath}}

		var stderr bytes.Buffer
		err := Run(ctx, []string{"codefmt"}, io.Discard, &stderr, env)
		require.Error(t, err)
		assert.Equal(t, ExitSetupFailure, ExitCode(err))
		assert.Contains(t, stderr.String(), "Error:")
	})

	t.Run("verbose enables diagnostic output", func(t *testing.T) {
		t.Parallel()
		repo := setupTestRepo(t)
		require.NoError(t, os.WriteFile(filepath.Join(repo, "a.cpp"), []byte("int a;"), 0o600))
		gitCommitAll(t, repo)

		bin := fakeFormatter(t, "exit 0")
		env := writeOverrideConfig(t, repo, bin)

		var stderr bytes.Buffer
		err := Run(ctx, []string{"codefmt", "--verbose"}, io.Discard, &stderr, env)
		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "discovered files")
	})
}
