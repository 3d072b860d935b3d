package publish_test

import (
	"context"
	"os"
	oe "os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/byte4ever/docgen/digester"
)

// writeTemp creates a file with content under dir,
// creating parent directories, and returns its path.
func writeTemp(
	tb testing.TB,
	dir string,
	name string,
	content string,
) string {
	tb.Helper()

	pa := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(tb, os.MkdirAll(filepath.Dir(pa), 0o755))
	require.NoError(tb, os.WriteFile(pa, []byte(content), 0o600))

	return pa
}

// writeManifest records the current digests of files
// under dir.
func writeManifest(tb testing.TB, dir string, files ...string) {
	tb.Helper()

	mf, err := digester.BuildManifest(dir, files, time.Now())
	require.NoError(tb, err)
	require.NoError(tb, digester.WriteManifest(
		filepath.Join(dir, digester.ManifestName), mf,
	))
}

// gitOut runs a git command in dir and returns its
// combined output.
func gitOut(
	tb testing.TB,
	dir string,
	args ...string,
) (string, error) {
	tb.Helper()

	//nolint:gosec // test helper
	cmd := oe.CommandContext(
		context.Background(), "git", args...,
	)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()

	return string(out), err
}

// gitCmd runs a git command in dir and fails the test
// on error.
func gitCmd(tb testing.TB, dir string, args ...string) string {
	tb.Helper()

	out, err := gitOut(tb, dir, args...)
	if err != nil {
		tb.Fatalf("git %v failed: %s: %v", args, out, err)
	}

	return out
}

// newRemote creates a bare repository whose main branch
// holds one commit with a README, and returns its path.
func newRemote(tb testing.TB) string {
	tb.Helper()

	root := tb.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(tb, os.MkdirAll(src, 0o750))

	gitCmd(tb, src, "init", "-b", "main")
	gitCmd(tb, src, "config", "user.email", "test@test.com")
	gitCmd(tb, src, "config", "user.name", "Test")
	gitCmd(tb, src, "config", "core.hooksPath", "/dev/null")
	writeTemp(tb, src, "README.md", "project\n")
	writeTemp(tb, src, "docs/README.md", "generated site\n")
	gitCmd(tb, src, "add", ".")
	gitCmd(tb, src, "commit", "-m", "initial")

	remote := filepath.Join(root, "remote.git")
	gitCmd(tb, root, "clone", "--bare", src, remote)

	return remote
}
