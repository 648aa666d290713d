package root

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// run executes the CLI with XDG_CONFIG_HOME pointed at configHome.
func run(t *testing.T, configHome string, args ...string) result {
	t.Helper()
	env := func(key string) (string, bool) {
		if key == "XDG_CONFIG_HOME" {
			return configHome, true
		}
		return "", false
	}
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr, env)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test User", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test User", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func commits(t *testing.T, dir string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		name := fmt.Sprintf("f%d.txt", len(entries))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
		runGit(t, dir, "add", name)
		runGit(t, dir, "-c", "commit.gpgsign=false", "commit", "-q", "-m", "add "+name)
	}
}

func newRepo(t *testing.T) string {
	t.Helper()
	requireGit(t)
	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	chdir(t, dir)
	return dir
}

func TestNoSubcommandShowsHelp(t *testing.T) {
	res := run(t, t.TempDir())
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "feed")
	assert.Contains(t, res.stdout, "status")
	assert.Empty(t, res.stderr)
}

func TestHelpFlag(t *testing.T) {
	res := run(t, t.TempDir(), "-h")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "Usage:")
}

func TestVersionFlag(t *testing.T) {
	for _, flag := range []string{"-v", "--version"} {
		res := run(t, t.TempDir(), flag)
		assert.Equal(t, 0, res.code)
		assert.Equal(t, "commit-pet v"+Version+"\n", res.stdout)
	}
}

func TestUnknownCommandFails(t *testing.T) {
	res := run(t, t.TempDir(), "pet")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error:")
}

func TestStatusOnFreshInstall(t *testing.T) {
	home := t.TempDir()
	res := run(t, home, "status")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Commit Pet Status")
	assert.Contains(t, res.stdout, "Egg")
	assert.Contains(t, res.stdout, "0 EXP")
	assert.Contains(t, res.stdout, "5 more commits to evolve!")
	assert.Contains(t, res.stdout, "Config: "+filepath.Join(home, "commit-pet", "state.json"))

	// status only reads: neither state.json nor history.db is created.
	entries, err := os.ReadDir(filepath.Join(home, "commit-pet"))
	if !os.IsNotExist(err) {
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
}

func TestStatusLeavesJournalUntouched(t *testing.T) {
	dir := newRepo(t)
	home := t.TempDir()
	commits(t, dir, 2)
	require.Equal(t, 0, run(t, home, "feed").code)

	db := filepath.Join(home, "commit-pet", "history.db")
	before, err := os.Stat(db)
	require.NoError(t, err)

	res := run(t, home, "status")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "2 EXP")

	after, err := os.Stat(db)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
	assert.Equal(t, before.Size(), after.Size())
}

func TestFeedOutsideRepository(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	chdir(t, dir)

	res := run(t, t.TempDir(), "feed")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error: [GIT_ERROR] Not in a git repository!")
	assert.Contains(t, res.stderr, "git init")
}

func TestFeedWithoutCommits(t *testing.T) {
	newRepo(t)
	res := run(t, t.TempDir(), "feed")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "[GIT_ERROR] No commits found in this repository!")
}

func TestFeedEvolvesPet(t *testing.T) {
	dir := newRepo(t)
	home := t.TempDir()

	commits(t, dir, 1)
	res := run(t, home, "feed")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Fed your pet with 1 commit!")
	assert.Contains(t, res.stdout, "Total EXP: 1")

	commits(t, dir, 4)
	res = run(t, home, "feed")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Fed your pet with 4 commits!")
	assert.Contains(t, res.stdout, "Your pet evolved from egg to chick!")

	res = run(t, home, "feed")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No new commits since last feeding!")

	res = run(t, home, "status")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Chick")
	assert.Contains(t, res.stdout, "Progress to next stage: 0%")

	res = run(t, home, "history")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "+4 EXP (4 commits)")
	assert.Contains(t, res.stdout, "EVOLVED")
	assert.Contains(t, res.stdout, "Commits fed: 5")

	state, err := os.ReadFile(filepath.Join(home, "commit-pet", "state.json"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(state), "{\n  \"stage\": \"chick\",\n  \"exp\": 5,"), string(state))
}

func TestUserConfig(t *testing.T) {
	dir := newRepo(t)
	home := t.TempDir()
	cfgDir := filepath.Join(home, "commit-pet")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(`
pet:
  exp_per_commit: 3
history:
  enabled: false
`), 0o644))

	commits(t, dir, 2)
	res := run(t, home, "feed")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Total EXP: 6")
	assert.Contains(t, res.stdout, "Your pet evolved from egg to chick!")

	_, err := os.Stat(filepath.Join(cfgDir, "history.db"))
	assert.True(t, os.IsNotExist(err), "journal disabled")

	res = run(t, home, "history")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "[STATE_ERROR] Feed history is disabled")
}

func TestInvalidUserConfigFails(t *testing.T) {
	home := t.TempDir()
	cfgDir := filepath.Join(home, "commit-pet")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("pet:\n  exp_per_commit: 0\n"), 0o644))

	res := run(t, home, "status")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "[VALIDATION_ERROR]")
}

func TestVerboseLogsToStderr(t *testing.T) {
	res := run(t, t.TempDir(), "--verbose", "status")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stderr, "config loaded")
	assert.NotContains(t, res.stdout, "config loaded")
}

func TestMonochromeColorScheme(t *testing.T) {
	home := t.TempDir()
	cfgDir := filepath.Join(home, "commit-pet")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("display:\n  color_scheme: monochrome\n  show_emoji: false\n"), 0o644))

	res := run(t, home, "status")
	require.Equal(t, 0, res.code, res.stderr)
	assert.NotContains(t, res.stdout, "\x1b[")
	assert.Contains(t, res.stdout, "5 more commits to evolve!")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
