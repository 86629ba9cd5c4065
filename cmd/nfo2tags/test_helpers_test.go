package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nfo2tags/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	stateDir   string
	stubLog    string
	mediaDir   string
}

// setupCLITestEnv writes a config whose tools are shell stubs. The ffmpeg
// stub writes its output file, the ffprobe stub reports one video stream and
// every stub appends its arguments to stubLog.
func setupCLITestEnv(t *testing.T, extraConfig ...string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	for _, key := range []string{"NFO2TAGS_FFMPEG", "NFO2TAGS_FFPROBE", "NFO2TAGS_MKVPROPEDIT"} {
		t.Setenv(key, "")
	}

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "nfo2tags.toml"),
		stateDir:   filepath.Join(base, "state"),
		stubLog:    filepath.Join(base, "stub.log"),
		mediaDir:   filepath.Join(base, "media"),
	}
	binDir := filepath.Join(base, "bin")
	logLine := fmt.Sprintf(`printf '%%s %%s\n' "$(basename "$0")" "$*" >> %q`, env.stubLog)
	testsupport.WriteScript(t, filepath.Join(binDir, "ffmpeg"), logLine+"\nfor last; do :; done\necho remuxed > \"$last\"\necho progress=end")
	testsupport.WriteScript(t, filepath.Join(binDir, "ffprobe"), logLine+"\necho '{\"streams\":[{\"codec_type\":\"video\"}],\"format\":{\"duration\":\"10\"}}'")
	testsupport.WriteScript(t, filepath.Join(binDir, "mkvpropedit"), logLine+"\nexit 0")

	content := fmt.Sprintf(`[paths]
log_dir = %q
state_dir = %q
temp_dir = %q

[tools]
ffmpeg = %q
ffprobe = %q
mkvpropedit = %q
`,
		filepath.Join(base, "logs"),
		env.stateDir,
		filepath.Join(base, "tmp"),
		filepath.Join(binDir, "ffmpeg"),
		filepath.Join(binDir, "ffprobe"),
		filepath.Join(binDir, "mkvpropedit"),
	)
	for _, extra := range extraConfig {
		content += "\n" + extra + "\n"
	}
	testsupport.WriteText(t, env.configPath, content)
	return env
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, append([]string{"--config", e.configPath}, args...)...)
}

func (e *cliTestEnv) stubCalls(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.stubLog)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("read stub log: %v", err)
	}
	return string(data)
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}
