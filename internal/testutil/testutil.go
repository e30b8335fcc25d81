package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteScript writes an executable shell script with body and returns its path.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteScript(t *testing.T, dir string, name string, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := "#!/bin/sh\n" + body
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

// WriteStubWithExit writes an executable shell stub that exits with the provided code.
func WriteStubWithExit(t *testing.T, dir string, name string, exitCode int) string {
	t.Helper()
	return WriteScript(t, dir, name, fmt.Sprintf("exit %d", exitCode))
}

// WriteRecordingStub writes a stub that appends its arguments, space separated,
// as one line to logPath and then exits with exitCode.
func WriteRecordingStub(t *testing.T, dir string, name string, logPath string, exitCode int) string {
	t.Helper()
	return WriteScript(t, dir, name, fmt.Sprintf("echo \"$*\" >> %s\nexit %d", shellQuote(logPath), exitCode))
}

// WriteFailOnArgStub writes a recording stub that exits with failCode when any
// argument equals failArg and succeeds otherwise.
func WriteFailOnArgStub(t *testing.T, dir string, name string, logPath string, failArg string, failCode int) string {
	t.Helper()
	body := fmt.Sprintf(`echo "$*" >> %s
for arg in "$@"; do
  if [ "$arg" = %s ]; then echo "cannot add $arg" >&2; exit %d; fi
done
exit 0`, shellQuote(logPath), shellQuote(failArg), failCode)
	return WriteScript(t, dir, name, body)
}

// ReadInvocations returns the argument lines recorded by a recording stub.
// A missing log means the stub never ran.
func ReadInvocations(t *testing.T, logPath string) []string {
	t.Helper()
	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read invocations: %v", err)
	}
	trimmed := strings.TrimRight(string(data), "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

// WithWorkingDir runs fn with dir as the current working directory and restores the previous directory.
func WithWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	}()
	fn()
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
