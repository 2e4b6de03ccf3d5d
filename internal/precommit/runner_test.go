package precommit

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// fakePreCommit writes a script that records its arguments and environment
// and exits with $FAKE_EXIT.
func fakePreCommit(t *testing.T) (command, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args.txt")
	script := "#!/bin/sh\n" +
		"echo \"$@\" >> " + argsFile + "\n" +
		"echo \"EXCLUDE_LINT=$EXCLUDE_LINT\" >> " + argsFile + "\n" +
		"exit ${FAKE_EXIT:-0}\n"
	command = filepath.Join(dir, "pre-commit")
	if err := os.WriteFile(command, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return command, argsFile
}

func newTestRunner(command string, env []string) (*Runner, *bytes.Buffer) {
	var logs bytes.Buffer
	r := &Runner{
		Command: command,
		Dir:     os.TempDir(),
		Env:     env,
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
		Logger:  zerolog.New(&logs).Level(zerolog.DebugLevel),
	}
	return r, &logs
}

func TestRunner_RunAll(t *testing.T) {
	command, argsFile := fakePreCommit(t)
	r, logs := newTestRunner(command, []string{"EXCLUDE_LINT=a,b", "FAKE_EXIT=0"})

	res := r.Run(context.Background(), "/repo/"+MandatoryConfig, Scope{})
	if res.Code != 0 || res.Err != nil {
		t.Fatalf("Run = %+v, want success", res)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.Contains(got, "run --color=always --all -c /repo/.pre-commit-config.yaml") {
		t.Errorf("unexpected args:\n%s", got)
	}
	if !strings.Contains(got, "EXCLUDE_LINT=a,b") {
		t.Errorf("child did not receive the merged environment:\n%s", got)
	}
	if !strings.Contains(logs.String(), "command executed") {
		t.Errorf("expected debug command echo, got %q", logs.String())
	}
}

func TestRunner_RunFilesExitCode(t *testing.T) {
	command, argsFile := fakePreCommit(t)
	r, _ := newTestRunner(command, []string{"FAKE_EXIT=3"})

	res := r.Run(context.Background(), OptionalConfig, Scope{Files: []string{"a.py", "b.py"}})
	if res.Code != 3 {
		t.Fatalf("Code = %d, want 3", res.Code)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "run --color=always --files a.py b.py -c "+OptionalConfig) {
		t.Errorf("unexpected args:\n%s", data)
	}
}

func TestRunner_InstallHooks(t *testing.T) {
	command, argsFile := fakePreCommit(t)
	r, _ := newTestRunner(command, nil)

	if res := r.InstallHooks(context.Background(), AutofixConfig); res.Code != 0 {
		t.Fatalf("InstallHooks = %+v", res)
	}
	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "install-hooks --color=always -c "+AutofixConfig) {
		t.Errorf("unexpected args:\n%s", data)
	}
}

func TestRunner_MissingExecutable(t *testing.T) {
	r, _ := newTestRunner("pre-commit-vauxoo-missing-binary", nil)

	res := r.Run(context.Background(), MandatoryConfig, Scope{})
	if res.Err == nil {
		t.Fatal("expected start error")
	}
	if res.Code != exitNotFound {
		t.Fatalf("Code = %d, want %d", res.Code, exitNotFound)
	}
}

func TestScope(t *testing.T) {
	if !(Scope{}).All() {
		t.Error("empty scope should cover all files")
	}
	if (Scope{Files: []string{"x"}}).All() {
		t.Error("file scope should not be All")
	}
}
