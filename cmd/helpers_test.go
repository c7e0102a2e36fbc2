package cmd

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"csuite/internal/exec"
	"csuite/internal/harness"
	"csuite/internal/testing/mock"
)

const (
	testSerial  = "emulator-5554"
	testPackage = "com.example.app"
)

// executeCommand runs a fresh command tree against configDir and returns
// what it wrote to stdout and stderr.
func executeCommand(t *testing.T, configDir string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config-path", configDir}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// useRunner makes commands talk to r instead of real processes.
func useRunner(t *testing.T, r exec.Runner) {
	t.Helper()
	orig := newRunner
	newRunner = func() exec.Runner { return r }
	t.Cleanup(func() { newRunner = orig })
}

// launcherRunner answers harness launcher invocations, whose path depends
// on where the suite was extracted, and forwards everything else.
type launcherRunner struct {
	*mock.Runner
	launch mock.Handler
}

func (r launcherRunner) Run(ctx context.Context, cmd exec.Command) (exec.Result, error) {
	if len(cmd.Args) > 0 && filepath.Base(cmd.Args[0]) == filepath.Base(harness.LauncherPath) {
		return r.launch(cmd), nil
	}
	return r.Runner.Run(ctx, cmd)
}

// newSimulatedDevice returns a runner with an attached simulated device
// whose harness launch installs the package, logs launchLog and uninstalls
// it again.
func newSimulatedDevice(launchLog string) (launcherRunner, *mock.Device) {
	runner := mock.NewRunner()
	dev := mock.NewDevice("adb", testSerial)
	dev.Attach(runner)
	return launcherRunner{
		Runner: runner,
		launch: func(cmd exec.Command) exec.Result {
			dev.Install(testPackage)
			if launchLog != "" {
				dev.Log(testPackage, launchLog)
			}
			dev.Remove(testPackage)
			return exec.Result{Stdout: "PASSED: 1\nFAILED: 0\n"}
		},
	}, dev
}

func writeSuiteZip(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "android-csuite.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, name := range []string{harness.LauncherPath, harness.GeneratorToolPath} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte("#!/bin/sh\n"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func writeAPK(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.apk")
	require.NoError(t, os.WriteFile(path, []byte("apk"), 0o644))
	return path
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func execResult(code int, stdout string) exec.Result {
	return exec.Result{ExitCode: code, Stdout: stdout + "\n"}
}
