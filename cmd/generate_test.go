package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csuite/internal/module"
)

func writeList(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "packages.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestGenerate_WritesModules(t *testing.T) {
	list := writeList(t, "com.a\ncom.b\n")
	rootDir := t.TempDir()

	stdout, _, err := executeCommand(t, t.TempDir(), "generate", "--package_list", list, "--root_dir", rootDir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated modules in "+rootDir)

	for _, pkg := range []string{"com.a", "com.b"} {
		for _, name := range []string{module.BuildDescriptorFileName, module.TestDescriptorFileName} {
			assert.FileExists(t, filepath.Join(rootDir, pkg, name))
		}
	}
}

func TestGenerate_UsesConfiguredPrefix(t *testing.T) {
	configDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("module:\n  prefix: compat\n"), 0o644))
	list := writeList(t, "com.a\n")
	rootDir := t.TempDir()

	_, _, err := executeCommand(t, configDir, "generate", "--package_list", list, "--root_dir", rootDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(rootDir, "com.a", module.BuildDescriptorFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"compat_com.a"`)
}

func TestGenerate_InvalidArguments(t *testing.T) {
	list := writeList(t, "com.a\n")
	rootDir := t.TempDir()
	notADir := writeList(t, "")

	tests := []struct {
		name string
		args []string
	}{
		{"missing flags", []string{"generate"}},
		{"missing root", []string{"generate", "--package_list", list}},
		{"nonexistent list", []string{"generate", "--package_list", filepath.Join(rootDir, "nope.txt"), "--root_dir", rootDir}},
		{"list is a directory", []string{"generate", "--package_list", rootDir, "--root_dir", rootDir}},
		{"nonexistent root", []string{"generate", "--package_list", list, "--root_dir", filepath.Join(rootDir, "missing")}},
		{"root is a file", []string{"generate", "--package_list", list, "--root_dir", notADir}},
		{"positional args", []string{"generate", "--package_list", list, "--root_dir", rootDir, "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, t.TempDir(), tt.args...)
			assert.Error(t, err)
		})
	}
	entries, err := os.ReadDir(rootDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate_Watch(t *testing.T) {
	list := writeList(t, "com.a\n")
	rootDir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := newRootCmd()
	cmd.SetOut(&syncBuffer{})
	cmd.SetErr(&syncBuffer{})
	cmd.SetArgs([]string{"--config-path", t.TempDir(), "generate",
		"--package_list", list, "--root_dir", rootDir, "--watch", "--debounce", "20ms"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(rootDir, "com.a"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	// Let the watcher register before changing the list.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(list, []byte("com.b\n"), 0o644))
	assert.Eventually(t, func() bool {
		_, errB := os.Stat(filepath.Join(rootDir, "com.b"))
		_, errA := os.Stat(filepath.Join(rootDir, "com.a"))
		return errB == nil && os.IsNotExist(errA)
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
