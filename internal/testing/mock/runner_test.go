package mock

import (
	"context"
	"errors"
	"testing"

	"csuite/internal/exec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_LongestPrefixWins(t *testing.T) {
	r := NewRunner()
	r.Respond([]string{"adb"}, exec.Result{Stdout: "generic"})
	r.Respond([]string{"adb", "devices"}, exec.Result{Stdout: "specific"})

	result, err := r.Run(context.Background(), exec.Command{Args: []string{"adb", "devices", "-l"}})
	require.NoError(t, err)
	assert.Equal(t, "specific", result.Stdout)
	assert.Equal(t, []string{"adb devices -l"}, r.CommandLines())
}

func TestRunner_LaterRegistrationOverridesDevice(t *testing.T) {
	r := NewRunner()
	d := NewDevice("adb", "emulator-5554")
	d.Attach(r)
	r.Respond([]string{"adb", "-s", "emulator-5554", "logcat", "-c"}, exec.Result{ExitCode: 255, Stderr: "device offline"})

	result, err := r.Run(context.Background(), exec.Command{Args: []string{"adb", "-s", "emulator-5554", "logcat", "-c"}})
	require.NoError(t, err)
	assert.Equal(t, 255, result.ExitCode)
	assert.Equal(t, "device offline", result.Stderr)
}

func TestRunner_CheckSemantics(t *testing.T) {
	r := NewRunner()

	_, err := r.Run(context.Background(), exec.Command{Args: []string{"missing"}, Check: true})
	var failed *exec.CommandFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, 127, failed.Result.ExitCode)

	result, err := r.Run(context.Background(), exec.Command{Args: []string{"missing"}})
	require.NoError(t, err)
	assert.Equal(t, 127, result.ExitCode)
}

func TestDevice_UninstallAndList(t *testing.T) {
	r := NewRunner()
	d := NewDevice("adb", "emulator-5554")
	d.Attach(r)
	d.Install("com.example.a")
	d.Install("com.example.b")

	ctx := context.Background()
	result, err := r.Run(ctx, exec.Command{Args: []string{"adb", "-s", "emulator-5554", "shell", "pm", "list", "packages"}})
	require.NoError(t, err)
	assert.Equal(t, "package:com.example.a\npackage:com.example.b\n", result.Stdout)

	_, err = r.Run(ctx, exec.Command{Args: []string{"adb", "-s", "emulator-5554", "uninstall", "com.example.a"}, Check: true})
	require.NoError(t, err)
	assert.False(t, d.IsInstalled("com.example.a"))

	result, err = r.Run(ctx, exec.Command{Args: []string{"adb", "-s", "emulator-5554", "uninstall", "com.example.a"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ExitCode)
}

func TestDevice_Logcat(t *testing.T) {
	r := NewRunner()
	d := NewDevice("adb", "serial")
	d.Attach(r)
	d.Log("com.example.a", "stale line")

	ctx := context.Background()
	_, err := r.Run(ctx, exec.Command{Args: []string{"adb", "-s", "serial", "logcat", "-c"}})
	require.NoError(t, err)

	d.Log("com.example.a", "App launched")
	d.Log("other", "noise")

	result, err := r.Run(ctx, exec.Command{Args: []string{"adb", "-s", "serial", "logcat", "-d", "-v", "brief", "-s", "com.example.a"}})
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "App launched")
	assert.NotContains(t, result.Stdout, "stale line")
	assert.NotContains(t, result.Stdout, "noise")
}
