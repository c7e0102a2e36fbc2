package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"csuite/internal/exec"
	"csuite/internal/module"
	"csuite/pkg/logging"
)

const harnessSubsystem = "Harness"

// Paths inside the standalone suite archive.
const (
	LauncherPath      = "android-csuite/tools/csuite-tradefed"
	GeneratorToolPath = "android-csuite/tools/csuite_generate_module"
	TestcasesPath     = "android-csuite/testcases"
)

// ModuleConfigExt is the suffix of staged test descriptors in testcases/.
const ModuleConfigExt = ".config"

// TestcasesEnvVar points the launcher at the staged modules.
const TestcasesEnvVar = "ANDROID_TARGET_OUT_TESTCASES"

// unsetEnvVars would otherwise let the launcher pick up a build tree or a
// different device.
var unsetEnvVars = []string{
	"ANDROID_BUILD_TOP",
	"ANDROID_HOST_OUT",
	"ANDROID_HOST_OUT_TESTCASES",
	"ANDROID_TARGET_OUT_TESTCASES",
	"ANDROID_SERIAL",
}

// Options configures a Suite.
type Options struct {
	// Runner executes the launcher. Defaults to exec.NewOSRunner().
	Runner exec.Runner
	// Template shapes the staged modules.
	Template module.Template
	// BaseEnv is the environment the launcher environment is derived from.
	// Defaults to os.Environ().
	BaseEnv []string
}

// Suite is an extracted standalone harness distribution.
type Suite struct {
	root      string
	runner    exec.Runner
	generator *module.Generator
	baseEnv   []string
}

// Open extracts the suite archive at zipPath into a new temporary directory.
// The returned suite must be closed to remove it.
func Open(zipPath string, opts Options) (*Suite, error) {
	root, err := os.MkdirTemp("", "csuite-suite")
	if err != nil {
		return nil, fmt.Errorf("failed to create suite directory: %w", err)
	}

	if err := extract(zipPath, root); err != nil {
		os.RemoveAll(root)
		return nil, fmt.Errorf("failed to extract suite %s: %w", zipPath, err)
	}
	for _, tool := range []string{LauncherPath, GeneratorToolPath} {
		if err := makeExecutable(filepath.Join(root, filepath.FromSlash(tool))); err != nil {
			os.RemoveAll(root)
			return nil, fmt.Errorf("invalid suite %s: %w", zipPath, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(TestcasesPath)), 0o755); err != nil {
		os.RemoveAll(root)
		return nil, err
	}

	runner := opts.Runner
	if runner == nil {
		runner = exec.NewOSRunner()
	}
	baseEnv := opts.BaseEnv
	if baseEnv == nil {
		baseEnv = os.Environ()
	}

	logging.Info(harnessSubsystem, "Extracted suite %s to %s", zipPath, root)
	return &Suite{
		root:      root,
		runner:    runner,
		generator: module.NewGenerator(opts.Template),
		baseEnv:   baseEnv,
	}, nil
}

// Root returns the extraction directory.
func (s *Suite) Root() string {
	return s.root
}

// Launcher returns the path of the harness launcher.
func (s *Suite) Launcher() string {
	return filepath.Join(s.root, filepath.FromSlash(LauncherPath))
}

// TestcasesDir returns the directory modules are staged into.
func (s *Suite) TestcasesDir() string {
	return filepath.Join(s.root, filepath.FromSlash(TestcasesPath))
}

// AddModule generates the module for pkg and stages its test descriptor as
// testcases/<module>.config. It returns the module name.
func (s *Suite) AddModule(pkg string) (string, error) {
	workDir, err := os.MkdirTemp("", "csuite-module")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(workDir)

	dir, err := s.generator.GeneratePackage(pkg, workDir)
	if err != nil {
		return "", err
	}

	name := s.generator.Template().ModuleName(pkg)
	src := filepath.Join(dir, module.TestDescriptorFileName)
	dst := filepath.Join(s.TestcasesDir(), name+ModuleConfigExt)
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to stage module %s: %w", name, err)
	}

	logging.Debug(harnessSubsystem, "Staged module %s at %s", name, dst)
	return name, nil
}

// Environ returns the launcher environment: the base environment without any
// variable that could redirect the launcher, plus the testcases location.
func (s *Suite) Environ() []string {
	return exec.Environ(s.baseEnv, unsetEnvVars, map[string]string{
		TestcasesEnvVar: s.TestcasesDir(),
	})
}

// RunAndWait runs the launcher with flags and waits for it. The exit status
// is returned in the result and never treated as an error; only a launcher
// that cannot be run at all fails.
func (s *Suite) RunAndWait(ctx context.Context, flags []string) (exec.Result, error) {
	cmd := exec.Command{
		Args: append([]string{s.Launcher()}, flags...),
		Env:  s.Environ(),
	}
	logging.Info(harnessSubsystem, "Running harness: %s", cmd)
	result, err := s.runner.Run(ctx, cmd)
	if err != nil {
		return result, err
	}
	logging.Info(harnessSubsystem, "Harness exited with status %d", result.ExitCode)
	return result, nil
}

// Close removes the extracted suite. It is safe to call more than once.
func (s *Suite) Close() error {
	if s.root == "" {
		return nil
	}
	err := os.RemoveAll(s.root)
	s.root = ""
	return err
}
