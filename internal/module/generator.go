package module

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"csuite/internal/packagelist"
	"csuite/pkg/logging"
)

// Generator writes module descriptors below a root directory.
type Generator struct {
	template Template
}

// NewGenerator creates a generator for tmpl, defaulting any empty fields.
func NewGenerator(tmpl Template) *Generator {
	return &Generator{template: tmpl.WithDefaults()}
}

// Template returns the effective template.
func (g *Generator) Template() Template {
	return g.template
}

// Generate reads the package list and regenerates rootDir from it.
func (g *Generator) Generate(packageListPath, rootDir string) error {
	if err := checkRootDir(rootDir); err != nil {
		return err
	}
	pkgs, err := packagelist.ReadFile(packageListPath)
	if err != nil {
		return err
	}
	return g.GeneratePackages(pkgs, rootDir)
}

// GeneratePackages removes previously generated files under rootDir and writes
// a fresh module directory for each package. Files without the marker are
// never touched; a package directory kept alive by such files is a collision.
func (g *Generator) GeneratePackages(pkgs []string, rootDir string) error {
	if err := checkRootDir(rootDir); err != nil {
		return err
	}
	for _, pkg := range pkgs {
		if err := validatePackage(pkg); err != nil {
			return err
		}
	}

	if err := RemoveGenerated(rootDir); err != nil {
		return err
	}

	for _, pkg := range pkgs {
		if _, err := g.GeneratePackage(pkg, rootDir); err != nil {
			return err
		}
	}
	logging.Info("Generator", "Generated %d module(s) in %s", len(pkgs), rootDir)
	return nil
}

// GeneratePackage writes the descriptors of one package into a new directory
// <rootDir>/<pkg> and returns that directory.
func (g *Generator) GeneratePackage(pkg, rootDir string) (string, error) {
	if err := validatePackage(pkg); err != nil {
		return "", err
	}
	dir := filepath.Join(rootDir, pkg)
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", &PackageDirExistsError{Package: pkg, Dir: dir, Err: err}
		}
		return "", fmt.Errorf("failed to create module directory for %s: %w", pkg, err)
	}

	if err := writeFile(filepath.Join(dir, BuildDescriptorFileName), func(f *os.File) error {
		return g.template.WriteBuildDescriptor(f, pkg)
	}); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(dir, TestDescriptorFileName), func(f *os.File) error {
		return g.template.WriteTestDescriptor(f, pkg)
	}); err != nil {
		return "", err
	}

	logging.Debug("Generator", "Wrote module %s to %s", g.template.ModuleName(pkg), dir)
	return dir, nil
}

// RemoveGenerated deletes every descriptor under rootDir that carries the
// marker, then removes directories left empty. rootDir itself is kept.
func RemoveGenerated(rootDir string) error {
	var dirs []string
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != rootDir {
				dirs = append(dirs, path)
			}
			return nil
		}
		if !isDescriptorName(d.Name()) || !d.Type().IsRegular() {
			return nil
		}
		contents, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !ContainsMarker(contents) {
			logging.Debug("Generator", "Keeping hand-authored %s", path)
			return nil
		}
		logging.Debug("Generator", "Removing %s", path)
		return os.Remove(path)
	})
	if err != nil {
		return fmt.Errorf("failed to clean %s: %w", rootDir, err)
	}

	// WalkDir visits parents before children, so the reverse order is deepest first.
	for i := len(dirs) - 1; i >= 0; i-- {
		entries, err := os.ReadDir(dirs[i])
		if err != nil {
			return err
		}
		if len(entries) > 0 {
			continue
		}
		if err := os.Remove(dirs[i]); err != nil {
			return err
		}
	}
	return nil
}

func isDescriptorName(name string) bool {
	return name == BuildDescriptorFileName || name == TestDescriptorFileName
}

func checkRootDir(rootDir string) error {
	info, err := os.Stat(rootDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "generate", Path: rootDir, Err: ErrNotDirectory}
	}
	return nil
}

func validatePackage(pkg string) error {
	return packagelist.Validate(pkg)
}

func writeFile(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return f.Close()
}
