package artifact

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"csuite/internal/packagelist"
	"csuite/pkg/logging"
)

// ErrAlreadyExists is returned when artifacts for a package are added twice.
var ErrAlreadyExists = errors.New("package artifacts already exist")

// Store is a temporary directory holding artifact files grouped per package.
// The layout is <root>/<package>/<file>, which is what the harness expects
// for its APK directory flag.
type Store struct {
	mu       sync.Mutex
	root     string
	packages map[string][]string
	closed   bool
}

// NewStore creates a store in a fresh temporary directory whose name starts
// with prefix.
func NewStore(prefix string) (*Store, error) {
	root, err := os.MkdirTemp("", prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact store: %w", err)
	}
	logging.Debug("Artifacts", "Created artifact store at %s", root)
	return &Store{root: root, packages: make(map[string][]string)}, nil
}

// WithStore runs fn with a new store and removes the store afterwards, also
// when fn panics.
func WithStore(prefix string, fn func(*Store) error) (err error) {
	s, err := NewStore(prefix)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Cleanup(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// RootPath returns the store's root directory.
func (s *Store) RootPath() string {
	return s.root
}

// AddPackageArtifacts creates the package directory and copies every file in
// paths into it, keeping base names. A package can only be added once; a
// failed add leaves nothing behind, so it can be retried.
func (s *Store) AddPackageArtifacts(pkg string, paths []string) error {
	if err := packagelist.Validate(pkg); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("artifact store %s is closed", s.root)
	}

	dir := filepath.Join(s.root, pkg)
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, pkg)
		}
		return fmt.Errorf("failed to create artifact directory for %s: %w", pkg, err)
	}

	staged := make([]string, 0, len(paths))
	for _, src := range paths {
		dst := filepath.Join(dir, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			os.RemoveAll(dir)
			return fmt.Errorf("failed to stage %s for %s: %w", src, pkg, err)
		}
		staged = append(staged, dst)
	}
	s.packages[pkg] = staged

	logging.Debug("Artifacts", "Staged %d artifact(s) for %s", len(staged), pkg)
	return nil
}

// PackageArtifacts returns the staged files of pkg in the order they were added.
func (s *Store) PackageArtifacts(pkg string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.packages[pkg]...)
}

// Cleanup removes the store's directory. Calling it again is a no-op.
func (s *Store) Cleanup() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("failed to remove artifact store %s: %w", s.root, err)
	}
	logging.Debug("Artifacts", "Removed artifact store at %s", s.root)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &fs.PathError{Op: "copy", Path: src, Err: errors.New("is a directory")}
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
