package module

import (
	"errors"
	"fmt"

	"csuite/internal/packagelist"
)

var (
	// ErrPackageDirExists is returned when a package directory survives
	// cleanup, usually because it holds hand-authored files.
	ErrPackageDirExists = errors.New("package directory already exists")

	// ErrInvalidPackage is returned for identifiers that cannot name a
	// directory directly below the root.
	ErrInvalidPackage = packagelist.ErrInvalidPackage

	// ErrNotDirectory is returned when the generation root is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// PackageDirExistsError reports the colliding directory.
type PackageDirExistsError struct {
	Package string
	Dir     string
	Err     error
}

func (e *PackageDirExistsError) Error() string {
	return fmt.Sprintf("cannot generate module for %s: %s already exists", e.Package, e.Dir)
}

// Is makes errors.Is(err, ErrPackageDirExists) hold.
func (e *PackageDirExistsError) Is(target error) bool {
	return target == ErrPackageDirExists
}

func (e *PackageDirExistsError) Unwrap() error {
	return e.Err
}
