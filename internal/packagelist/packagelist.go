// Package packagelist reads the line-oriented package list files that drive
// module generation.
package packagelist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// CommentPrefix marks a line that is ignored.
const CommentPrefix = "#"

// ErrInvalidPackage is returned for identifiers that cannot name a directory
// directly below another one.
var ErrInvalidPackage = errors.New("invalid package identifier")

// Validate rejects identifiers that would resolve outside, or to, the
// directory they are joined to.
func Validate(pkg string) error {
	if pkg == "" || pkg == "." || pkg == ".." || strings.ContainsAny(pkg, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidPackage, pkg)
	}
	return nil
}

// Parse reads package identifiers from r. Surrounding whitespace is stripped,
// blank lines and lines starting with CommentPrefix are skipped and duplicates
// collapse. The result is sorted so callers iterate in a stable order.
func Parse(r io.Reader) ([]string, error) {
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}
		seen[line] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read package list: %w", err)
	}

	packages := make([]string, 0, len(seen))
	for pkg := range seen {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)
	return packages, nil
}

// ReadFile parses the package list stored at path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	packages, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return packages, nil
}

// Write stores packages one per line, the format Parse reads.
func Write(w io.Writer, packages []string) error {
	for _, pkg := range packages {
		if _, err := fmt.Fprintln(w, pkg); err != nil {
			return err
		}
	}
	return nil
}
