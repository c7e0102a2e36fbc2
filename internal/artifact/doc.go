// Package artifact stages per-package files (APKs and their splits) in a
// scoped temporary directory for one harness run.
package artifact
