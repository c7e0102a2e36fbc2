package module

import "bytes"

// AutoGeneratedMarker tags every file the generator writes. Regeneration only
// deletes files that contain it.
const AutoGeneratedMarker = "THIS FILE WAS AUTO-GENERATED. DO NOT EDIT MANUALLY!"

// ContainsMarker reports whether contents were produced by the generator.
func ContainsMarker(contents []byte) bool {
	return bytes.Contains(contents, []byte(AutoGeneratedMarker))
}
