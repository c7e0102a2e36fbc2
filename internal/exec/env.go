package exec

import (
	"sort"
	"strings"
)

// Environ derives a child environment from base. Variables named in unset are
// dropped, then every entry of set is applied. The result keeps base order for
// surviving entries and appends new variables sorted by name.
func Environ(base []string, unset []string, set map[string]string) []string {
	drop := make(map[string]bool, len(unset)+len(set))
	for _, name := range unset {
		drop[name] = true
	}
	for name := range set {
		drop[name] = true
	}

	env := make([]string, 0, len(base)+len(set))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if drop[name] {
			continue
		}
		env = append(env, kv)
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		env = append(env, name+"="+set[name])
	}
	return env
}
