package harness

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	passedPattern = regexp.MustCompile(`PASSED\s*:\s*(\d+)`)
	failedPattern = regexp.MustCompile(`FAILED\s*:\s*(\d+)`)
)

// Counts is the test summary printed by the harness.
type Counts struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// ParseError reports harness output without the expected summary markers.
type ParseError struct {
	Missing []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("harness output has no %v summary", e.Missing)
}

// ParseCounts extracts the passed and failed counters from harness stdout.
// When a counter is printed several times the last value wins, since the
// final summary comes last. Missing counters yield a *ParseError alongside
// whatever counts were found.
func ParseCounts(stdout string) (Counts, error) {
	var counts Counts
	var missing []string

	if v, ok := lastMatch(passedPattern, stdout); ok {
		counts.Passed = v
	} else {
		missing = append(missing, "PASSED")
	}
	if v, ok := lastMatch(failedPattern, stdout); ok {
		counts.Failed = v
	} else {
		missing = append(missing, "FAILED")
	}

	if len(missing) > 0 {
		return counts, &ParseError{Missing: missing}
	}
	return counts, nil
}

func lastMatch(re *regexp.Regexp, s string) (int, bool) {
	matches := re.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return 0, false
	}
	return n, true
}
