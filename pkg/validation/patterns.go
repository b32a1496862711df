package validation

import (
	"regexp"
	"sync"
)

type compiled struct {
	re  *regexp.Regexp
	err error
}

var (
	patternMu    sync.RWMutex
	patternCache = make(map[string]compiled)
)

// compilePattern anchors the expression so it must match the whole value and
// memoises the outcome, including compile errors.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	patternMu.RLock()
	entry, ok := patternCache[pattern]
	patternMu.RUnlock()
	if ok {
		return entry.re, entry.err
	}

	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	patternMu.Lock()
	patternCache[pattern] = compiled{re: re, err: err}
	patternMu.Unlock()
	return re, err
}

// CheckPattern reports whether pattern compiles as a field pattern.
func CheckPattern(pattern string) error {
	_, err := compilePattern(pattern)
	return err
}
