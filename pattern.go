package paragrep

import (
	"regexp"

	"github.com/pkg/errors"
)

// WrapPattern wraps a user-supplied POSIX ERE so that matches only occur
// at word-like boundaries: the characters flanking the match must be
// non-alphanumeric/non-underscore, or the string start/end. This is what
// stops the pattern "cat" from matching inside "category".
func WrapPattern(pattern string) string {
	return `(^|[^[:alnum:]_])(` + pattern + `)([^[:alnum:]_]|$)`
}

// CompilePattern wraps and compiles pattern as a POSIX extended regular
// expression. The regex engine itself is treated as an external black
// box offering compile/matches; regexp.CompilePOSIX gives Go's
// leftmost-longest POSIX ERE semantics, which is the correct stand-in
// rather than a library concern to source from elsewhere.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.CompilePOSIX(WrapPattern(pattern))
	if err != nil {
		return nil, errors.Wrap(err, "pattern compile")
	}
	return re, nil
}
