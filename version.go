package glshim

import (
	"strconv"
	"strings"
)

// Directive is a parsed #version line.
type Directive struct {
	Number  int
	Profile string // "es", "core", "compatibility" or empty

	// Start and End are the byte offsets of the directive text in the
	// source, excluding the line terminator.
	Start, End int
}

// String renders the directive as GLSL text.
func (d Directive) String() string {
	s := "#version " + strconv.Itoa(d.Number)
	if d.Profile != "" {
		s += " " + d.Profile
	}
	return s
}

// ParseVersion finds the #version directive of a GLSL source. Only
// whitespace and comments may precede it; the first other token must be the
// directive itself.
func ParseVersion(src string) (Directive, error) {
	i := skipPreamble(src)
	if i >= len(src) || src[i] != '#' {
		return Directive{}, ErrMissingVersionDirective
	}
	start := i
	i = skipBlanks(src, i+1)
	if !strings.HasPrefix(src[i:], "version") {
		return Directive{}, ErrMissingVersionDirective
	}
	i += len("version")

	j := skipBlanks(src, i)
	if j == i {
		return Directive{}, ErrMissingVersionDirective
	}
	numStart := j
	for j < len(src) && isDigit(src[j]) {
		j++
	}
	if j == numStart || (j < len(src) && isIdentChar(src[j])) {
		return Directive{}, ErrMissingVersionDirective
	}
	n, err := strconv.Atoi(src[numStart:j])
	if err != nil {
		return Directive{}, ErrMissingVersionDirective
	}

	d := Directive{Number: n, Start: start, End: j}
	k := skipBlanks(src, j)
	if k < len(src) && isIdentStart(src[k]) {
		m := k
		for m < len(src) && isIdentChar(src[m]) {
			m++
		}
		d.Profile = src[k:m]
		d.End = m
	}
	return d, nil
}

// UpgradeVersion rewrites the #version directive of src to minVersion when the
// declared version is lower. The profile is appended when non-empty. Text
// after the directive is never touched. The returned directive describes the
// version of the returned source.
func UpgradeVersion(src string, minVersion int, profile string) (string, Directive, error) {
	d, err := ParseVersion(src)
	if err != nil {
		return src, d, err
	}
	if d.Number >= minVersion {
		return src, d, nil
	}

	up := Directive{Number: minVersion, Profile: profile, Start: d.Start}
	repl := up.String()
	up.End = d.Start + len(repl)
	return src[:d.Start] + repl + src[d.End:], up, nil
}

// skipPreamble returns the offset of the first byte that is neither
// whitespace nor part of a comment.
func skipPreamble(src string) int {
	i := 0
	if strings.HasPrefix(src, "\uFEFF") {
		i = len("\uFEFF")
	}
	for i < len(src) {
		switch {
		case isSpace(src[i]):
			i++
		case strings.HasPrefix(src[i:], "//"):
			nl := strings.IndexByte(src[i:], '\n')
			if nl < 0 {
				return len(src)
			}
			i += nl + 1
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return len(src)
			}
			i += 2 + end + 2
		default:
			return i
		}
	}
	return i
}

// skipBlanks skips spaces and tabs, never crossing a line.
func skipBlanks(src string, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool { return isIdentStart(c) || isDigit(c) }
