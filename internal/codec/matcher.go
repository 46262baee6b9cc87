package codec

import "regexp"

// declarationPattern matches a comment line naming an encoding, in either the
// editor form (# -*- coding: utf-8 -*-) or looser prose (# encoding: utf-8).
var declarationPattern = regexp.MustCompile(`^[ \t\v]*#.*?coding[:=][ \t]*([-_.a-zA-Z0-9]+)`)

// Match reports whether line declares an encoding and returns the captured name.
// The name is not validated.
func Match(line []byte) (string, bool) {
	m := declarationPattern.FindSubmatch(line)
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}

// MatchString is like Match but takes a string.
func MatchString(line string) (string, bool) {
	return Match([]byte(line))
}
