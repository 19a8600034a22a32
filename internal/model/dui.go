package model

import "regexp"

var duiPattern = regexp.MustCompile(`^\d{8}-\d$`)

// ValidDUI reports whether s is a national id number in 00000000-0 form.
func ValidDUI(s string) bool {
	return duiPattern.MatchString(s)
}
