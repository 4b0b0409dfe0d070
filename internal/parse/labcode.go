package parse

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	dashRunRe      = regexp.MustCompile(`-{2,}`)
	computingLabRe = regexp.MustCompile(`(^|-)COMPUTING-LAB(-|$)`)
	labTokenRe     = regexp.MustCompile(`(^|-)LAB(-|$)`)
)

// NormalizeCode uppercases a code and joins its words with dashes.
func NormalizeCode(raw string) string {
	s := whitespaceRe.ReplaceAllString(strings.TrimSpace(raw), "-")
	return strings.ToUpper(s)
}

// LabCode derives a lab's natural key from its display name.
//
//	"Networking Lab"        -> "NETWORKING-LAB"
//	"Computing Lab 2"       -> "LAB-2"
//	"Research Centre"       -> "LAB-RESEARCH-CENTRE"
func LabCode(name string) string {
	s := NormalizeCode(name)

	switch {
	case computingLabRe.MatchString(s):
		s = computingLabRe.ReplaceAllString(s, "${1}LAB${2}")
	case !labTokenRe.MatchString(s):
		s = "LAB-" + s
	}

	s = dashRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
