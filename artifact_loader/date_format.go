package artifact_loader

import (
	"regexp"
	"strings"
)

// builtInDateFormats are the built-in number format ids which render as a date or time
var builtInDateFormats = func() map[int]struct{} {
	res := make(map[int]struct{})
	for _, r := range [][2]int{{14, 22}, {27, 36}, {45, 47}, {50, 58}} {
		for id := r[0]; id <= r[1]; id++ {
			res[id] = struct{}{}
		}
	}
	return res
}()

var (
	quotedLiteral  = regexp.MustCompile(`"[^"]*"`)
	escapedChar    = regexp.MustCompile(`\\.`)
	paddingChar    = regexp.MustCompile(`[_*].`)
	elapsedTime    = regexp.MustCompile(`(?i)\[(h+|m+|s+)\]`)
	bracketBlock   = regexp.MustCompile(`\[[^\]]*\]`)
	amPm           = regexp.MustCompile(`(?i)(am/pm|a/p)`)
	dateCharacters = regexp.MustCompile(`^[yYmMdDhHsSeEbBgG\-/,. :年月日时分秒]+0*$`)
	dateToken      = regexp.MustCompile(`[yYmMdDhHsS年月日时分秒]`)
)

// IsDateFormat returns whether a number format renders its value as a date or time.
// numFmtId is the built-in format id and code the custom format code, if any.
func IsDateFormat(numFmtId int, code string) bool {
	if _, ok := builtInDateFormats[numFmtId]; ok {
		return true
	}
	return IsDateFormatCode(code)
}

// IsDateFormatCode inspects a format code such as "yyyy-mm-dd" or "0.00".
// Only the first (positive number) section is considered.
func IsDateFormatCode(code string) bool {
	if code == "" {
		return false
	}
	s := quotedLiteral.ReplaceAllString(code, "")
	s = escapedChar.ReplaceAllString(s, "")
	s = paddingChar.ReplaceAllString(s, "")
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	if elapsedTime.MatchString(s) {
		return true
	}
	s = bracketBlock.ReplaceAllString(s, "")
	s = amPm.ReplaceAllString(s, "")
	if s == "" {
		return false
	}
	return dateCharacters.MatchString(s) && dateToken.MatchString(s)
}
