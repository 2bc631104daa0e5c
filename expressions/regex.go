package expressions

// RegexFlag modifies regex matching behavior. Flags combine with bitwise
// or.
type RegexFlag int64

const (
	// RegexNone uses default matching.
	RegexNone RegexFlag = 0
	// RegexExtended uses POSIX extended syntax.
	RegexExtended RegexFlag = 1
	// RegexICase ignores case.
	RegexICase RegexFlag = 2
	// RegexNoSub does not report match positions.
	RegexNoSub RegexFlag = 3
	// RegexNewline keeps a match from crossing a newline.
	RegexNewline RegexFlag = 8
)
