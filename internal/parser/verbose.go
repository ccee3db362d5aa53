package parser

import "strings"

// leadingFlags recognizes an inline flag group at the very start of the
// pattern, such as `(?x)`. It returns whether verbose mode is on and how
// many bytes the group consumed. Flags other than `x` are accepted but
// have no structural effect. Anything that is not a pure flag group is
// left for the group parser to deal with.
func leadingFlags(src string) (verbose bool, consumed int) {
	if !strings.HasPrefix(src, "(?") {
		return false, 0
	}
	i := 2
	for i < len(src) && src[i] != ')' {
		switch src[i] {
		case 'x':
			verbose = true
		case 'i', 'm', 's', 'U':
			// accepted, no structural effect
		default:
			return false, 0
		}
		i++
	}
	if i == 2 || i >= len(src) {
		return false, 0
	}
	return verbose, i + 1
}

func isVerboseSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// stripVerbose removes insignificant whitespace and `#`-to-end-of-line
// comments from a verbose-mode pattern. Both stay literal inside bracket
// expressions and after a backslash. posMap maps every byte of the cleaned
// pattern back to its offset in the original input, offset by base, so
// parse errors can point at the text the caller actually wrote.
func stripVerbose(src string, base int) (clean string, posMap []int) {
	var b strings.Builder
	posMap = make([]int, 0, len(src))
	inClass := false

	keep := func(at int, ch byte) {
		b.WriteByte(ch)
		posMap = append(posMap, base+at)
	}

	i := 0
	for i < len(src) {
		ch := src[i]
		if ch == '\\' && i+1 < len(src) {
			keep(i, ch)
			keep(i+1, src[i+1])
			i += 2
			continue
		}
		if !inClass {
			if isVerboseSpace(ch) {
				i++
				continue
			}
			if ch == '#' {
				for i < len(src) && src[i] != '\n' {
					i++
				}
				continue
			}
		}
		if ch == '[' && !inClass {
			inClass = true
		} else if ch == ']' && inClass {
			inClass = false
		}
		keep(i, ch)
		i++
	}
	return b.String(), posMap
}
