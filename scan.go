package pdf

import "bytes"

// findLast scans buf backward for the last exact occurrence of needle,
// returning its starting index, or -1 if absent. It is the slice-scanner
// component (spec §4.2) used to locate the footer keywords (startxref,
// trailer) without a forward scan of the whole file.
func findLast(buf, needle []byte) int {
	if len(needle) > len(buf) {
		return -1
	}
	return bytes.LastIndex(buf, needle)
}

// findLastLine is like findLast, but additionally requires that the match
// sit on its own line: the byte immediately before it (if any) and the byte
// immediately after it (if any) must be a newline byte. This is how
// startxref's value is disambiguated from the keyword appearing inside a
// comment or string earlier in the file.
func findLastLine(buf, needle []byte) int {
	max := len(buf)
	for {
		i := findLast(buf[:max], needle)
		if i < 0 {
			return -1
		}
		before := i == 0 || isNewline(buf[i-1])
		after := i+len(needle) >= len(buf) || isNewline(buf[i+len(needle)])
		if before && after {
			return i
		}
		max = i
	}
}
