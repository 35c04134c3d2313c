package service

// printableASCII reports whether every byte of s is a printable ASCII
// character (code points 32 to 126). Multi-byte UTF-8 sequences fail the
// check byte-wise, which is the intended behavior: usernames and post
// content are printable-ASCII-only. The empty string passes.
func printableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 32 || s[i] > 126 {
			return false
		}
	}
	return true
}
