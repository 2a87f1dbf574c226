package ticker

// Character classes are ASCII-only. No locale-aware case folding is applied
// anywhere in the package.

func isUpper(c byte) bool { return 'A' <= c && c <= 'Z' }

func isLower(c byte) bool { return 'a' <= c && c <= 'z' }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// isWordByte reports whether c is a word character: [A-Za-z0-9_].
func isWordByte(c byte) bool {
	return isUpper(c) || isLower(c) || isDigit(c) || c == '_'
}

// isSpace reports whether r separates title tokens. The set is the
// ECMAScript whitespace class, which differs from unicode.IsSpace in that it
// includes U+FEFF and excludes U+0085.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		0x00A0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return 0x2000 <= r && r <= 0x200A
}

// lowerASCII lowercases A-Z and leaves every other byte as is.
func lowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if isUpper(s[i]) {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if isUpper(b[j]) {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}

// Normalize lowercases ASCII letters and removes every byte outside
// [a-z0-9], including spaces, hyphens and all non-ASCII text. It is the only
// comparison key used for company names and title phrases.
func Normalize(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isLower(c), isDigit(c):
			b = append(b, c)
		case isUpper(c):
			b = append(b, c+'a'-'A')
		}
	}
	return string(b)
}
