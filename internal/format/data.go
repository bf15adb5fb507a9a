package format

// DefaultMaxDisplayLength is "0x" plus one 32-byte word.
const DefaultMaxDisplayLength = 66

// Ellipsis is appended to truncated byte strings.
const Ellipsis = "..."

// TruncateData returns s unchanged when it fits in max characters, otherwise
// its first max characters followed by Ellipsis. A non-positive max selects
// DefaultMaxDisplayLength.
func TruncateData(s string, max int) string {
	if max <= 0 {
		max = DefaultMaxDisplayLength
	}
	if len(s) <= max {
		return s
	}
	return s[:max] + Ellipsis
}

// IsEmptyData reports whether a call-data or return-data field carries no
// payload: absent, the bare prefix, or the single zero value.
func IsEmptyData(s *string) bool {
	if s == nil {
		return true
	}
	switch *s {
	case "0x", "0x0":
		return true
	}
	return false
}

// ShortenAddress renders 0x1234...abcd for compact labels.
func ShortenAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
