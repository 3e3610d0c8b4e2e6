package validation

import "strings"

// ValidIPv4 reports whether s is a strictly formatted IPv4 address: exactly
// four dot-separated decimal groups, each containing only digits, with no
// leading zero unless the group is exactly "0", and each parsing to 0-255.
// No leniency for whitespace, IPv6 or CIDR notation.
func ValidIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
		if part != "0" && part[0] == '0' {
			return false
		}
		n := 0
		for i := 0; i < len(part); i++ {
			c := part[i]
			if c < '0' || c > '9' {
				return false
			}
			n = n*10 + int(c-'0')
			if n > 255 {
				return false
			}
		}
	}
	return true
}
