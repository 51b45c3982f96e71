package errors

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ValidateRouterID validates a router identifier for safety and correctness.
// Identifiers become node IDs, file-cache key material and DOT identifiers,
// so the rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No path traversal sequences (.., //, backslash)
//   - Maximum length of 256 characters
func ValidateRouterID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidRouter, "router id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidRouter, "router id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRouter, "router id contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidRouter, "router id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// interfaceNameRegex matches interface names as they appear on network gear,
// e.g. "Gi0/0", "eth0", "GigabitEthernet0/0/1", "lo".
var interfaceNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._/-]*$`)

// ValidateInterfaceName validates an interface name.
func ValidateInterfaceName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInterface, "interface name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidInterface, "interface name too long (max 64 characters)")
	}

	if !interfaceNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInterface, "invalid interface name: %q", name)
	}

	return nil
}

// ValidateCIDR validates a dotted-quad IPv4 address in CIDR notation,
// e.g. "10.12.12.1/24".
func ValidateCIDR(cidr string) error {
	if cidr == "" {
		return New(ErrCodeInvalidInterface, "address cannot be empty")
	}

	addr, mask, ok := strings.Cut(cidr, "/")
	if !ok {
		return New(ErrCodeInvalidInterface, "address %q missing prefix length", cidr)
	}

	bits, err := strconv.Atoi(mask)
	if err != nil || bits < 0 || bits > 32 {
		return New(ErrCodeInvalidInterface, "address %q has invalid prefix length", cidr)
	}

	octets := strings.Split(addr, ".")
	if len(octets) != 4 {
		return New(ErrCodeInvalidInterface, "address %q is not dotted-quad IPv4", cidr)
	}
	for _, o := range octets {
		n, err := strconv.Atoi(o)
		if err != nil || n < 0 || n > 255 || (len(o) > 1 && o[0] == '0') {
			return New(ErrCodeInvalidInterface, "address %q has invalid octet %q", cidr, o)
		}
	}

	return nil
}

// ValidateASNumber validates an autonomous system number. Zero is reserved
// and 32-bit AS numbers top out at 4294967295.
func ValidateASNumber(asn int) error {
	if asn <= 0 || asn > 4294967295 {
		return New(ErrCodeInvalidInput, "invalid AS number: %d", asn)
	}
	return nil
}

// ValidatePath validates a file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
