package errors

import (
	"strings"
	"testing"
)

func TestValidateRouterID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "R1", false},
		{"hostname style", "core-rtr-01.nyc", false},
		{"underscore", "edge_1", false},
		{"empty", "", true},
		{"path traversal", "../etc/passwd", true},
		{"double slash", "a//b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"control character", "a\nb", true},
		{"too long", strings.Repeat("a", 257), true},
		{"max length ok", strings.Repeat("a", 256), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRouterID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRouterID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidRouter) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidRouter)
			}
		})
	}
}

func TestValidateInterfaceName(t *testing.T) {
	tests := []struct {
		name    string
		iface   string
		wantErr bool
	}{
		{"cisco short", "Gi0/0", false},
		{"cisco long", "GigabitEthernet0/0/1", false},
		{"linux", "eth0", false},
		{"loopback", "lo", false},
		{"dotted subinterface", "Gi0/0.100", false},
		{"empty", "", true},
		{"leading digit", "0eth", true},
		{"spaces", "Gi 0/0", true},
		{"too long", strings.Repeat("e", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInterfaceName(tt.iface)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateInterfaceName(%q) error = %v, wantErr %v", tt.iface, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCIDR(t *testing.T) {
	tests := []struct {
		name    string
		cidr    string
		wantErr bool
	}{
		{"typical", "10.12.12.1/24", false},
		{"host route", "192.168.0.1/32", false},
		{"zero octets", "0.0.0.0/0", false},
		{"empty", "", true},
		{"no prefix", "10.12.12.1", true},
		{"prefix too large", "10.0.0.1/33", true},
		{"negative prefix", "10.0.0.1/-1", true},
		{"three octets", "10.0.1/24", true},
		{"octet out of range", "10.0.0.256/24", true},
		{"leading zero octet", "10.01.0.1/24", true},
		{"not numeric", "ten.0.0.1/24", true},
		{"ipv6", "fe80::1/64", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCIDR(tt.cidr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCIDR(%q) error = %v, wantErr %v", tt.cidr, err, tt.wantErr)
			}
		})
	}
}

func TestValidateASNumber(t *testing.T) {
	tests := []struct {
		name    string
		asn     int
		wantErr bool
	}{
		{"private range", 64512, false},
		{"small", 1, false},
		{"32-bit max", 4294967295, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"too large", 4294967296, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateASNumber(tt.asn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateASNumber(%d) error = %v, wantErr %v", tt.asn, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "topologies/lab.json", false},
		{"absolute", "/var/lib/bgpmap/lab.json", false},
		{"empty", "", true},
		{"traversal", "../secrets", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
