package xrserve

import (
	"net"
	"testing"
)

// TestOutboundIP_NoRoute tests the fallback when the probe address is unusable
func TestOutboundIP_NoRoute(t *testing.T) {
	if got := outboundIP("256.256.256.256:80"); got != "localhost" {
		t.Errorf("expected 'localhost', got %q", got)
	}
}

// TestOutboundIP_ValidAddress tests that a successful probe yields a parseable IPv4
func TestOutboundIP_ValidAddress(t *testing.T) {
	got := OutboundIP()
	if got == "localhost" {
		t.Skip("no network route, fallback returned")
	}
	ip := net.ParseIP(got)
	if ip == nil || ip.To4() == nil {
		t.Errorf("expected an IPv4 address, got %q", got)
	}
}
