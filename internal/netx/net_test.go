package netx

import (
	"errors"
	"net"
	"testing"
)

func TestFirstNonLoopbackIPv4(t *testing.T) {
	addr, err := FirstNonLoopbackIPv4()
	if err != nil {
		// Loopback-only hosts (CI sandboxes) are a legitimate outcome.
		if !errors.Is(err, ErrNoAddress) {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}

	ip := net.ParseIP(addr)
	if ip == nil {
		t.Fatalf("result %q is not a valid IP", addr)
	}
	if ip.To4() == nil {
		t.Fatalf("result %q is not IPv4", addr)
	}
	if ip.IsLoopback() {
		t.Fatalf("result %q is a loopback address", addr)
	}
}
