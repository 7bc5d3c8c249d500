// Package netx contains small networking helpers.
package netx

import (
	"errors"
	"net"
)

// ErrNoAddress is returned when the host has no usable non-loopback IPv4
// address to advertise.
var ErrNoAddress = errors.New("no non-loopback IPv4 address found")

// FirstNonLoopbackIPv4 returns the host's first non-loopback IPv4 address.
// It is used as the advertised passive-mode address when none is configured:
// legacy FTP clients receive this address in PASV replies and must be able
// to reach it for data connections.
func FirstNonLoopbackIPv4() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.IsLoopback() {
				continue
			}
			if ip4 := ip.To4(); ip4 != nil {
				return ip4.String(), nil
			}
		}
	}

	return "", ErrNoAddress
}
