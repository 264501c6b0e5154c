// Package netx discovers the device's local network address and decides
// whether it qualifies for LAN presence heartbeating.
package netx

import (
	"fmt"
	"net"
)

// LocalIPv4 returns the device's active private IPv4 address. Interfaces
// that are down or loopback are skipped. The presence beacon treats a
// missing private address as "not on a qualifying network".
func LocalIPv4() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("listing interfaces: %w", err)
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
			if ip := privateIPv4(addr); ip != "" {
				return ip, nil
			}
		}
	}

	return "", fmt.Errorf("no qualifying local network address found")
}

func privateIPv4(addr net.Addr) string {
	ipnet, ok := addr.(*net.IPNet)
	if !ok {
		return ""
	}
	ip4 := ipnet.IP.To4()
	if ip4 == nil {
		return ""
	}
	if !ip4.IsPrivate() {
		return ""
	}
	return ip4.String()
}
