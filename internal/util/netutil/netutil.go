// Package netutil picks addresses of cluster farm nodes.
package netutil

import (
	"errors"
	"net"
	"os"
	"regexp"
	"strings"
)

// ErrPrivateIPNotFound is returned when no address matches the farm's
// private network.
var ErrPrivateIPNotFound = errors.New("private IP address not found")

var privateIPv4 = regexp.MustCompile(`^10\.\d+\.\d+\.\d+$`)

// PrivateIPv4 returns the first address on the 10.x.x.x network.
func PrivateIPv4(addrs []string) (string, error) {
	for _, a := range addrs {
		if ip := net.ParseIP(a); ip == nil || ip.To4() == nil {
			continue
		}
		if privateIPv4.MatchString(a) {
			return a, nil
		}
	}
	return "", ErrPrivateIPNotFound
}

// ParseAddresses splits `hostname -I` style output into addresses.
func ParseAddresses(output string) []string {
	return strings.Fields(output)
}

// LocalIPv4Addresses lists the IPv4 addresses of the local interfaces.
func LocalIPv4Addresses() ([]string, error) {
	ifaceAddrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, err
	}
	var addrs []string
	for _, a := range ifaceAddrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			addrs = append(addrs, ip4.String())
		}
	}
	return addrs, nil
}

// IsLocalHost reports whether host names the machine the CLI runs on.
func IsLocalHost(host string) bool {
	switch strings.ToLower(host) {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	name, err := os.Hostname()
	if err != nil {
		return false
	}
	if strings.EqualFold(host, name) {
		return true
	}
	// short name of the local FQDN
	short, _, _ := strings.Cut(name, ".")
	return strings.EqualFold(host, short)
}
