package system

import (
	"net"
)

// GetLocalIP returns the address of the interface used for outbound traffic,
// or "" when there is no route.
func GetLocalIP() string {
	conn, err := net.Dial("udp", "192.0.2.1:9")
	if err != nil {
		return ""
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP.IsLoopback() {
		return ""
	}
	return addr.IP.String()
}
