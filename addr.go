package xrserve

import (
	"net"
)

// probeAddr is never actually sent anything; connecting a UDP socket
// toward it only makes the kernel pick an outbound source address.
const probeAddr = "8.8.8.8:80"

// OutboundIP returns the host's outbound IPv4 address as a string, or
// "localhost" when there is no route. The result is display-only;
// never bind or authorize against it.
func OutboundIP() string {
	return outboundIP(probeAddr)
}

func outboundIP(probe string) string {
	conn, err := net.Dial("udp4", probe)
	if err != nil {
		return "localhost"
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}
