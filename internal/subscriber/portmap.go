package subscriber

import (
	"errors"
	"fmt"
	"net"

	"github.com/huin/goupnp/dcps/internetgateway2"
)

// portMappingDescription labels our mapping in the gateway's table.
const portMappingDescription = "alexa-chromecast"

// PortMapper forwards a TCP port on the local internet gateway to this
// host. Used when no manual port forward is configured.
type PortMapper interface {
	// Forward maps external port -> this host's same port over TCP.
	Forward(port uint16) error
	// Unforward removes a mapping created by Forward.
	Unforward(port uint16) error
	// ExternalIP returns the gateway's WAN address.
	ExternalIP() (string, error)
}

// upnpMapper implements PortMapper via the gateway's WANIPConnection
// service.
type upnpMapper struct {
	client *internetgateway2.WANIPConnection1
	lanIP  string
}

// DiscoverGateway locates a UPnP internet gateway on the LAN and returns a
// PortMapper bound to it.
func DiscoverGateway() (PortMapper, error) {
	clients, _, err := internetgateway2.NewWANIPConnection1Clients()
	if err != nil {
		return nil, fmt.Errorf("UPnP discovery: %w", err)
	}
	if len(clients) == 0 {
		return nil, errors.New("no UPnP internet gateway found")
	}
	lanIP, err := localIP()
	if err != nil {
		return nil, fmt.Errorf("determine LAN address: %w", err)
	}
	return &upnpMapper{client: clients[0], lanIP: lanIP}, nil
}

func (m *upnpMapper) Forward(port uint16) error {
	return m.client.AddPortMapping("", port, "TCP", port, m.lanIP, true, portMappingDescription, 0)
}

func (m *upnpMapper) Unforward(port uint16) error {
	return m.client.DeletePortMapping("", port, "TCP")
}

func (m *upnpMapper) ExternalIP() (string, error) {
	return m.client.GetExternalIPAddress()
}

// localIP returns the address of the interface holding the default route.
// The connection is never used; UDP dial just resolves the route.
func localIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "", fmt.Errorf("unexpected local address %v", conn.LocalAddr())
	}
	return addr.IP.String(), nil
}
