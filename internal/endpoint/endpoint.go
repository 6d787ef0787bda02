package endpoint

import (
	"fmt"
	"strconv"
)

// Role names a logical platform endpoint with a fixed port.
type Role string

const (
	Controller     Role = "controller"
	DomainRegister Role = "domain_register"
	Orchestrator   Role = "orchestrator"
	NodeRegister   Role = "node_register"
	Agent          Role = "agent"
	Invocation     Role = "invocation"
	Metrics        Role = "metrics"
	Redis          Role = "redis"
)

var ports = map[Role]int{
	Controller:     7001,
	DomainRegister: 7002,
	Orchestrator:   7003,
	NodeRegister:   7004,
	Agent:          7005,
	Invocation:     7006,
	Metrics:        7007,
	Redis:          6379,
}

// Port returns the fixed port for role.
func Port(role Role) (int, bool) {
	p, ok := ports[role]
	return p, ok
}

// URL builds https://{host}:{port}. host is used verbatim.
func URL(host string, port int) string {
	return "https://" + host + ":" + strconv.Itoa(port)
}

// For returns the endpoint URL of role served at host.
func For(role Role, host string) (string, error) {
	p, ok := ports[role]
	if !ok {
		return "", fmt.Errorf("unknown endpoint role %q", role)
	}
	return URL(host, p), nil
}
