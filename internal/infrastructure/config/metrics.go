package config

import (
	"fmt"
	"net"
	"strconv"
)

// MetricsConfig controls the Prometheus endpoint served during `run --metrics`
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Host defaults to localhost so scheduler internals stay off the network
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`
	Path string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

// Address is the host:port the metrics server listens on
func (c MetricsConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Endpoint is the scrape URL
func (c MetricsConfig) Endpoint() string {
	return fmt.Sprintf("http://%s%s", c.Address(), c.Path)
}
