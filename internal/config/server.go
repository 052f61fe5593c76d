package config

import "time"

type Server struct {
	OpsAddress     string `env:"OPS_LISTEN_ADDRESS" envDefault:":8080"`
	ProbeAddress   string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
	MetricsAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`

	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}
