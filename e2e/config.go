package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// DASHBOARD_ADDR is the base URL of a running dashboard, the suites are skipped without it
	DashboardAddr string `envconfig:"DASHBOARD_ADDR"`
	BrokerURL     string `envconfig:"MQTT_BROKER_URL" default:"tcp://127.0.0.1:1883"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
	// E2E_DEBUG_JSON dumps full HTTP response bodies
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
