package internal

import (
	"fmt"
	"share-lab/infrastructure/mqtt"
	"time"
)

// Config drives the dashboard binary.
type Config struct {
	LogLevel string `env:"LOG_LEVEL,default=INFO"`
	Host     string `env:"HTTP_HOST,default=0.0.0.0"`
	Port     int    `env:"HTTP_PORT,default=8080"`

	MQTTBrokerURL      string        `env:"MQTT_BROKER_URL,default=tcp://127.0.0.1:1883"`
	MQTTClientID       string        `env:"MQTT_CLIENT_ID,default=share-lab-dashboard"`
	MQTTUsername       string        `env:"MQTT_USERNAME"`
	MQTTPassword       string        `env:"MQTT_PASSWORD"`
	MQTTQoS            int           `env:"MQTT_QOS,default=1"`
	MQTTConnectTimeout time.Duration `env:"MQTT_CONNECT_TIMEOUT,default=5s"`
	MQTTPublishTimeout time.Duration `env:"MQTT_PUBLISH_TIMEOUT,default=2s"`

	BufferSize        int           `env:"BUFFER_SIZE,default=128"`
	SinkTimeout       time.Duration `env:"SINK_TIMEOUT,default=2s"`
	CommandTimeout    time.Duration `env:"COMMAND_TIMEOUT,default=3s"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=2s"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=10s"`
	MetricInterval    time.Duration `env:"METRIC_INTERVAL,default=30s"`

	LowCapacityThreshold int `env:"LOW_CAPACITY_THRESHOLD,default=10"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	HistoryLimit   int    `env:"HISTORY_LIMIT,default=50"`

	AdminPassword     string        `env:"ADMIN_PASSWORD,required=true"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=12h"`

	SpeechAPIKey   string        `env:"SPEECH_API_KEY"`
	SpeechLanguage string        `env:"SPEECH_LANGUAGE,default=ko-KR"`
	SpeechEndpoint string        `env:"SPEECH_ENDPOINT"`
	SpeechTimeout  time.Duration `env:"SPEECH_TIMEOUT,default=10s"`
	VoiceDebounce  time.Duration `env:"VOICE_DEBOUNCE,default=2s"`
	VoiceLogSize   int           `env:"VOICE_LOG_SIZE,default=20"`

	StatsHistory int `env:"STATS_HISTORY,default=20"`
	DebugPort    int `env:"DEBUG_PORT,default=8081"`
}

// SignalingConfig drives the signaling binary.
type SignalingConfig struct {
	LogLevel      string        `env:"LOG_LEVEL,default=INFO"`
	Host          string        `env:"HTTP_HOST,default=0.0.0.0"`
	Port          int           `env:"SIGNALING_PORT,default=3001"`
	MQTTBrokerURL string        `env:"MQTT_BROKER_URL,default=tcp://127.0.0.1:1883"`
	MQTTClientID  string        `env:"MQTT_CLIENT_ID,default=share-lab-signaling"`
	MQTTUsername  string        `env:"MQTT_USERNAME"`
	MQTTPassword  string        `env:"MQTT_PASSWORD"`
	MQTTQoS       int           `env:"MQTT_QOS,default=1"`
	ConnectTimeout time.Duration `env:"MQTT_CONNECT_TIMEOUT,default=5s"`
	BufferSize    int           `env:"BUFFER_SIZE,default=128"`
}

func (c Config) Validate() error {
	if err := validQoS(c.MQTTQoS); err != nil {
		return err
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("BUFFER_SIZE must be positive, got %d", c.BufferSize)
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("COMMAND_TIMEOUT must be positive, got %s", c.CommandTimeout)
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	return nil
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) MQTT() mqtt.Config {
	return mqtt.Config{
		BrokerURL:      c.MQTTBrokerURL,
		ClientID:       c.MQTTClientID,
		Username:       c.MQTTUsername,
		Password:       c.MQTTPassword,
		QoS:            byte(c.MQTTQoS),
		ConnectTimeout: c.MQTTConnectTimeout,
		PublishTimeout: c.MQTTPublishTimeout,
	}
}

func (c SignalingConfig) Validate() error {
	return validQoS(c.MQTTQoS)
}

func (c SignalingConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c SignalingConfig) MQTT() mqtt.Config {
	return mqtt.Config{
		BrokerURL:      c.MQTTBrokerURL,
		ClientID:       c.MQTTClientID,
		Username:       c.MQTTUsername,
		Password:       c.MQTTPassword,
		QoS:            byte(c.MQTTQoS),
		ConnectTimeout: c.ConnectTimeout,
		PublishTimeout: c.ConnectTimeout,
	}
}

func validQoS(qos int) error {
	if qos < 0 || qos > 2 {
		return fmt.Errorf("MQTT_QOS must be 0, 1 or 2, got %d", qos)
	}
	return nil
}
