package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"share-lab/errors"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

type Config struct {
	BrokerURL      string
	ClientID       string
	Username       string
	Password       string
	QoS            byte
	ConnectTimeout time.Duration
	PublishTimeout time.Duration
}

// pubSub is the part of the paho client the adapter relies on once connected.
type pubSub interface {
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	SubscribeMultiple(filters map[string]byte, callback paho.MessageHandler) paho.Token
}

// Client owns the broker connection. On every (re)connect it subscribes the
// router topics then sends the requests listed with OnConnectRequests, so that
// the state of the other side is pulled again after an outage.
type Client struct {
	log       *slog.Logger
	cfg       Config
	conn      paho.Client
	pubSub    pubSub
	router    *Router
	onConnect []string
}

func NewClient(log *slog.Logger, cfg Config, router *Router) *Client {
	c := &Client{log: log, cfg: cfg, router: router}

	opts := paho.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetOrderMatters(true).
		SetOnConnectHandler(func(paho.Client) { c.handleConnect() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			c.log.Warn("MQTT connection lost", "broker", cfg.BrokerURL, "err", err)
		}).
		SetReconnectingHandler(func(paho.Client, *paho.ClientOptions) {
			c.log.Info("MQTT reconnecting", "broker", cfg.BrokerURL)
		})
	if cfg.Username != "" {
		opts = opts.SetUsername(cfg.Username).SetPassword(cfg.Password)
	}

	c.conn = paho.NewClient(opts)
	c.pubSub = c.conn
	return c
}

// OnConnectRequests adds the empty request messages published after each connect.
func (c *Client) OnConnectRequests(topics ...string) *Client {
	c.onConnect = append(c.onConnect, topics...)
	return c
}

// Connect blocks until the first connection succeeds, the timeout expires or
// ctx is canceled. Reconnects afterwards happen in the background.
func (c *Client) Connect(ctx context.Context) error {
	token := c.conn.Connect()
	timeout := time.NewTimer(c.cfg.ConnectTimeout)
	defer timeout.Stop()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt connect to %s: %w", c.cfg.BrokerURL, err)
		}
		return nil
	case <-timeout.C:
		return fmt.Errorf("mqtt connect to %s: %w", c.cfg.BrokerURL, errors.ErrNotConnected)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) Disconnect() {
	c.conn.Disconnect(250)
	c.log.Info("MQTT disconnected")
}

// Publish sends payload and waits for the broker acknowledgement.
func (c *Client) Publish(topic string, payload []byte) error {
	if !c.pubSub.IsConnected() {
		return fmt.Errorf("publish %s: %w", topic, errors.ErrNotConnected)
	}
	token := c.pubSub.Publish(topic, c.cfg.QoS, false, payload)
	if !token.WaitTimeout(c.cfg.PublishTimeout) {
		return fmt.Errorf("publish %s: %w", topic, errors.ErrPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (c *Client) handleConnect() {
	c.log.Info("MQTT connected", "broker", c.cfg.BrokerURL, "client_id", c.cfg.ClientID)
	if c.router != nil {
		filters := make(map[string]byte)
		for _, topic := range c.router.Topics() {
			filters[topic] = c.cfg.QoS
		}
		if len(filters) > 0 {
			token := c.pubSub.SubscribeMultiple(filters, c.router.Handle)
			if !token.WaitTimeout(c.cfg.ConnectTimeout) || token.Error() != nil {
				c.log.Error("MQTT subscribe failed", "topics", c.router.Topics(), "err", token.Error())
				return
			}
		}
	}
	for _, topic := range c.onConnect {
		if err := c.Publish(topic, []byte{}); err != nil {
			c.log.Warn("State request not sent", "topic", topic, "err", err)
		}
	}
}
