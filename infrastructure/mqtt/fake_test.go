package mqtt

import (
	"io"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

type fakeToken struct {
	err      error
	complete bool
}

func (t *fakeToken) Wait() bool                     { return t.complete }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.complete }
func (t *fakeToken) Error() error                   { return t.err }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if t.complete {
		close(ch)
	}
	return ch
}

type published struct {
	topic   string
	payload []byte
}

type fakePubSub struct {
	connected  bool
	token      *fakeToken
	published  []published
	subscribed map[string]byte
}

func (f *fakePubSub) IsConnected() bool { return f.connected }

func (f *fakePubSub) Publish(topic string, _ byte, _ bool, payload interface{}) paho.Token {
	f.published = append(f.published, published{topic: topic, payload: payload.([]byte)})
	return f.token
}

func (f *fakePubSub) SubscribeMultiple(filters map[string]byte, _ paho.MessageHandler) paho.Token {
	f.subscribed = filters
	return f.token
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(fake *fakePubSub, router *Router) *Client {
	return &Client{
		log:    discardLogger(),
		cfg:    Config{QoS: 1, ConnectTimeout: time.Second, PublishTimeout: time.Second},
		pubSub: fake,
		router: router,
	}
}
