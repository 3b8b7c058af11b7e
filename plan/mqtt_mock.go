package plan

import (
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// stubToken is a pre-completed mqtt.Token carrying a fixed error.
type stubToken struct {
	err error
}

func (t *stubToken) Wait() bool                     { return true }
func (t *stubToken) WaitTimeout(time.Duration) bool { return true }
func (t *stubToken) Error() error                   { return t.err }

func (t *stubToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// stubRecord is one captured Publish call.
type stubRecord struct {
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
}

// stubBroker implements mqtt.Client in-process for tests: it records
// publishes and lets tests inject inbound messages on subscribed topics.
type stubBroker struct {
	mu           sync.RWMutex
	connected    bool
	publishErr   error
	subscribeErr error
	handlers     map[string]mqtt.MessageHandler
	published    []stubRecord
}

func newStubBroker() *stubBroker {
	return &stubBroker{
		connected: true,
		handlers:  make(map[string]mqtt.MessageHandler),
	}
}

func (b *stubBroker) setConnected(connected bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connected = connected
}

func (b *stubBroker) setPublishError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.publishErr = err
}

// deliver injects an inbound message to the handler subscribed on topic.
func (b *stubBroker) deliver(topic string, payload []byte) bool {
	b.mu.RLock()
	handler := b.handlers[topic]
	b.mu.RUnlock()
	if handler == nil {
		return false
	}
	handler(b, &stubInbound{topic: topic, payload: payload})
	return true
}

func (b *stubBroker) records() []stubRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]stubRecord, len(b.published))
	copy(out, b.published)
	return out
}

func (b *stubBroker) IsConnected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.connected
}

func (b *stubBroker) IsConnectionOpen() bool { return b.IsConnected() }

func (b *stubBroker) Connect() mqtt.Token {
	b.setConnected(true)
	return &stubToken{}
}

func (b *stubBroker) Disconnect(quiesce uint) {
	b.setConnected(false)
}

func (b *stubBroker) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return &stubToken{err: mqtt.ErrNotConnected}
	}
	if b.publishErr != nil {
		return &stubToken{err: b.publishErr}
	}
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	}
	b.published = append(b.published, stubRecord{
		Topic:   topic,
		Payload: data,
		QoS:     qos,
		Retain:  retained,
	})
	return &stubToken{}
}

func (b *stubBroker) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return &stubToken{err: mqtt.ErrNotConnected}
	}
	if b.subscribeErr != nil {
		return &stubToken{err: b.subscribeErr}
	}
	b.handlers[topic] = callback
	return &stubToken{}
}

func (b *stubBroker) SubscribeMultiple(filters map[string]byte, callback mqtt.MessageHandler) mqtt.Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return &stubToken{err: mqtt.ErrNotConnected}
	}
	for topic := range filters {
		b.handlers[topic] = callback
	}
	return &stubToken{}
}

func (b *stubBroker) Unsubscribe(topics ...string) mqtt.Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, topic := range topics {
		delete(b.handlers, topic)
	}
	return &stubToken{}
}

func (b *stubBroker) AddRoute(topic string, callback mqtt.MessageHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = callback
}

func (b *stubBroker) OptionsReader() mqtt.ClientOptionsReader {
	return mqtt.ClientOptionsReader{}
}

// stubInbound implements mqtt.Message for injected test messages.
type stubInbound struct {
	topic   string
	payload []byte
}

func (m *stubInbound) Duplicate() bool   { return false }
func (m *stubInbound) Qos() byte         { return 1 }
func (m *stubInbound) Retained() bool    { return false }
func (m *stubInbound) Topic() string     { return m.topic }
func (m *stubInbound) MessageID() uint16 { return 0 }
func (m *stubInbound) Payload() []byte   { return m.payload }
func (m *stubInbound) Ack()              {}
