package plan

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// DocumentHandler is called when a scene document arrives on a source's
// topic. err is non-nil when the payload failed to parse; doc is nil then.
type DocumentHandler func(sourceID string, doc *Document, err error)

// MQTTClient manages the MQTT connection and per-source subscriptions for
// service mode: host editors publish scene documents, the engine refines
// them and publishes results back.
type MQTTClient struct {
	client      mqtt.Client
	config      *Config
	handler     DocumentHandler
	isConnected bool
	mu          sync.RWMutex
}

// InitMQTT creates and connects the MQTT client. The broker comes from the
// MQTT_BROKER env var or the config; when neither is set, service mode is
// disabled and (nil, nil) is returned.
func InitMQTT(config *Config, handler DocumentHandler) (*MQTTClient, error) {
	broker := os.Getenv("MQTT_BROKER")
	if broker == "" && config != nil && config.MQTT.Broker != "" {
		broker = config.MQTT.Broker
	}
	if broker == "" {
		log.Println("MQTT disabled: MQTT_BROKER not set")
		return nil, nil
	}
	if config == nil || len(config.MQTT.Sources) == 0 {
		return nil, fmt.Errorf("MQTT enabled but no sources configured")
	}

	c := &MQTTClient{
		config:  config,
		handler: handler,
	}

	clientID := config.MQTT.ClientID
	if clientID == "" {
		clientID = "planweld-engine"
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(30 * time.Second).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(c.onConnectionLost)
	if config.MQTT.Username != "" {
		opts.SetUsername(config.MQTT.Username)
		opts.SetPassword(config.MQTT.Password)
	}

	c.client = mqtt.NewClient(opts)
	go c.connectWithRetry()
	return c, nil
}

// newMQTTClientWithMock builds a client around an injected (mock) paho
// client for tests.
func newMQTTClientWithMock(client mqtt.Client, config *Config, handler DocumentHandler) *MQTTClient {
	return &MQTTClient{
		client:  client,
		config:  config,
		handler: handler,
	}
}

func (c *MQTTClient) connectWithRetry() {
	backoff := time.Second
	for {
		token := c.client.Connect()
		token.Wait()
		if token.Error() == nil {
			return
		}
		log.Printf("[MQTT] connect failed: %v (retrying in %s)", token.Error(), backoff)
		time.Sleep(backoff)
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

// onConnect subscribes to every configured source topic. Paho calls this
// again after every reconnect, so subscriptions survive broker restarts.
func (c *MQTTClient) onConnect(client mqtt.Client) {
	c.setConnected(true)
	log.Println("[MQTT] connected")

	for _, src := range c.config.MQTT.Sources {
		id := src.ID
		token := client.Subscribe(src.Topic, 1, c.createMessageHandler(id))
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			log.Printf("[MQTT] subscribe %s failed for %s: %v", src.Topic, id, token.Error())
			continue
		}
		log.Printf("[MQTT] subscribed to %s for %s", src.Topic, id)
	}
}

func (c *MQTTClient) onConnectionLost(client mqtt.Client, err error) {
	c.setConnected(false)
	log.Printf("[MQTT] connection lost: %v", err)
}

func (c *MQTTClient) createMessageHandler(sourceID string) mqtt.MessageHandler {
	return func(client mqtt.Client, msg mqtt.Message) {
		doc, err := ParseDocument(msg.Payload())
		if err != nil {
			c.handler(sourceID, nil, fmt.Errorf("document from %s: %w", sourceID, err))
			return
		}
		c.handler(sourceID, doc, nil)
	}
}

// IsConnected reports the connection state.
func (c *MQTTClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

func (c *MQTTClient) setConnected(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isConnected = connected
}

// Disconnect closes the MQTT connection gracefully.
func (c *MQTTClient) Disconnect() {
	if c.client != nil {
		c.client.Disconnect(250)
	}
	c.setConnected(false)
}

// GetSourceByTopic returns the source ID that subscribes to the topic.
func (c *MQTTClient) GetSourceByTopic(topic string) (string, bool) {
	for _, src := range c.config.MQTT.Sources {
		if src.Topic == topic {
			return src.ID, true
		}
	}
	return "", false
}

// GetClient exposes the underlying paho client (for the publisher).
func (c *MQTTClient) GetClient() mqtt.Client {
	return c.client
}
