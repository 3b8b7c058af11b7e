package plan

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ResultPublisher publishes refine results and detected rooms back to the
// broker and keeps the latest payloads around for the HTTP preview.
type ResultPublisher struct {
	client mqtt.Client
	prefix string
	qos    byte
	retain bool

	mu      sync.RWMutex
	results map[string]*RefineResult
	rooms   map[string][]RoomPolygon
}

// NewResultPublisher creates a publisher. Topics are
// <prefix>/<sourceID>/result and <prefix>/<sourceID>/rooms.
func NewResultPublisher(client mqtt.Client, prefix string) *ResultPublisher {
	if prefix == "" {
		prefix = "planweld"
	}
	return &ResultPublisher{
		client:  client,
		prefix:  prefix,
		qos:     1,
		retain:  true,
		results: make(map[string]*RefineResult),
		rooms:   make(map[string][]RoomPolygon),
	}
}

// PublishResult publishes a refine result for a source as JSON.
func (p *ResultPublisher) PublishResult(sourceID string, result *RefineResult) error {
	p.mu.Lock()
	p.results[sourceID] = result
	p.mu.Unlock()

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result for %s: %w", sourceID, err)
	}
	topic := fmt.Sprintf("%s/%s/result", p.prefix, sourceID)
	return p.publish(topic, payload)
}

// PublishRooms publishes the detected rooms for a source as GeoJSON.
func (p *ResultPublisher) PublishRooms(sourceID string, rooms []RoomPolygon, scale Scale) error {
	p.mu.Lock()
	p.rooms[sourceID] = rooms
	p.mu.Unlock()

	fc := RoomsToFeatureCollection(rooms, scale)
	payload, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("marshal rooms for %s: %w", sourceID, err)
	}
	topic := fmt.Sprintf("%s/%s/rooms", p.prefix, sourceID)
	return p.publish(topic, payload)
}

func (p *ResultPublisher) publish(topic string, payload []byte) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("not connected, dropping publish to %s", topic)
	}
	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if !token.WaitTimeout(2 * time.Second) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// GetResult returns the latest published result for a source.
func (p *ResultPublisher) GetResult(sourceID string) (*RefineResult, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, ok := p.results[sourceID]
	return r, ok
}

// GetRooms returns the latest published rooms for a source.
func (p *ResultPublisher) GetRooms(sourceID string) ([]RoomPolygon, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, ok := p.rooms[sourceID]
	return r, ok
}

// Sources lists the source IDs that have published at least once.
func (p *ResultPublisher) Sources() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.results))
	for id := range p.results {
		ids = append(ids, id)
	}
	return ids
}

// Clear drops all stored results (used by tests).
func (p *ResultPublisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = make(map[string]*RefineResult)
	p.rooms = make(map[string][]RoomPolygon)
}
