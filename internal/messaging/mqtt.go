package messaging

import (
	"context"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/uydev/route-catalog/internal/db"
)

// topicPrefix is where the route.* message patterns are mounted. A pattern
// route.<op> is served on the topic routes/rpc/<op>.
const topicPrefix = "routes/rpc/"

// Message patterns served by the subscriber.
const (
	PatternCreate     = "route.create"
	PatternFindAll    = "route.findAll"
	PatternFindOne    = "route.findOne"
	PatternUpdate     = "route.update"
	PatternRemove     = "route.remove"
	PatternSearch     = "route.search"
	PatternFindByTags = "route.findByTags"
	PatternCount      = "route.count"
)

// Topic returns the MQTT topic a message pattern is served on.
func Topic(pattern string) string {
	return topicPrefix + strings.TrimPrefix(pattern, "route.")
}

// patternFromTopic is the inverse of Topic.
func patternFromTopic(topic string) string {
	return "route." + strings.TrimPrefix(topic, topicPrefix)
}

// Connect dials the MQTT broker and waits for the connection to come up.
func Connect(brokerURL, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(15 * time.Second) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", brokerURL, err)
	}
	return client, nil
}

// Subscriber serves the route.* message patterns over MQTT. Requests carry a
// replyTo topic; responses are the same envelope the HTTP surface returns,
// minus the HTTP status code.
type Subscriber struct {
	client     mqtt.Client
	dispatcher *Dispatcher
	logger     *log.Logger
}

// NewSubscriber creates a subscriber backed by the given collection.
func NewSubscriber(client mqtt.Client, routes db.RouteCollection, logger *log.Logger) *Subscriber {
	return &Subscriber{
		client:     client,
		dispatcher: NewDispatcher(routes, logger),
		logger:     logger,
	}
}

// Start subscribes to all route patterns at QoS 1.
func (s *Subscriber) Start() error {
	token := s.client.Subscribe(topicPrefix+"+", 1, s.handleMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt subscribe: %w", err)
	}
	s.logger.WithField("topic", topicPrefix+"+").Info("route message patterns subscribed")
	return nil
}

// Close disconnects from the broker.
func (s *Subscriber) Close() {
	s.client.Disconnect(250)
}

func (s *Subscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	pattern := patternFromTopic(msg.Topic())
	replyTo, env := s.dispatcher.Handle(context.Background(), pattern, msg.Payload())
	if replyTo == "" {
		s.logger.WithField("pattern", pattern).Warn("request without replyTo, dropping response")
		return
	}
	payload, err := marshalEnvelope(env)
	if err != nil {
		s.logger.WithError(err).WithField("pattern", pattern).Error("failed to marshal response")
		return
	}
	s.client.Publish(replyTo, 1, false, payload)
}
