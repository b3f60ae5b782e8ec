package event

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"matching-service/internal/models"

	"github.com/rabbitmq/amqp091-go"
)

const (
	relationshipExchange = "gigagent.events"
	onboardingExchange   = "onboarding.events"
)

type Publisher interface {
	PublishGigAgentEvent(event *models.GigAgentEvent) error
	PublishOnboardingEvent(event *models.OnboardingEvent) error
	Close() error
}

type EventPublisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	enabled bool
}

func NewEventPublisher(rabbitURI string) (*EventPublisher, error) {
	if rabbitURI == "" {
		log.Println("Warning: RabbitMQ URI is empty, event publishing is disabled")
		return &EventPublisher{enabled: false}, nil
	}

	conn, err := amqp091.Dial(rabbitURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	for _, exchange := range []string{relationshipExchange, onboardingExchange} {
		err = channel.ExchangeDeclare(
			exchange, // name
			"topic",  // type
			true,     // durable
			false,    // auto-deleted
			false,    // internal
			false,    // no-wait
			nil,      // arguments
		)
		if err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
		}
	}

	log.Printf("Event publisher initialized with exchanges: %s, %s", relationshipExchange, onboardingExchange)

	return &EventPublisher{
		conn:    conn,
		channel: channel,
		enabled: true,
	}, nil
}

func (p *EventPublisher) PublishGigAgentEvent(event *models.GigAgentEvent) error {
	if !p.enabled {
		log.Printf("Event publishing disabled, skipping event: %s", event.EventType)
		return nil
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.Publish(
		relationshipExchange,
		string(event.EventType), // routing key
		false,                   // mandatory
		false,                   // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         eventData,
			Headers: amqp091.Table{
				"event_type":      string(event.EventType),
				"relationship_id": event.RelationshipID,
				"agent_id":        event.AgentID,
				"gig_id":          event.GigID,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Printf("Published event: %s for relationship: %s", event.EventType, event.RelationshipID)
	return nil
}

func (p *EventPublisher) PublishOnboardingEvent(event *models.OnboardingEvent) error {
	if !p.enabled {
		log.Printf("Event publishing disabled, skipping event: %s", event.EventType)
		return nil
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.Publish(
		onboardingExchange,
		string(event.EventType),
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         eventData,
			Headers: amqp091.Table{
				"event_type": string(event.EventType),
				"agent_id":   event.AgentID,
				"gig_id":     event.GigID,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish onboarding event: %w", err)
	}
	return nil
}

func (p *EventPublisher) Close() error {
	if !p.enabled {
		return nil
	}

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			log.Printf("Error closing RabbitMQ channel: %v", err)
		}
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}

	return nil
}

type MockPublisher struct {
	Events           []models.GigAgentEvent
	OnboardingEvents []models.OnboardingEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishGigAgentEvent(event *models.GigAgentEvent) error {
	m.Events = append(m.Events, *event)
	return nil
}

func (m *MockPublisher) PublishOnboardingEvent(event *models.OnboardingEvent) error {
	m.OnboardingEvents = append(m.OnboardingEvents, *event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}
