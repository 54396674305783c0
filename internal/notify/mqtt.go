// Package notify pushes maintenance alerts to the fleet MQTT broker so
// dashboards and the ops channel pick them up without polling.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-chatbot/internal/models"
)

// Publisher delivers a batch of maintenance alerts.
type Publisher interface {
	PublishAlerts(ctx context.Context, alerts []models.MaintenanceAlert) error
}

// AlertBatch is the message body published per alert scan.
type AlertBatch struct {
	BatchID     string                    `json:"batch_id"`
	GeneratedAt string                    `json:"generated_at"`
	Total       int                       `json:"total"`
	Critical    int                       `json:"critical"`
	Alerts      []models.MaintenanceAlert `json:"alerts"`
}

func newAlertBatch(alerts []models.MaintenanceAlert, now time.Time) AlertBatch {
	batch := AlertBatch{
		BatchID:     uuid.NewString(),
		GeneratedAt: now.Format(time.RFC3339),
		Total:       len(alerts),
		Alerts:      alerts,
	}
	for _, a := range alerts {
		if a.Priority == models.PriorityCritical {
			batch.Critical++
		}
	}
	return batch
}

// MQTTPublisher publishes alert batches to a single topic with QoS 1.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
	now    func() time.Time
}

// NewMQTTPublisher connects to the broker. The connection retries in
// the background after the initial attempt.
func NewMQTTPublisher(broker, topic string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("fleet-chatbot-" + uuid.NewString()[:8]).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connect to broker %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker %s: %w", broker, err)
	}
	log.WithField("broker", broker).Info("connected to MQTT broker")

	return &MQTTPublisher{client: client, topic: topic, now: time.Now}, nil
}

// PublishAlerts sends one batch message. An empty alert list is not
// published.
func (p *MQTTPublisher) PublishAlerts(ctx context.Context, alerts []models.MaintenanceAlert) error {
	if len(alerts) == 0 {
		return nil
	}

	batch := newAlertBatch(alerts, p.now())
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal alert batch: %w", err)
	}

	token := p.client.Publish(p.topic, 1, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}

	log.WithFields(log.Fields{
		"topic":    p.topic,
		"alerts":   batch.Total,
		"critical": batch.Critical,
	}).Info("published alert batch")
	return nil
}

// Close disconnects from the broker, allowing in-flight messages a
// short grace period.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
