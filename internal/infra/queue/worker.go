package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// CRMClient is the contract for the sales CRM sync.
type CRMClient interface {
	SyncLead(ctx context.Context, payload LeadCapturedPayload) error
}

// Mailer is the slice of the mail sender the worker needs.
type Mailer interface {
	SendSalesAlert(kind, name, email, serviceType, message string) error
	SendBookingConfirmation(to, name, date, timeSlot, meetingLink string) error
}

type Worker struct {
	Channel *amqp.Channel
	CRM     CRMClient
	Mail    Mailer
}

func NewWorker(ch *amqp.Channel, crm CRMClient, mail Mailer) *Worker {
	return &Worker{
		Channel: ch,
		CRM:     crm,
		Mail:    mail,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual is safer)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadCapturedPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] invalid JSON: %s", err)
				// Malformed message. Reject without requeue so it dead-letters.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] processing %s notification for %s", payload.Kind, payload.Email)

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] notification failed: %s", err)
				d.Nack(false, false)
			} else {
				log.Printf("✅ [WORKER] %s lead %s notified", payload.Kind, payload.LeadID)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker running, waiting on queue '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload LeadCapturedPayload) error {
	switch payload.Kind {
	case "BOOKING":
		// The prospect gets their confirmation first; a CRM hiccup
		// should not dead-letter the confirmation email.
		if w.Mail != nil {
			if err := w.Mail.SendBookingConfirmation(payload.Email, payload.Name, payload.PreferredDate, payload.PreferredTime, payload.MeetingLink); err != nil {
				return err
			}
		}
		if w.CRM != nil {
			if err := w.CRM.SyncLead(ctx, payload); err != nil {
				log.Printf("⚠️ [WORKER] CRM sync failed for booking %s: %v", payload.LeadID, err)
			}
		}
		return nil

	case "CONTACT", "SERVICE_INQUIRY":
		if w.CRM != nil {
			if err := w.CRM.SyncLead(ctx, payload); err != nil {
				return err
			}
		}
		if w.Mail != nil {
			if err := w.Mail.SendSalesAlert(payload.Kind, payload.Name, payload.Email, payload.ServiceType, payload.Message); err != nil {
				log.Printf("⚠️ [WORKER] sales alert failed for %s: %v", payload.LeadID, err)
			}
		}
		return nil

	case "APPLICATION":
		if w.Mail != nil {
			return w.Mail.SendSalesAlert(payload.Kind, payload.Name, payload.Email, payload.JobRef, payload.Message)
		}
		return nil

	default:
		log.Printf("⚠️ unknown lead kind: %s, acking to drain", payload.Kind)
		return nil
	}
}
