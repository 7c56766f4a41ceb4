// Account lifecycle events are produced by the HTTP handlers after a
// workflow operation commits. This worker consumes them and sends the user
// the matching email. The ledger never depends on this path; a dropped event
// only costs a notification.
package worker

import (
	"encoding/json"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/godwinide/teslastockinvestment/internal/stream"
)

// emailTemplates maps each topic to the email template sent for it.
var emailTemplates = map[string]string{
	stream.DepositSubmittedTopic:    "deposit-submitted.tmpl",
	stream.WithdrawalRequestedTopic: "withdrawal-requested.tmpl",
	stream.PlanPurchasedTopic:       "plan-purchased.tmpl",
	stream.KycSubmittedTopic:        "kyc-received.tmpl",
}

func (wk *Worker) NotificationWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: notificationGroupID,
		Topics: []string{
			stream.DepositSubmittedTopic,
			stream.WithdrawalRequestedTopic,
			stream.PlanPurchasedTopic,
			stream.KycSubmittedTopic,
		},
	})
	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			log.Println("NotificationWorker received cancellation signal, shutting down...")
			return
		default:
			event := consumer.Poll(100)
			switch e := event.(type) {
			case *kafka.Message:
				wk.handleAccountEvent(e)
			case kafka.Error:
				log.Printf("Error: %v\n", e)
			case *kafka.AssignedPartitions:
				consumer.Assign(e.Partitions)
			case *kafka.RevokedPartitions:
				consumer.Unassign()
			}
		}
	}
}

func (wk *Worker) handleAccountEvent(msg *kafka.Message) {
	if msg.TopicPartition.Topic == nil {
		return
	}
	topic := *msg.TopicPartition.Topic

	template, ok := emailTemplates[topic]
	if !ok {
		log.Printf("No email template registered for topic %s", topic)
		return
	}

	var accountEvent stream.AccountEvent
	if err := json.Unmarshal(msg.Value, &accountEvent); err != nil {
		log.Printf("Error decoding %s event: %v", topic, err)
		return
	}

	if accountEvent.Email == "" {
		log.Printf("Skipping %s event without recipient email", topic)
		return
	}

	wk.Helper.BackgroundTask(nil, func() error {
		emailData := wk.Helper.NewEmailData()
		emailData["Name"] = accountEvent.Name
		emailData["Amount"] = accountEvent.Amount
		emailData["Method"] = accountEvent.Method
		emailData["Reference"] = accountEvent.Reference

		err := wk.Mailer.Send(accountEvent.Email, emailData, template)
		if err != nil {
			log.Printf("Error sending %s email: %v", topic, err)
			return err
		}

		return nil
	})
}
