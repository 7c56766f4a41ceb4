package worker

import (
	"context"

	"github.com/godwinide/teslastockinvestment/internal/helper"
	"github.com/godwinide/teslastockinvestment/internal/smtp"
	"github.com/godwinide/teslastockinvestment/internal/stream"
)

type Worker struct {
	KafkaStream *stream.KafkaStream
	Mailer      smtp.MailerInterface
	Helper      helper.HelperInterface
	Ctx         context.Context
}

// notificationGroupID is used for workers that send users an email whenever
// one of the account lifecycle events is produced.
const notificationGroupID = "account-notification-group"

func New(wk *Worker) *Worker {
	return &Worker{
		KafkaStream: wk.KafkaStream,
		Mailer:      wk.Mailer,
		Helper:      wk.Helper,
		Ctx:         wk.Ctx,
	}
}
