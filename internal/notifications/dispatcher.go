// Package notifications delivers user notifications and payment events on a
// worker pool, decoupled from the transactional paths that emit them.
// Delivery is best effort: a full queue or a failing sender is logged and
// never reaches the caller.
package notifications

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"smart_wallet/pkg/utils"
)

type PaymentEvent struct {
	UserID      string          `json:"user_id"`
	Email       string          `json:"email"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentTime time.Time       `json:"payment_time"`
}

// Sender performs the actual delivery for a single task.
type Sender interface {
	DeliverNotification(userID, subject, body string) error
	DeliverPaymentEvent(event PaymentEvent) error
}

type taskKind int

const (
	notificationTask taskKind = iota
	paymentTask
)

type task struct {
	kind    taskKind
	userID  string
	subject string
	body    string
	event   PaymentEvent
}

type Dispatcher struct {
	jobs   chan task
	sender Sender
	wg     sync.WaitGroup
	log    *logrus.Entry
}

func NewDispatcher(sender Sender, bufferSize int) *Dispatcher {
	return &Dispatcher{
		jobs:   make(chan task, bufferSize),
		sender: sender,
		log:    utils.Logger.WithField("component", "notifications"),
	}
}

func (d *Dispatcher) Start(workerCount int) {
	for i := 0; i < workerCount; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for job := range d.jobs {
		var err error
		switch job.kind {
		case notificationTask:
			err = d.sender.DeliverNotification(job.userID, job.subject, job.body)
		case paymentTask:
			err = d.sender.DeliverPaymentEvent(job.event)
		}
		if err != nil {
			d.log.WithFields(logrus.Fields{
				"user_id": job.userID,
				"error":   err.Error(),
			}).Warn("notification delivery failed")
		}
	}
}

// Send queues a notification without blocking. When the queue is full the
// notification is dropped and logged.
func (d *Dispatcher) Send(userID, subject, body string) {
	select {
	case d.jobs <- task{kind: notificationTask, userID: userID, subject: subject, body: body}:
	default:
		d.log.WithField("user_id", userID).Warn("notification queue full, dropping notification")
	}
}

// PublishPayment queues a payment event for downstream listeners. Same
// discipline as Send: never blocks, drops on overflow.
func (d *Dispatcher) PublishPayment(userID, email string, amount decimal.Decimal, paymentTime time.Time) {
	event := PaymentEvent{UserID: userID, Email: email, Amount: amount, PaymentTime: paymentTime}
	select {
	case d.jobs <- task{kind: paymentTask, userID: userID, event: event}:
	default:
		d.log.WithField("user_id", userID).Warn("notification queue full, dropping payment event")
	}
}

// Shutdown stops accepting tasks and waits for queued deliveries to drain.
func (d *Dispatcher) Shutdown() {
	close(d.jobs)
	d.wg.Wait()
}
