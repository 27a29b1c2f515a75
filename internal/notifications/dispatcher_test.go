package notifications

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type recordingSender struct {
	mu            sync.Mutex
	notifications []string
	events        []PaymentEvent
	failWith      error
}

func (r *recordingSender) DeliverNotification(userID, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.notifications = append(r.notifications, userID+"|"+subject+"|"+body)
	return nil
}

func (r *recordingSender) DeliverPaymentEvent(event PaymentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSender) delivered() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notifications), len(r.events)
}

func TestDispatcherDeliversQueuedTasks(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := NewDispatcher(sender, 10)
	dispatcher.Start(3)

	dispatcher.Send("user-1", "Smart Wallet Transaction", "processed")
	dispatcher.Send("user-2", "Smart Wallet Transaction", "processed")
	dispatcher.PublishPayment("user-1", "user-1@example.com", decimal.RequireFromString("19.99"), time.Now())

	dispatcher.Shutdown()

	notifications, events := sender.delivered()
	if notifications != 2 {
		t.Errorf("notifications delivered: got %d, want 2", notifications)
	}
	if events != 1 {
		t.Errorf("payment events delivered: got %d, want 1", events)
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if sender.events[0].Email != "user-1@example.com" {
		t.Errorf("payment event email: got %q", sender.events[0].Email)
	}
}

func TestDispatcherFailingSenderDoesNotPropagate(t *testing.T) {
	sender := &recordingSender{failWith: errors.New("smtp down")}
	dispatcher := NewDispatcher(sender, 10)
	dispatcher.Start(1)

	dispatcher.Send("user-1", "subject", "body")
	dispatcher.Shutdown()

	notifications, _ := sender.delivered()
	if notifications != 0 {
		t.Errorf("failing sender recorded deliveries: %d", notifications)
	}
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := NewDispatcher(sender, 1)

	// no workers started: the single buffer slot fills and the rest drop
	dispatcher.Send("user-1", "subject", "body")
	dispatcher.Send("user-2", "subject", "body")
	dispatcher.Send("user-3", "subject", "body")

	dispatcher.Start(1)
	dispatcher.Shutdown()

	notifications, _ := sender.delivered()
	if notifications != 1 {
		t.Errorf("deliveries after overflow: got %d, want 1", notifications)
	}
}
