package services

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// GenerateReference builds a human-readable reference like TXN20260831120000-0042.
func GenerateReference(prefix string) string {
	suffix := fmt.Sprintf("%04d", rand.Intn(10000))
	return fmt.Sprintf("%s%s-%s", prefix, time.Now().Format("20060102150405"), suffix)
}

// Notifier is the best-effort notification channel. Implementations must
// never block the caller and must swallow delivery failures.
type Notifier interface {
	Send(userID, subject, body string)
}

// PaymentPublisher receives the payment event emitted after every successful
// charge. It is an observer hook; nothing in the money path depends on it.
type PaymentPublisher interface {
	PublishPayment(userID, email string, amount decimal.Decimal, paymentTime time.Time)
}
