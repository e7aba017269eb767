package bank

import (
	"time"

	"github.com/rs/zerolog"
)

// EventKind labels a domain event for the notification layer.
type EventKind string

const (
	EventAccountOpened   EventKind = "account-opened"
	EventAccountClosed   EventKind = "account-closed"
	EventDeposit         EventKind = "deposit"
	EventWithdrawal      EventKind = "withdrawal"
	EventTransfer        EventKind = "transfer"
	EventPayment         EventKind = "payment"
	EventInterestApplied EventKind = "interest-applied"
	EventMarketUpdate    EventKind = "market-update"
	EventError           EventKind = "error"
)

// Event is one materially observable change. Emission is fire-and-forget:
// a slow or broken consumer must never block or fail the numeric pass.
type Event struct {
	Kind      EventKind
	Message   string
	AccountID string // empty for economy-wide events
	Year      int
	Time      time.Time
}

// Emitter consumes events. Implementations must not block.
type Emitter interface {
	Emit(Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(Event)

func (f EmitterFunc) Emit(e Event) { f(e) }

// LogEmitter relays events as structured log lines.
type LogEmitter struct {
	Log zerolog.Logger
}

func (l LogEmitter) Emit(e Event) {
	evt := l.Log.Info()
	if e.Kind == EventError {
		evt = l.Log.Warn()
	}
	evt.Str("kind", string(e.Kind)).
		Str("account", e.AccountID).
		Int("year", e.Year).
		Msg(e.Message)
}
