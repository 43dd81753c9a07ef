package dispatch

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Recipient is one target of a broadcast. Key identifies it within the run
// (a user id or a device token).
type Recipient struct {
	Key         string `json:"key"`
	Label       string `json:"label,omitempty"`
	DeviceToken string `json:"deviceToken,omitempty"`
}

type Entry struct {
	Recipient
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Transition is emitted on every status change. Enqueueing a recipient is
// the transition from the empty status to pending.
type Transition struct {
	Index int    `json:"index"`
	Entry Entry  `json:"entry"`
	From  Status `json:"from"`
	To    Status `json:"to"`
	Err   error  `json:"-"`
}

type Observer func(Transition)

// SendFunc delivers to one recipient and returns a message describing what
// was sent.
type SendFunc func(ctx context.Context, r Recipient) (string, error)

type Report struct {
	Entries   []Entry `json:"entries"`
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
}

type Dispatcher struct {
	observers []Observer
}

func NewDispatcher(observers ...Observer) *Dispatcher {
	return &Dispatcher{observers: observers}
}

// With returns a dispatcher that also notifies obs.
func (d *Dispatcher) With(obs ...Observer) *Dispatcher {
	all := append(append([]Observer{}, d.observers...), obs...)
	return &Dispatcher{observers: all}
}

// Run sends to every recipient in input order, awaiting each send before
// starting the next. A failed send marks its recipient failed and the loop
// goes on. Nothing is retried and nothing is rolled back. The report holds
// one terminal entry per recipient.
func (d *Dispatcher) Run(ctx context.Context, recipients []Recipient, send SendFunc) Report {
	entries := make([]Entry, len(recipients))
	for i, r := range recipients {
		entries[i].Recipient = r
		d.advance(entries, i, StatusPending, nil)
	}

	report := Report{}
	for i := range entries {
		d.advance(entries, i, StatusSending, nil)

		msg, err := send(ctx, entries[i].Recipient)
		if err != nil {
			entries[i].Error = err.Error()
			d.advance(entries, i, StatusFailed, err)
			report.Failed++
			continue
		}

		entries[i].Message = msg
		d.advance(entries, i, StatusSucceeded, nil)
		report.Succeeded++
	}
	report.Entries = entries

	return report
}

var errIllegalTransition = errors.New("illegal status transition")

func (d *Dispatcher) advance(entries []Entry, i int, to Status, err error) {
	from := entries[i].Status
	if !from.CanTransition(to) {
		zap.L().DPanic("dispatch", zap.Error(errIllegalTransition),
			zap.String("from", string(from)), zap.String("to", string(to)))
		return
	}
	entries[i].Status = to

	t := Transition{Index: i, Entry: entries[i], From: from, To: to, Err: err}
	for _, obs := range d.observers {
		obs(t)
	}
}
