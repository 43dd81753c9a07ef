package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Transitions(t *testing.T) {
	legal := [][2]Status{
		{"", StatusPending},
		{StatusPending, StatusSending},
		{StatusSending, StatusSucceeded},
		{StatusSending, StatusFailed},
	}
	for _, tr := range legal {
		assert.True(t, tr[0].CanTransition(tr[1]), "%s -> %s", tr[0], tr[1])
	}

	illegal := [][2]Status{
		{StatusPending, StatusSucceeded},
		{StatusSending, StatusPending},
		{StatusSucceeded, StatusPending},
		{StatusFailed, StatusSending},
		{StatusSucceeded, StatusFailed},
	}
	for _, tr := range illegal {
		assert.False(t, tr[0].CanTransition(tr[1]), "%s -> %s", tr[0], tr[1])
	}

	assert.True(t, StatusSucceeded.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusSending.Terminal())
}

func recipients(n int) []Recipient {
	out := make([]Recipient, n)
	for i := range out {
		out[i] = Recipient{Key: fmt.Sprintf("r%d", i), DeviceToken: fmt.Sprintf("tok%d", i)}
	}
	return out
}

func TestDispatcher_SequentialBestEffort(t *testing.T) {
	var transitions []Transition
	d := NewDispatcher(func(tr Transition) { transitions = append(transitions, tr) })

	inFlight := 0
	var order []string
	report := d.Run(context.Background(), recipients(4), func(_ context.Context, r Recipient) (string, error) {
		inFlight++
		defer func() { inFlight-- }()
		require.Equal(t, 1, inFlight)

		order = append(order, r.Key)
		if r.Key == "r1" {
			return "", errors.New("unregistered device")
		}
		return "sent to " + r.Key, nil
	})

	assert.Equal(t, []string{"r0", "r1", "r2", "r3"}, order)
	require.Len(t, report.Entries, 4)
	for _, e := range report.Entries {
		assert.True(t, e.Status.Terminal())
	}
	assert.Equal(t, StatusFailed, report.Entries[1].Status)
	assert.Equal(t, "unregistered device", report.Entries[1].Error)
	assert.Equal(t, "sent to r2", report.Entries[2].Message)
	assert.Equal(t, 3, report.Succeeded)
	assert.Equal(t, 1, report.Failed)

	var sending []int
	for _, tr := range transitions {
		if tr.To == StatusSending {
			sending = append(sending, tr.Index)
		}
	}
	assert.Equal(t, []int{0, 1, 2, 3}, sending)
	// 4 enqueues, then sending and a terminal status per recipient.
	assert.Len(t, transitions, 12)
	assert.Equal(t, StatusPending, transitions[3].To)
}

func TestDispatcher_EmptyInput(t *testing.T) {
	report := NewDispatcher().Run(context.Background(), nil, func(context.Context, Recipient) (string, error) {
		t.Fatal("send called")
		return "", nil
	})

	assert.Empty(t, report.Entries)
}

func TestDispatcher_With(t *testing.T) {
	var a, b int
	d := NewDispatcher(func(Transition) { a++ }).With(func(Transition) { b++ })

	d.Run(context.Background(), recipients(1), func(context.Context, Recipient) (string, error) {
		return "", nil
	})

	assert.Equal(t, 3, a)
	assert.Equal(t, 3, b)
}
