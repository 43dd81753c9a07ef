package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mecalink/admin-gateway/internal/dispatch"
	"github.com/mecalink/admin-gateway/internal/domain"
)

var (
	ErrRunNotFound    = errors.New("broadcast not found")
	ErrNoDeviceTokens = errors.New("at least one device token is required")
)

const maxKeptRuns = 50

type RunKind string

const (
	RunDiagnostic RunKind = "diagnostic"
	RunDevices    RunKind = "devices"
)

// Run is a snapshot of a broadcast.
type Run struct {
	ID         string           `json:"id"`
	Kind       RunKind          `json:"kind"`
	StartedBy  string           `json:"startedBy"`
	StartedAt  time.Time        `json:"startedAt"`
	FinishedAt *time.Time       `json:"finishedAt,omitempty"`
	Done       bool             `json:"done"`
	Entries    []dispatch.Entry `json:"entries"`
	Succeeded  int              `json:"succeeded"`
	Failed     int              `json:"failed"`
}

type broadcastRun struct {
	// owner is the ID of the operator who started the run.
	owner string

	mu   sync.Mutex
	snap Run
	subs map[chan Run]struct{}
}

func (r *broadcastRun) snapshot() Run {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.copyLocked()
}

func (r *broadcastRun) copyLocked() Run {
	s := r.snap
	s.Entries = append([]dispatch.Entry{}, r.snap.Entries...)
	return s
}

func (r *broadcastRun) observe(t dispatch.Transition) {
	r.mu.Lock()
	if t.From == "" {
		r.snap.Entries = append(r.snap.Entries, t.Entry)
	} else {
		r.snap.Entries[t.Index] = t.Entry
	}
	switch t.To {
	case dispatch.StatusSucceeded:
		r.snap.Succeeded++
	case dispatch.StatusFailed:
		r.snap.Failed++
		zap.L().Warn("broadcast send failed",
			zap.String("run", r.snap.ID),
			zap.String("recipient", t.Entry.Key),
			zap.Error(t.Err))
	}
	snap := r.copyLocked()
	subs := make([]chan Run, 0, len(r.subs))
	for ch := range r.subs {
		subs = append(subs, ch)
	}
	r.mu.Unlock()

	for _, ch := range subs {
		publish(ch, snap)
	}
}

// publish keeps only the latest snapshot in ch.
func publish(ch chan Run, snap Run) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

func (r *broadcastRun) finish(at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snap.Done = true
	r.snap.FinishedAt = &at
	snap := r.copyLocked()
	for ch := range r.subs {
		publish(ch, snap)
		close(ch)
	}
	r.subs = nil
}

// BroadcastService runs broadcasts in the background. Runs are not
// cancellable: they outlive the request that started them. A run is only
// visible to the operator who started it.
type BroadcastService struct {
	catalog   *CatalogService
	diagnoser dispatch.Diagnoser

	mu    sync.Mutex
	runs  map[string]*broadcastRun
	order []string
	wg    sync.WaitGroup
	newID func() string
	now   func() time.Time
}

func NewBroadcastService(catalog *CatalogService, diagnoser dispatch.Diagnoser) *BroadcastService {
	return &BroadcastService{
		catalog:   catalog,
		diagnoser: diagnoser,
		runs:      make(map[string]*broadcastRun),
		newID:     func() string { return uuid.NewString() },
		now:       time.Now,
	}
}

// StartDiagnostic sends every user a diagnostic built from their latest
// checklist.
func (s *BroadcastService) StartDiagnostic(ctx context.Context, caller Caller) (Run, error) {
	checklists, err := s.catalog.AllChecklists(ctx, caller)
	if err != nil {
		return Run{}, fmt.Errorf("s.catalog.AllChecklists -> %w", err)
	}

	run := s.start(ctx, RunDiagnostic, caller, func(ctx context.Context, d *dispatch.Dispatcher) dispatch.Report {
		b := &dispatch.DiagnosticBroadcast{
			Diagnoser:  s.diagnoser,
			Sender:     sender{caller},
			Dispatcher: d,
		}
		return b.Run(ctx, checklists)
	})

	return run, nil
}

// StartDevices sends n to each device token, one send per token.
func (s *BroadcastService) StartDevices(ctx context.Context, caller Caller, tokens []string, n domain.Notification) (Run, error) {
	if len(tokens) == 0 {
		return Run{}, ErrNoDeviceTokens
	}
	tokens = append([]string{}, tokens...)

	run := s.start(ctx, RunDevices, caller, func(ctx context.Context, d *dispatch.Dispatcher) dispatch.Report {
		b := &dispatch.DeviceBroadcast{
			Sender:     sender{caller},
			Dispatcher: d,
		}
		return b.Run(ctx, tokens, n)
	})

	return run, nil
}

func (s *BroadcastService) start(ctx context.Context, kind RunKind, caller Caller, body func(context.Context, *dispatch.Dispatcher) dispatch.Report) Run {
	r := &broadcastRun{
		owner: caller.User().ID,
		snap: Run{
			ID:        s.newID(),
			Kind:      kind,
			StartedBy: caller.User().Email,
			StartedAt: s.now(),
			Entries:   []dispatch.Entry{},
		},
		subs: make(map[chan Run]struct{}),
	}
	s.keep(r)
	snap := r.snapshot()

	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		zap.L().Info("broadcast started", zap.String("run", snap.ID), zap.String("kind", string(kind)))
		report := body(ctx, dispatch.NewDispatcher(r.observe))
		r.finish(s.now())
		zap.L().Info("broadcast finished",
			zap.String("run", snap.ID),
			zap.Int("succeeded", report.Succeeded),
			zap.Int("failed", report.Failed))
	}()

	return snap
}

func (s *BroadcastService) keep(r *broadcastRun) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[r.snap.ID] = r
	s.order = append(s.order, r.snap.ID)

	for len(s.order) > maxKeptRuns {
		oldest := s.runs[s.order[0]]
		if !oldest.snapshot().Done {
			break
		}
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
}

// lookup finds a run started by caller. Runs of other operators are
// reported as not found.
func (s *BroadcastService) lookup(caller Caller, id string) (*broadcastRun, error) {
	s.mu.Lock()
	r, ok := s.runs[id]
	s.mu.Unlock()
	if !ok || r.owner != caller.User().ID {
		return nil, ErrRunNotFound
	}

	return r, nil
}

func (s *BroadcastService) Get(caller Caller, id string) (Run, error) {
	r, err := s.lookup(caller, id)
	if err != nil {
		return Run{}, err
	}

	return r.snapshot(), nil
}

// Subscribe returns the current snapshot and a channel receiving the latest
// snapshot after each change. The channel is closed when the run finishes.
func (s *BroadcastService) Subscribe(caller Caller, id string) (Run, <-chan Run, func(), error) {
	r, err := s.lookup(caller, id)
	if err != nil {
		return Run{}, nil, nil, err
	}

	ch := make(chan Run, 1)

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.copyLocked()
	if r.snap.Done {
		close(ch)
		return snap, ch, func() {}, nil
	}
	r.subs[ch] = struct{}{}

	unsubscribe := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, ch)
	}

	return snap, ch, unsubscribe, nil
}

// Wait blocks until every started run has finished.
func (s *BroadcastService) Wait() {
	s.wg.Wait()
}

// sender clears the caller's session when MecaLink rejects its token.
type sender struct {
	caller Caller
}

func (s sender) SendToDevice(ctx context.Context, deviceToken string, n domain.Notification) (domain.SendResult, error) {
	res, err := s.caller.API.SendToDevice(ctx, deviceToken, n)
	return res, s.caller.check(ctx, err)
}
