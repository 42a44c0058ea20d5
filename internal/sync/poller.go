package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/tempmail/internal/model"
	"github.com/nhle/tempmail/internal/session"
	"github.com/nhle/tempmail/internal/store"
)

// SyncState represents the current state of the inbox poll.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

// SyncStatus holds the state of the last poll.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
}

// ResultMsg is a tea.Msg sent when a poll completes.
type ResultMsg struct {
	// Arrived lists messages observed for the first time, in list order.
	Arrived []model.MessageSummary

	// Unread is the number of unread arrival notifications.
	Unread int

	Error error
}

// NewCount returns the number of newly arrived messages.
func (r ResultMsg) NewCount() int {
	return len(r.Arrived)
}

// Inbox is the part of the session controller the poller drives.
type Inbox interface {
	HasMailbox() bool
	FetchMessages(ctx context.Context) error
	Snapshot() session.State
}

// fetchTimeout is the maximum time allowed for a single poll.
const fetchTimeout = 30 * time.Second

// Poller refreshes the inbox on an interval and on demand, and records
// what it sees in the ledger.
type Poller struct {
	inbox     Inbox
	store     store.Store
	interval  time.Duration
	log       *zap.Logger
	status    SyncStatus
	resultCh  chan ResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
}

// Option configures a Poller.
type Option func(*Poller)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Poller) {
		p.log = l
	}
}

// New creates a Poller. An interval of zero disables the ticker; manual
// refreshes still run.
func New(inbox Inbox, s store.Store, interval time.Duration, opts ...Option) *Poller {
	p := &Poller{
		inbox:     inbox,
		store:     s,
		interval:  interval,
		log:       zap.NewNop(),
		resultCh:  make(chan ResultMsg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the polling goroutine and returns a tea.Cmd that waits
// for the first result.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.waitForResult()
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh requests an immediate poll. Requests made while one is already
// queued are coalesced.
func (p *Poller) Refresh() tea.Cmd {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
	return nil
}

// Status returns the state of the last poll.
func (p *Poller) Status() SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Observe records the controller's current list in the ledger without
// fetching, and reports what was new.
func (p *Poller) Observe(ctx context.Context) ResultMsg {
	msgs := p.inbox.Snapshot().Messages

	arrived, err := p.store.ObserveMessages(ctx, msgs)
	if err != nil {
		p.log.Error("recording messages", zap.Error(err))
		return ResultMsg{Error: err}
	}

	result := ResultMsg{Arrived: arrived}

	unread, err := p.store.GetUnreadNotifications(ctx)
	if err != nil {
		p.log.Error("loading notifications", zap.Error(err))
	} else {
		result.Unread = len(unread)
	}

	if len(arrived) > 0 {
		p.log.Info("new messages", zap.Int("count", len(arrived)))
	}
	return result
}

func (p *Poller) loop() {
	var tick <-chan time.Time
	if p.interval > 0 {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-p.stopCh:
			return
		case <-tick:
			p.poll()
		case <-p.triggerCh:
			p.poll()
		}
	}
}

// poll fetches the inbox, records the list and sends a ResultMsg. Without
// a mailbox nothing is fetched and an empty result is sent.
func (p *Poller) poll() {
	if !p.inbox.HasMailbox() {
		p.sendResult(ResultMsg{})
		return
	}

	p.setStatus(SyncRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	if err := p.inbox.FetchMessages(ctx); err != nil {
		p.setStatus(SyncError, err)
		p.sendResult(ResultMsg{Error: err})
		return
	}

	result := p.Observe(ctx)
	p.setStatus(SyncIdle, result.Error)
	p.sendResult(result)
}

func (p *Poller) setStatus(state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		state = SyncError
	}
	p.status.State = state
	p.status.Error = err
	if state == SyncIdle {
		p.status.LastSync = time.Now()
	}
}

// sendResult sends a ResultMsg on the result channel without blocking.
func (p *Poller) sendResult(msg ResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		p.log.Debug("poll result dropped")
	}
}

func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next poll result.
// Call it after handling a ResultMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
