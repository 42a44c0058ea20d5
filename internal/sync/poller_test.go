package sync_test

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tempmail/internal/model"
	"github.com/nhle/tempmail/internal/session"
	"github.com/nhle/tempmail/internal/sync"
	"github.com/nhle/tempmail/tests/testutil"
)

type fakeInbox struct {
	mu       gosync.Mutex
	active   bool
	messages []model.MessageSummary
	err      error
	fetches  int
}

func (f *fakeInbox) HasMailbox() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *fakeInbox) FetchMessages(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return f.err
}

func (f *fakeInbox) Snapshot() session.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return session.State{
		Messages: append([]model.MessageSummary(nil), f.messages...),
	}
}

func (f *fakeInbox) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func summary(id, from, subject string) model.MessageSummary {
	return model.MessageSummary{
		ID:      id,
		From:    model.Address{Address: from},
		Subject: subject,
	}
}

func nextResult(t *testing.T, p *sync.Poller) sync.ResultMsg {
	t.Helper()

	ch := make(chan sync.ResultMsg, 1)
	go func() {
		msg, _ := p.WaitForNextResult()().(sync.ResultMsg)
		ch <- msg
	}()

	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for poll result")
		return sync.ResultMsg{}
	}
}

func TestPoller_RefreshRecordsArrivals(t *testing.T) {
	s := testutil.NewTestStore(t)
	inbox := &fakeInbox{
		active: true,
		messages: []model.MessageSummary{
			summary("m1", "a@x.y", "hello"),
			summary("m2", "b@x.y", "world"),
		},
	}

	p := sync.New(inbox, s, 0)
	p.Start()
	defer p.Stop()

	p.Refresh()
	first := nextResult(t, p)
	require.NoError(t, first.Error)
	assert.Equal(t, 2, first.NewCount())
	assert.Equal(t, "m1", first.Arrived[0].ID)
	assert.Equal(t, 2, first.Unread)

	p.Refresh()
	second := nextResult(t, p)
	require.NoError(t, second.Error)
	assert.Zero(t, second.NewCount())
	assert.Equal(t, 2, second.Unread)

	assert.Equal(t, 2, inbox.fetchCount())
	assert.Equal(t, sync.SyncIdle, p.Status().State)
	assert.False(t, p.Status().LastSync.IsZero())
}

func TestPoller_NoMailboxSkipsFetch(t *testing.T) {
	s := testutil.NewTestStore(t)
	inbox := &fakeInbox{}

	p := sync.New(inbox, s, 0)
	p.Start()
	defer p.Stop()

	p.Refresh()
	result := nextResult(t, p)

	assert.NoError(t, result.Error)
	assert.Zero(t, result.NewCount())
	assert.Zero(t, inbox.fetchCount())
}

func TestPoller_FetchErrorLeavesLedgerUntouched(t *testing.T) {
	s := testutil.NewTestStore(t)
	inbox := &fakeInbox{
		active:   true,
		messages: []model.MessageSummary{summary("m1", "a@x.y", "hello")},
		err:      errors.New("provider down"),
	}

	p := sync.New(inbox, s, 0)
	p.Start()
	defer p.Stop()

	p.Refresh()
	result := nextResult(t, p)

	require.Error(t, result.Error)
	assert.Equal(t, sync.SyncError, p.Status().State)

	unread, err := s.GetUnreadNotifications(context.Background())
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestPoller_IntervalTicks(t *testing.T) {
	s := testutil.NewTestStore(t)
	inbox := &fakeInbox{active: true}

	p := sync.New(inbox, s, 10*time.Millisecond)
	p.Start()
	defer p.Stop()

	assert.Eventually(t, func() bool {
		return inbox.fetchCount() >= 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPoller_ObserveWithoutFetch(t *testing.T) {
	s := testutil.NewTestStore(t)
	inbox := &fakeInbox{
		active:   true,
		messages: []model.MessageSummary{summary("m1", "a@x.y", "hello")},
	}

	p := sync.New(inbox, s, 0)
	result := p.Observe(context.Background())

	require.NoError(t, result.Error)
	assert.Equal(t, 1, result.NewCount())
	assert.Equal(t, 1, result.Unread)
	assert.Zero(t, inbox.fetchCount())
}

func TestPoller_StartAndStopAreIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	p := sync.New(&fakeInbox{}, s, 0)

	assert.NotNil(t, p.Start())
	assert.Nil(t, p.Start())

	p.Stop()
	p.Stop()
}
