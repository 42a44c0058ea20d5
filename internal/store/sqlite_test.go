package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tempmail/internal/model"
	"github.com/nhle/tempmail/tests/testutil"
)

func summary(id, from, subject string) model.MessageSummary {
	return model.MessageSummary{
		ID:      id,
		From:    model.Address{Address: from},
		Subject: subject,
	}
}

func TestObserveMessages_ReturnsOnlyNew(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	fresh, err := s.ObserveMessages(ctx, []model.MessageSummary{
		summary("m1", "a@x.y", "one"),
		summary("m2", "b@x.y", "two"),
	})
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, "m1", fresh[0].ID)
	assert.Equal(t, "m2", fresh[1].ID)

	fresh, err = s.ObserveMessages(ctx, []model.MessageSummary{
		summary("m3", "c@x.y", "three"),
		summary("m1", "a@x.y", "one"),
	})
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "m3", fresh[0].ID)

	notes, err := s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 3)
	assert.Equal(t, "m3", notes[0].MessageID)
	assert.Equal(t, "New message from c@x.y: three", notes[0].Message)
	assert.NotEmpty(t, notes[0].ID)
}

func TestObserveMessages_Empty(t *testing.T) {
	s := testutil.NewTestStore(t)

	fresh, err := s.ObserveMessages(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestMarkRead(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.ObserveMessages(ctx, []model.MessageSummary{
		summary("m1", "a@x.y", "one"),
		summary("m2", "b@x.y", "two"),
	})
	require.NoError(t, err)

	require.NoError(t, s.MarkRead(ctx, "m1"))

	read, err := s.ReadSet(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"m1": true}, read)

	notes, err := s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "m2", notes[0].MessageID)
	assert.False(t, notes[0].Read)
}

func TestForget(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.ObserveMessages(ctx, []model.MessageSummary{summary("m1", "a@x.y", "one")})
	require.NoError(t, err)

	require.NoError(t, s.Forget(ctx, "m1"))

	notes, err := s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)

	// A forgotten message counts as new again if it reappears.
	fresh, err := s.ObserveMessages(ctx, []model.MessageSummary{summary("m1", "a@x.y", "one")})
	require.NoError(t, err)
	assert.Len(t, fresh, 1)
}

func TestReset(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.ObserveMessages(ctx, []model.MessageSummary{summary("m1", "a@x.y", "one")})
	require.NoError(t, err)
	require.NoError(t, s.MarkRead(ctx, "m1"))

	require.NoError(t, s.Reset(ctx))

	read, err := s.ReadSet(ctx)
	require.NoError(t, err)
	assert.Empty(t, read)

	notes, err := s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
}
