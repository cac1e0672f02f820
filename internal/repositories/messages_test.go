package repositories_test

import (
	"strings"
	"testing"
	"time"

	"github.com/rohits-web03/warbler/internal/models"
	"github.com/rohits-web03/warbler/internal/repositories"
	"github.com/rohits-web03/warbler/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageTimestampIsSet(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()
	u := testutil.CreateUser(t, store, "user1", "Password")

	before := time.Now().Add(-time.Second)
	m := &models.Message{Text: "hello world", UserID: u.ID}
	require.NoError(t, store.Messages.Create(ctx, m))
	require.NotZero(t, m.ID)

	got, err := store.Messages.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got.Text)
	assert.False(t, got.Timestamp.IsZero())
	assert.True(t, got.Timestamp.After(before))
	require.NotNil(t, got.User)
	assert.Equal(t, "user1", got.User.Username)
}

func TestMessageKeepsExplicitTimestamp(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()
	u := testutil.CreateUser(t, store, "user1", "Password")

	at := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	m := &models.Message{Text: "old news", UserID: u.ID, Timestamp: at}
	require.NoError(t, store.Messages.Create(ctx, m))

	got, err := store.Messages.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, at.Equal(got.Timestamp), "got %s", got.Timestamp)
}

func TestMessageConstraints(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()
	u := testutil.CreateUser(t, store, "user1", "Password")

	cases := []struct {
		name string
		msg  *models.Message
	}{
		{"empty text", &models.Message{Text: "", UserID: u.ID}},
		{"unknown author", &models.Message{Text: "hi", UserID: 4242}},
		{"too long", &models.Message{Text: strings.Repeat("a", models.MaxMessageLength+1), UserID: u.ID}},
		{"too long multibyte", &models.Message{Text: strings.Repeat("é", models.MaxMessageLength+1), UserID: u.ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, store.Messages.Create(ctx, tc.msg), repositories.ErrConstraintViolation)
		})
	}
}

func TestMessageAtLengthLimit(t *testing.T) {
	store := testutil.NewStore(t)
	u := testutil.CreateUser(t, store, "user1", "Password")

	m := &models.Message{Text: strings.Repeat("é", models.MaxMessageLength), UserID: u.ID}
	require.NoError(t, store.Messages.Create(t.Context(), m))

	n, err := store.Messages.CountByUser(t.Context(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMessagesOfNewestFirst(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()
	u := testutil.CreateUser(t, store, "user1", "Password")

	base := time.Now().Add(-time.Hour)
	for i, text := range []string{"first", "second", "third"} {
		m := &models.Message{Text: text, UserID: u.ID, Timestamp: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, store.Messages.Create(ctx, m))
	}

	messages, err := store.Messages.MessagesOf(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "third", messages[0].Text)
	assert.Equal(t, "first", messages[2].Text)

	messages, err = store.Messages.MessagesOf(ctx, u.ID, 2)
	require.NoError(t, err)
	assert.Len(t, messages, 2)

	n, err := store.Messages.CountByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestTimeline(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()

	alice := testutil.CreateUser(t, store, "alice", "Password")
	bob := testutil.CreateUser(t, store, "bob", "Password")
	carol := testutil.CreateUser(t, store, "carol", "Password")

	require.NoError(t, store.Follows.Follow(ctx, alice.ID, bob.ID))

	base := time.Now().Add(-time.Hour)
	post := func(u *models.User, text string, offset time.Duration) {
		require.NoError(t, store.Messages.Create(ctx, &models.Message{Text: text, UserID: u.ID, Timestamp: base.Add(offset)}))
	}
	post(alice, "from alice", time.Minute)
	post(bob, "from bob", 2*time.Minute)
	post(carol, "from carol", 3*time.Minute)

	timeline, err := store.Messages.Timeline(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, "from bob", timeline[0].Text)
	assert.Equal(t, "bob", timeline[0].User.Username)
	assert.Equal(t, "from alice", timeline[1].Text)

	timeline, err = store.Messages.Timeline(ctx, carol.ID, 0)
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, "from carol", timeline[0].Text)
}

func TestDeleteMessageOwnerOnly(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()

	alice := testutil.CreateUser(t, store, "alice", "Password")
	bob := testutil.CreateUser(t, store, "bob", "Password")

	m := &models.Message{Text: "mine", UserID: alice.ID}
	require.NoError(t, store.Messages.Create(ctx, m))

	assert.ErrorIs(t, store.Messages.Delete(ctx, m.ID, bob.ID), repositories.ErrNotFound)
	require.NoError(t, store.Messages.Delete(ctx, m.ID, alice.ID))

	_, err := store.Messages.FindByID(ctx, m.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
