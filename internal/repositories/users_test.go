package repositories_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/rohits-web03/warbler/internal/models"
	"github.com/rohits-web03/warbler/internal/repositories"
	"github.com/rohits-web03/warbler/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserModel(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()

	u := &models.User{Email: "test@test.com", Username: "testuser", Password: "HASHED_PASSWORD"}
	require.NoError(t, store.Users.Create(ctx, u))
	require.NotZero(t, u.ID)

	messages, err := store.Messages.MessagesOf(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 0)

	followers, err := store.Follows.Followers(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 0)
}

func TestUserFieldsRoundTrip(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()

	u := &models.User{Email: "test@test.com", Username: "testuser", Password: "HASHED_PASSWORD"}
	require.NoError(t, store.Users.Create(ctx, u))

	got, err := store.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "test@test.com", got.Email)
	assert.Equal(t, "testuser", got.Username)
	assert.Equal(t, "HASHED_PASSWORD", got.Password)
}

func TestCreateUserWithSignup(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()

	u, err := models.Signup("test_user", "testuser@testuser.com", "Password", "")
	require.NoError(t, err)
	u.ID = 999
	require.NoError(t, store.Users.Create(ctx, u))

	got, err := store.Users.FindByID(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, uint(999), got.ID)
	assert.Equal(t, "test_user", got.Username)
	assert.Equal(t, "testuser@testuser.com", got.Email)
	assert.NotEqual(t, "Password", got.Password)
	assert.True(t, strings.HasPrefix(got.Password, "$2b$"))
}

func TestCreateUserWithoutUsernameFails(t *testing.T) {
	store := testutil.NewStore(t)

	u, err := models.Signup("", "testuser@testuser.com", "Password", "")
	require.NoError(t, err)
	u.ID = 999

	err = store.Users.Create(t.Context(), u)
	assert.ErrorIs(t, err, repositories.ErrConstraintViolation)

	_, err = store.Users.FindByID(t.Context(), 999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCreateUserWithoutEmailFails(t *testing.T) {
	store := testutil.NewStore(t)

	u, err := models.Signup("test_user", "", "Password", "")
	require.NoError(t, err)
	assert.ErrorIs(t, store.Users.Create(t.Context(), u), repositories.ErrConstraintViolation)
}

func TestDuplicateUsernameAndEmailFail(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()

	first, err := models.Signup("test_user", "one@example.com", "Password", "")
	require.NoError(t, err)
	require.NoError(t, store.Users.Create(ctx, first))

	sameName, err := models.Signup("test_user", "two@example.com", "Password", "")
	require.NoError(t, err)
	err = store.Users.Create(ctx, sameName)
	assert.ErrorIs(t, err, repositories.ErrConstraintViolation)
	assert.True(t, repositories.IsConstraintViolation(err))

	sameEmail, err := models.Signup("other_user", "one@example.com", "Password", "")
	require.NoError(t, err)
	assert.ErrorIs(t, store.Users.Create(ctx, sameEmail), repositories.ErrConstraintViolation)

	n, err := store.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAuthenticate(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()

	u, err := models.Signup("test_user", "testuser@testuser.com", "Password", "")
	require.NoError(t, err)
	u.ID = 999
	require.NoError(t, store.Users.Create(ctx, u))

	got, err := store.Users.Authenticate(ctx, "test_user", "Password")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Username, got.Username)
}

func TestAuthenticateInvalidUsername(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.CreateUser(t, store, "test_user", "Password")

	got, err := store.Users.Authenticate(t.Context(), "wrong_user", "Password")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestAuthenticateInvalidPassword(t *testing.T) {
	store := testutil.NewStore(t)
	testutil.CreateUser(t, store, "test_user", "Password")

	got, err := store.Users.Authenticate(t.Context(), "test_user", "wrongPassword")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestAuthenticateStorageFailure(t *testing.T) {
	db := testutil.NewDB(t)
	store := repositories.NewStore(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	got, err := store.Users.Authenticate(t.Context(), "test_user", "Password")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, repositories.ErrNotFound))
	assert.Nil(t, got)
}

func TestDeleteUserCascades(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()

	alice := testutil.CreateUser(t, store, "alice", "Password")
	bob := testutil.CreateUser(t, store, "bob", "Password")

	require.NoError(t, store.Messages.Create(ctx, &models.Message{Text: "hello", UserID: alice.ID}))
	require.NoError(t, store.Follows.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, store.Follows.Follow(ctx, bob.ID, alice.ID))

	require.NoError(t, store.Users.Delete(ctx, alice.ID))

	n, err := store.Messages.CountByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	followers, err := store.Follows.Followers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)

	following, err := store.Follows.Following(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, following)

	assert.ErrorIs(t, store.Users.Delete(ctx, alice.ID), repositories.ErrNotFound)
}

func TestTransactionRollsBack(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()

	err := store.Transaction(ctx, func(tx *repositories.Store) error {
		u, err := models.Signup("test_user", "testuser@testuser.com", "Password", "")
		if err != nil {
			return err
		}
		if err := tx.Users.Create(ctx, u); err != nil {
			return err
		}
		dup, err := models.Signup("test_user", "other@testuser.com", "Password", "")
		if err != nil {
			return err
		}
		return tx.Users.Create(ctx, dup)
	})
	require.ErrorIs(t, err, repositories.ErrConstraintViolation)

	_, err = store.Users.FindByUsername(ctx, "test_user")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// The connection is usable again after the rollback.
	testutil.CreateUser(t, store, "test_user", "Password")
}

func TestTransactionCommits(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()

	err := store.Transaction(ctx, func(tx *repositories.Store) error {
		a, err := models.Signup("user1", "user1@user1.com", "Password", "")
		if err != nil {
			return err
		}
		b, err := models.Signup("user2", "user2@user2.com", "Password", "")
		if err != nil {
			return err
		}
		if err := tx.Users.Create(ctx, a); err != nil {
			return err
		}
		if err := tx.Users.Create(ctx, b); err != nil {
			return err
		}
		return tx.Follows.Follow(ctx, a.ID, b.ID)
	})
	require.NoError(t, err)

	a, err := store.Users.FindByUsername(ctx, "user1")
	require.NoError(t, err)
	b, err := store.Users.FindByUsername(ctx, "user2")
	require.NoError(t, err)

	ok, err := store.Follows.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateUserProfile(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()
	u := testutil.CreateUser(t, store, "alice", "Password")
	hash := u.Password

	u.Bio = "birds"
	u.Location = "nest"
	u.Email = "alice@nest.example.com"
	u.Username = "mallory"
	u.Password = "plaintext"
	require.NoError(t, store.Users.Update(ctx, u))

	got, err := store.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "birds", got.Bio)
	assert.Equal(t, "nest", got.Location)
	assert.Equal(t, "alice@nest.example.com", got.Email)
	// Username and password are not profile fields.
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, hash, got.Password)
}

func TestUpdateDeletedUserIsNotRecreated(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()
	u := testutil.CreateUser(t, store, "alice", "Password")

	require.NoError(t, store.Users.Delete(ctx, u.ID))

	u.Bio = "back from the dead"
	assert.ErrorIs(t, store.Users.Update(ctx, u), repositories.ErrNotFound)

	_, err := store.Users.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	n, err := store.Users.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := t.Context()
	alice := testutil.CreateUser(t, store, "alice", "Password")
	testutil.CreateUser(t, store, "bob", "Password")

	alice.Email = "bob@example.com"
	assert.ErrorIs(t, store.Users.Update(ctx, alice), repositories.ErrConstraintViolation)

	assert.ErrorIs(t, store.Users.Update(ctx, &models.User{Bio: "no id"}), repositories.ErrNotFound)
}
