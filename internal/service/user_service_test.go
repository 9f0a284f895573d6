package service

import (
	"testing"

	"github.com/blogicum/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(t *testing.T) (*UserService, func() int64) {
	t.Helper()
	gdb := setupServiceTestDB(t)
	count := func() int64 {
		var n int64
		require.NoError(t, gdb.Model(&db.User{}).Count(&n).Error)
		return n
	}
	return NewUserService(gdb).WithPasswordCost(bcrypt.MinCost), count
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	svc, count := newTestUserService(t)

	user, err := svc.Register(RegistrationInput{Username: " alice ", Password1: "s3cret-pass", Password2: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "s3cret-pass", user.Password)

	got, err := svc.Authenticate("alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate("alice", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate("bob", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Equal(t, int64(1), count())
}

func TestUserService_RegisterRejectsInvalidInput(t *testing.T) {
	svc, count := newTestUserService(t)
	_, err := svc.Register(RegistrationInput{Username: "taken", Password1: "long-enough", Password2: "long-enough"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input RegistrationInput
		field string
	}{
		{"duplicate username", RegistrationInput{Username: "taken", Password1: "long-enough", Password2: "long-enough"}, "username"},
		{"bad characters", RegistrationInput{Username: "no spaces", Password1: "long-enough", Password2: "long-enough"}, "username"},
		{"empty username", RegistrationInput{Username: "", Password1: "long-enough", Password2: "long-enough"}, "username"},
		{"short password", RegistrationInput{Username: "fresh", Password1: "short", Password2: "short"}, "password1"},
		{"mismatch", RegistrationInput{Username: "fresh", Password1: "long-enough", Password2: "long-enougH"}, "password2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.input)
			verrs, ok := AsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Contains(t, verrs, tt.field)
		})
	}

	assert.Equal(t, int64(1), count())
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, _ := newTestUserService(t)
	alice, err := svc.Register(RegistrationInput{Username: "alice", Password1: "long-enough", Password2: "long-enough"})
	require.NoError(t, err)
	_, err = svc.Register(RegistrationInput{Username: "bob", Password1: "long-enough", Password2: "long-enough"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(alice.ID, ProfileInput{FirstName: "Alice", LastName: "Liddell", Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", updated.FullName())
	assert.Equal(t, "alice@example.com", updated.Email)

	_, err = svc.UpdateProfile(alice.ID, ProfileInput{Username: "bob"})
	verrs, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verrs["username"], "already exists")

	_, err = svc.UpdateProfile(alice.ID, ProfileInput{Username: "alice", Email: "not-an-email"})
	verrs, ok = AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verrs, "email")

	renamed, err := svc.UpdateProfile(alice.ID, ProfileInput{Username: "alice2"})
	require.NoError(t, err)
	assert.Equal(t, "alice2", renamed.Username)
	assert.Empty(t, renamed.FirstName)

	_, err = svc.GetByUsername("alice")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.UpdateProfile(9999, ProfileInput{Username: "ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_DeleteRemovesContent(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)
	author := createUser(t, gdb, "author")
	reader := createUser(t, gdb, "reader")
	authored := createPost(t, gdb, author, "by author")
	foreign := createPost(t, gdb, reader, "by reader")
	createComment(t, gdb, reader, authored, "reader on author")
	createComment(t, gdb, author, foreign, "author on reader")
	createComment(t, gdb, reader, foreign, "reader on reader")

	require.NoError(t, svc.Delete(author.ID))

	var posts []db.Post
	require.NoError(t, gdb.Find(&posts).Error)
	assert.Equal(t, []string{"by reader"}, postTitles(posts))

	var comments []db.Comment
	require.NoError(t, gdb.Find(&comments).Error)
	require.Len(t, comments, 1)
	assert.Equal(t, "reader on reader", comments[0].Text)

	assert.ErrorIs(t, svc.Delete(author.ID), ErrUserNotFound)

	users, err := svc.List()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "reader", users[0].Username)
}
