package handler_test

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/blogicum/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentLengthIsValidated(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author")
	app.createUser(t, "reader")
	post := app.createPost(t, author, "Discuss")
	path := fmt.Sprintf("/posts/%d/comment/", post.ID)

	b := app.browser(t)
	b.login(t, "reader")

	rr := b.post(path, url.Values{"text": {strings.Repeat("a", 101)}})
	expectStatus(t, rr, http.StatusOK)
	assert.Contains(t, rr.Body.String(), "at most 100 characters")
	assert.Zero(t, app.count(t, &db.Comment{}))

	expectRedirect(t, b.post(path, url.Values{"text": {strings.Repeat("a", 100)}}), fmt.Sprintf("/posts/%d/", post.ID))
	assert.EqualValues(t, 1, app.count(t, &db.Comment{}))
}

func TestCommentOnUnpublishedPostIsAccepted(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author")
	app.createUser(t, "reader")
	draft := app.createPost(t, author, "Draft", func(p *db.Post) { p.IsPublished = false })

	b := app.browser(t)
	b.login(t, "reader")
	expectRedirect(t, b.post(fmt.Sprintf("/posts/%d/comment/", draft.ID), url.Values{"text": {"psst"}}), fmt.Sprintf("/posts/%d/", draft.ID))

	expectStatus(t, b.post("/posts/999/comment/", url.Values{"text": {"lost"}}), http.StatusNotFound)
}

func TestAnonymousCommentRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author")
	post := app.createPost(t, author, "Open")

	b := app.browser(t)
	rr := b.post(fmt.Sprintf("/posts/%d/comment/", post.ID), url.Values{"text": {"hi"}})
	expectStatus(t, rr, http.StatusFound)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Location"), "/auth/login/?next="), "got %q", rr.Header().Get("Location"))
	assert.Zero(t, app.count(t, &db.Comment{}))
}

func TestCommentEditAndDeleteOwnership(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author")
	commenter := app.createUser(t, "commenter")
	app.createUser(t, "stranger")
	post := app.createPost(t, author, "Thread")
	comment := app.createComment(t, commenter, post, "original")

	detail := fmt.Sprintf("/posts/%d/", post.ID)
	editPath := fmt.Sprintf("/posts/%d/edit_comment/%d/", post.ID, comment.ID)
	deletePath := fmt.Sprintf("/posts/%d/delete_comment/%d/", post.ID, comment.ID)

	stranger := app.browser(t)
	stranger.login(t, "stranger")
	expectRedirect(t, stranger.get(editPath), detail)
	expectRedirect(t, stranger.post(editPath, url.Values{"text": {"vandalised"}}), detail)
	expectRedirect(t, stranger.get(deletePath), detail)
	expectRedirect(t, stranger.post(deletePath, nil), detail)

	var reloaded db.Comment
	require.NoError(t, app.db.First(&reloaded, comment.ID).Error)
	assert.Equal(t, "original", reloaded.Text)

	owner := app.browser(t)
	owner.login(t, "commenter")
	rr := owner.get(editPath)
	expectStatus(t, rr, http.StatusOK)
	assert.Contains(t, rr.Body.String(), "original")

	expectStatus(t, owner.post(editPath, url.Values{"text": {strings.Repeat("b", 101)}}), http.StatusOK)
	expectRedirect(t, owner.post(editPath, url.Values{"text": {"revised"}}), detail)
	require.NoError(t, app.db.First(&reloaded, comment.ID).Error)
	assert.Equal(t, "revised", reloaded.Text)

	expectStatus(t, owner.get(fmt.Sprintf("/posts/%d/edit_comment/%d/", post.ID+1, comment.ID)), http.StatusNotFound)

	expectStatus(t, owner.get(deletePath), http.StatusOK)
	expectRedirect(t, owner.post(deletePath, nil), detail)
	assert.Zero(t, app.count(t, &db.Comment{}))
	expectStatus(t, owner.get(deletePath), http.StatusNotFound)
}
