package handler

import (
	"net/http"

	"github.com/blogicum/internal/db"
	"github.com/blogicum/internal/observability"
	"github.com/blogicum/internal/service"
	"github.com/gin-gonic/gin"
)

type commentForm struct {
	Text string
}

func (a *API) renderCommentForm(c *gin.Context, postID uint, comment *db.Comment, form commentForm, errs service.ValidationErrors, deleting bool) {
	title := "Редактирование комментария"
	switch {
	case deleting:
		title = "Удаление комментария"
	case comment == nil:
		title = "Добавление комментария"
	}
	a.renderHTML(c, http.StatusOK, "comment.html", gin.H{
		"title":    title,
		"postID":   postID,
		"comment":  comment,
		"form":     form,
		"errors":   errs,
		"deleting": deleting,
	})
}

// AddComment attaches a comment to the post in the URL.
func (a *API) AddComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.NotFound(c)
		return
	}
	post, err := a.posts.Get(id)
	if err != nil {
		a.fail(c, err)
		return
	}

	identity := currentIdentity(c)
	switch service.Authorize(service.ActionCreateComment, identity, service.Target{Post: post}, a.posts.Now()) {
	case service.Allow:
	case service.DenyLogin:
		redirectToLogin(c)
		return
	default:
		a.NotFound(c)
		return
	}

	form := commentForm{Text: c.PostForm("text")}
	comment, err := a.comments.Create(identity, post.ID, service.CommentInput{Text: form.Text})
	if err != nil {
		if verrs, ok := service.AsValidation(err); ok {
			a.renderCommentForm(c, post.ID, nil, form, verrs, false)
			return
		}
		a.fail(c, err)
		return
	}

	observability.RecordEvent("comment_created")
	a.logger.Info("comment created", "comment_id", comment.ID, "post_id", post.ID, "user_id", identity.UserID)
	redirect(c, postPath(post.ID))
}

// loadCommentFor resolves :id/:comment_id and applies action. Denied
// authors are sent back to the post.
func (a *API) loadCommentFor(c *gin.Context, action service.Action) *db.Comment {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		a.NotFound(c)
		return nil
	}
	commentID, err := parseUintParam(c, "comment_id")
	if err != nil {
		a.NotFound(c)
		return nil
	}
	comment, err := a.comments.Get(postID, commentID)
	if err != nil {
		a.fail(c, err)
		return nil
	}

	switch service.Authorize(action, currentIdentity(c), service.Target{Comment: comment}, a.posts.Now()) {
	case service.Allow:
		return comment
	case service.DenyLogin:
		redirectToLogin(c)
	case service.DenyRedirect:
		redirect(c, postPath(postID))
	default:
		a.NotFound(c)
	}
	return nil
}

// ShowEditComment renders the comment form.
func (a *API) ShowEditComment(c *gin.Context) {
	comment := a.loadCommentFor(c, service.ActionEditComment)
	if comment == nil {
		return
	}
	a.renderCommentForm(c, comment.PostID, comment, commentForm{Text: comment.Text}, nil, false)
}

// EditComment replaces the comment text.
func (a *API) EditComment(c *gin.Context) {
	comment := a.loadCommentFor(c, service.ActionEditComment)
	if comment == nil {
		return
	}

	form := commentForm{Text: c.PostForm("text")}
	if _, err := a.comments.Update(comment.ID, service.CommentInput{Text: form.Text}); err != nil {
		if verrs, ok := service.AsValidation(err); ok {
			a.renderCommentForm(c, comment.PostID, comment, form, verrs, false)
			return
		}
		a.fail(c, err)
		return
	}
	redirect(c, postPath(comment.PostID))
}

// ShowDeleteComment renders the delete confirmation.
func (a *API) ShowDeleteComment(c *gin.Context) {
	comment := a.loadCommentFor(c, service.ActionDeleteComment)
	if comment == nil {
		return
	}
	a.renderCommentForm(c, comment.PostID, comment, commentForm{Text: comment.Text}, nil, true)
}

// DeleteComment removes the comment.
func (a *API) DeleteComment(c *gin.Context) {
	comment := a.loadCommentFor(c, service.ActionDeleteComment)
	if comment == nil {
		return
	}
	if err := a.comments.Delete(comment.ID); err != nil {
		a.fail(c, err)
		return
	}
	observability.RecordEvent("comment_deleted")
	redirect(c, postPath(comment.PostID))
}
