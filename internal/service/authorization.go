package service

import (
	"time"

	"github.com/blogicum/internal/db"
)

// Action names an operation gated by ownership or visibility.
type Action int

const (
	ActionViewPost Action = iota + 1
	ActionEditPost
	ActionDeletePost
	ActionEditProfile
	ActionCreateComment
	ActionEditComment
	ActionDeleteComment
)

func (a Action) String() string {
	switch a {
	case ActionViewPost:
		return "view_post"
	case ActionEditPost:
		return "edit_post"
	case ActionDeletePost:
		return "delete_post"
	case ActionEditProfile:
		return "edit_profile"
	case ActionCreateComment:
		return "create_comment"
	case ActionEditComment:
		return "edit_comment"
	case ActionDeleteComment:
		return "delete_comment"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Authorize.
type Decision int

const (
	// Allow lets the request proceed.
	Allow Decision = iota
	// DenyNotFound hides the target behind a 404.
	DenyNotFound
	// DenyRedirect silently steers the actor away without mutating anything.
	DenyRedirect
	// DenyLogin sends an anonymous actor to the login page.
	DenyLogin
)

// Target is the entity an action is performed on. Only the field relevant
// to the action needs to be set; Comment actions read Comment.AuthorID.
type Target struct {
	Post    *db.Post
	Comment *db.Comment
	Profile *db.User
}

// Authorize decides whether actor may perform action on target at now.
// It has no side effects and never touches the database.
func Authorize(action Action, actor Identity, target Target, now time.Time) Decision {
	switch action {
	case ActionViewPost:
		if target.Post == nil {
			return DenyNotFound
		}
		if target.Post.IsAuthoredBy(actor.UserID) || target.Post.VisibleAt(now) {
			return Allow
		}
		return DenyNotFound

	case ActionEditPost, ActionDeletePost:
		if target.Post == nil {
			return DenyNotFound
		}
		if !actor.Authenticated() {
			return DenyLogin
		}
		if !target.Post.IsAuthoredBy(actor.UserID) {
			return DenyRedirect
		}
		return Allow

	case ActionEditProfile:
		if target.Profile == nil {
			return DenyNotFound
		}
		if !actor.Authenticated() || target.Profile.Username != actor.Username {
			return DenyRedirect
		}
		return Allow

	case ActionCreateComment:
		if target.Post == nil {
			return DenyNotFound
		}
		if !actor.Authenticated() {
			return DenyLogin
		}
		return Allow

	case ActionEditComment, ActionDeleteComment:
		if target.Comment == nil {
			return DenyNotFound
		}
		if !actor.Authenticated() {
			return DenyLogin
		}
		if !actor.Is(target.Comment.AuthorID) {
			return DenyRedirect
		}
		return Allow
	}

	return DenyNotFound
}
