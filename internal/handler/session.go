package handler

import (
	"errors"

	"github.com/blogicum/internal/middleware"
	"github.com/blogicum/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
	identityContextKey = "__identity"
)

func sessionFrom(c *gin.Context) sessions.Session {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return sessions.Default(c)
}

// LoadIdentity 从会话中恢复当前用户，并放入请求上下文。
// 会话中的用户若已被删除，会话会被清空。
func (a *API) LoadIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := service.Anonymous()
		session := sessionFrom(c)
		if session != nil {
			if userID, ok := session.Get(sessionUserIDKey).(uint); ok && userID != 0 {
				user, err := a.users.GetByID(userID)
				switch {
				case err == nil:
					identity = service.Identity{UserID: user.ID, Username: user.Username}
				case errors.Is(err, service.ErrUserNotFound):
					session.Delete(sessionUserIDKey)
					session.Delete(sessionUsernameKey)
					_ = session.Save()
				default:
					c.Error(err)
				}
			}
		}

		c.Set(identityContextKey, identity)
		if identity.Authenticated() {
			c.Set(middleware.UserIDKey, identity.UserID)
		}
		c.Next()
	}
}

func currentIdentity(c *gin.Context) service.Identity {
	if value, ok := c.Get(identityContextKey); ok {
		if identity, ok := value.(service.Identity); ok {
			return identity
		}
	}
	return service.Anonymous()
}

// AuthRequired 是一个简单的认证中间件
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentIdentity(c).Authenticated() {
			redirectToLogin(c)
			return
		}
		c.Next()
	}
}

func (a *API) startSession(c *gin.Context, identity service.Identity) error {
	session := sessionFrom(c)
	if session == nil {
		return errors.New("session middleware not installed")
	}
	session.Set(sessionUserIDKey, identity.UserID)
	session.Set(sessionUsernameKey, identity.Username)
	return session.Save()
}
