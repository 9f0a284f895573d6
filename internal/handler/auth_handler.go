package handler

import (
	"errors"
	"net/http"

	"github.com/blogicum/internal/observability"
	"github.com/blogicum/internal/service"
	"github.com/gin-gonic/gin"
)

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "Вход",
		"next":  c.Query("next"),
	})
}

// Login 处理用户登录请求
func (a *API) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	next := c.PostForm("next")

	user, err := a.users.Authenticate(username, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			a.fail(c, err)
			return
		}
		observability.RecordEvent("login_failed")
		a.logger.Warn("login failed", "username", username, "client_ip", c.ClientIP())
		a.renderHTML(c, http.StatusOK, "login.html", gin.H{
			"title":    "Вход",
			"next":     next,
			"username": username,
			"errors": service.ValidationErrors{
				"__all__": "Пожалуйста, введите правильные имя пользователя и пароль.",
			},
		})
		return
	}

	// 设置会话
	if err := a.startSession(c, service.Identity{UserID: user.ID, Username: user.Username}); err != nil {
		a.fail(c, err)
		return
	}

	observability.RecordEvent("login")
	redirect(c, safeNext(next))
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	if session := sessionFrom(c); session != nil {
		session.Clear()
		if err := session.Save(); err != nil {
			c.Error(err)
		}
	}
	redirect(c, "/")
}

// ShowRegistration renders the sign-up form.
func (a *API) ShowRegistration(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "registration.html", gin.H{
		"title": "Регистрация",
	})
}

// Register creates an account and sends the visitor to the index.
func (a *API) Register(c *gin.Context) {
	username := c.PostForm("username")
	user, err := a.users.Register(service.RegistrationInput{
		Username:  username,
		Password1: c.PostForm("password1"),
		Password2: c.PostForm("password2"),
	})
	if err != nil {
		if verrs, ok := service.AsValidation(err); ok {
			a.renderHTML(c, http.StatusOK, "registration.html", gin.H{
				"title":    "Регистрация",
				"username": username,
				"errors":   verrs,
			})
			return
		}
		a.fail(c, err)
		return
	}

	observability.RecordEvent("user_registered")
	a.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	redirect(c, "/")
}
