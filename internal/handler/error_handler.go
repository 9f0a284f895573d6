package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/blogicum/internal/service"
	"github.com/gin-gonic/gin"
)

var errorPages = map[int]struct {
	template string
	title    string
}{
	http.StatusForbidden:           {"403.html", "Ошибка проверки CSRF-токена"},
	http.StatusNotFound:            {"404.html", "Страница не найдена"},
	http.StatusTooManyRequests:     {"429.html", "Слишком много запросов"},
	http.StatusInternalServerError: {"500.html", "Ошибка сервера"},
}

func (a *API) renderError(c *gin.Context, status int) {
	page, ok := errorPages[status]
	if !ok {
		page = errorPages[http.StatusInternalServerError]
		status = http.StatusInternalServerError
	}
	a.renderHTML(c, status, page.template, gin.H{"title": page.title})
}

// NotFound renders the 404 page for unknown routes.
func (a *API) NotFound(c *gin.Context) {
	a.renderError(c, http.StatusNotFound)
}

// TooManyRequests renders the 429 page.
func (a *API) TooManyRequests(c *gin.Context) {
	a.renderError(c, http.StatusTooManyRequests)
}

// Recover renders the 500 page for panics raised by handlers.
func (a *API) Recover(c *gin.Context, recovered any) {
	a.logger.Error("panic while handling request",
		"path", c.Request.URL.Path,
		"panic", fmt.Sprint(recovered),
	)
	a.renderError(c, http.StatusInternalServerError)
	c.Abort()
}

// fail 将服务层错误映射为错误页面：不存在的对象统一返回 404。
func (a *API) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrLocationNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPageNotFound):
		a.renderError(c, http.StatusNotFound)
	default:
		c.Error(err)
		a.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
		a.renderError(c, http.StatusInternalServerError)
	}
	c.Abort()
}
