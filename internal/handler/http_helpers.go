package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const loginPath = "/auth/login/"

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// parseOptionalID 解析可选的下拉框 id，空值返回 nil。
func parseOptionalID(raw string) (*uint, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("invalid id %q", trimmed)
	}
	value := uint(id)
	return &value, nil
}

func formatOptionalID(id *uint) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}

func checkboxValue(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "off":
		return false
	default:
		return true
	}
}

func profilePath(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postPath(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

func loginRedirectPath(next string) string {
	return loginPath + "?next=" + url.QueryEscape(next)
}

// safeNext only accepts local absolute paths.
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	return next
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
	c.Abort()
}

func redirectToLogin(c *gin.Context) {
	redirect(c, loginRedirectPath(c.Request.URL.RequestURI()))
}
