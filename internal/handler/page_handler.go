package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ShowPage 渲染静态页面（/pages/about/、/pages/rules/）
func (a *API) ShowPage(c *gin.Context) {
	page, err := a.pages.GetBySlug(c.Param("slug"))
	if err != nil {
		a.fail(c, err)
		return
	}

	body, err := renderMarkdown(page.Content)
	if err != nil {
		a.fail(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "page.html", gin.H{
		"title":       page.Title,
		"description": page.Summary,
		"page":        page,
		"body":        body,
	})
}
