package handler

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/blogicum/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}

// Index renders the public feed.
func (a *API) Index(c *gin.Context) {
	feed, err := a.posts.IndexFeed(service.ParsePage(c.Query("page")))
	if err != nil {
		a.fail(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "index.html", gin.H{
		"title": "Лента записей",
		"feed":  feed,
	})
}

// Profile renders a user's page with the posts visible to the viewer.
func (a *API) Profile(c *gin.Context) {
	identity := currentIdentity(c)
	feed, err := a.posts.ProfileFeed(c.Param("username"), identity, service.ParsePage(c.Query("page")))
	if err != nil {
		a.fail(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "profile.html", gin.H{
		"title":   feed.Profile.FullName(),
		"profile": feed.Profile,
		"feed":    feed,
		"isOwner": identity.Is(feed.Profile.ID),
	})
}

// CategoryPosts renders the feed of a published category.
func (a *API) CategoryPosts(c *gin.Context) {
	feed, err := a.posts.CategoryFeed(c.Param("slug"), service.ParsePage(c.Query("page")))
	if err != nil {
		a.fail(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "category.html", gin.H{
		"title":    feed.Category.Title,
		"category": feed.Category,
		"feed":     feed,
	})
}

// PostDetail renders one post with its comments. Posts the viewer may not
// see are reported as missing.
func (a *API) PostDetail(c *gin.Context) {
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
	if service.Authorize(service.ActionViewPost, identity, service.Target{Post: post}, a.posts.Now()) != service.Allow {
		a.NotFound(c)
		return
	}

	comments, err := a.comments.ListForPost(post.ID)
	if err != nil {
		a.fail(c, err)
		return
	}

	body, err := renderMarkdown(post.Text)
	if err != nil {
		a.fail(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "detail.html", gin.H{
		"title":    post.Title,
		"post":     post,
		"body":     body,
		"comments": comments,
		"isAuthor": post.IsAuthoredBy(identity.UserID),
		"form":     commentForm{},
	})
}
