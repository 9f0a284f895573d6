package handler

import (
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/blogicum/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const siteName = "Блогикум"

// Options carries the optional collaborators of an API.
type Options struct {
	Media  *service.MediaStore
	Logger *slog.Logger
	// Location is the timezone submitted publication dates are read in.
	Location *time.Location
	// Clock overrides the current time used for visibility checks.
	Clock func() time.Time
	// PasswordCost overrides the bcrypt cost of new passwords.
	PasswordCost int
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	posts      *service.PostService
	comments   *service.CommentService
	users      *service.UserService
	categories *service.CategoryService
	locations  *service.LocationService
	pages      *service.PageService
	media      *service.MediaStore
	logger     *slog.Logger
	location   *time.Location
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, opts Options) *API {
	posts := service.NewPostService(gdb)
	if opts.Clock != nil {
		posts = posts.WithClock(opts.Clock)
	}
	users := service.NewUserService(gdb)
	if opts.PasswordCost > 0 {
		users = users.WithPasswordCost(opts.PasswordCost)
	}
	media := opts.Media
	if media == nil {
		media = service.NewMediaStore("media", "/media")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	location := opts.Location
	if location == nil {
		location = time.UTC
	}

	return &API{
		db:         gdb,
		posts:      posts,
		comments:   service.NewCommentService(gdb),
		users:      users,
		categories: service.NewCategoryService(gdb),
		locations:  service.NewLocationService(gdb),
		pages:      service.NewPageService(gdb),
		media:      media,
		logger:     logger,
		location:   location,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Media returns the upload store.
func (a *API) Media() *service.MediaStore {
	return a.media
}

// TemplateFuncs 返回模板中可用的辅助函数。
func (a *API) TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(x, y int) int {
			return x + y
		},
		"sub": func(x, y int) int {
			return x - y
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(a.location).Format("2 January 2006, 15:04")
		},
		"truncatewords": truncateWords,
		"media":         a.media.URL,
	}
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	identity := currentIdentity(c)
	if _, exists := payload["identity"]; !exists {
		payload["identity"] = identity
	}
	if _, exists := payload["errors"]; !exists {
		payload["errors"] = service.ValidationErrors{}
	}
	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = siteName
	}
	payload["csrfToken"] = csrfToken(c)
	payload["year"] = time.Now().Year()

	c.HTML(status, template, payload)
}

func truncateWords(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) <= limit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ") + " …"
}
