package router

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/blogicum/internal/handler"
	"github.com/blogicum/internal/middleware"
	"github.com/blogicum/internal/observability"
	"github.com/blogicum/internal/service"
	"github.com/blogicum/web"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const sessionName = "blogicum_session"

// Options configures SetupRouter.
type Options struct {
	SessionSecret string
	SecureCookies bool
	// StaticDir serves /static from disk instead of the embedded assets.
	StaticDir string
	Media     *service.MediaStore
	Logger    *slog.Logger
	// RateLimitPerMinute limits login, registration and comment posts per
	// client IP. Zero disables limiting.
	RateLimitPerMinute int
	RateLimitBurst     int
	Clock              func() time.Time
	PasswordCost       int
	Location           *time.Location
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := handler.NewAPI(gdb, handler.Options{
		Media:        opts.Media,
		Logger:       logger,
		Location:     opts.Location,
		Clock:        opts.Clock,
		PasswordCost: opts.PasswordCost,
	})

	r := gin.New()
	r.Use(gin.CustomRecovery(api.Recover))
	r.Use(middleware.RequestLogger(logger), middleware.Metrics())

	// 配置会话中间件
	secret := opts.SessionSecret
	if strings.TrimSpace(secret) == "" {
		secret = "blogicum-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(api.LoadIdentity(), api.CSRFProtect())

	// 加载模板并添加自定义函数
	tmpl, err := web.ParseTemplates(api.TemplateFuncs())
	if err != nil {
		panic(err)
	}
	r.SetHTMLTemplate(tmpl)

	// 静态文件服务
	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
	} else {
		r.StaticFS("/static", http.FS(web.Static()))
	}
	media := api.Media()
	r.Static(media.URLPath(), media.Dir())

	r.GET("/metrics", gin.WrapH(observability.Handler()))

	var limiter *middleware.RateLimiter
	if opts.RateLimitPerMinute > 0 {
		limiter = middleware.NewRateLimiter(opts.RateLimitPerMinute, opts.RateLimitBurst)
	}
	limit := middleware.RateLimit(limiter, api.TooManyRequests)

	r.GET("/", api.Index)
	r.GET("/category/:slug/", api.CategoryPosts)
	r.GET("/pages/:slug/", api.ShowPage)

	r.GET("/profile/:username/", api.Profile)
	r.GET("/profile/:username/edit/", api.ShowEditProfile)
	r.POST("/profile/:username/edit/", api.EditProfile)

	r.GET("/posts/:id/", api.PostDetail)

	// 需要登录的路由
	auth := r.Group("")
	auth.Use(handler.AuthRequired())
	{
		auth.GET("/create/", api.ShowCreatePost)
		auth.POST("/create/", api.CreatePost)

		auth.GET("/posts/:id/edit/", api.ShowEditPost)
		auth.POST("/posts/:id/edit/", api.EditPost)
		auth.GET("/posts/:id/delete/", api.ShowDeletePost)
		auth.POST("/posts/:id/delete/", api.DeletePost)

		auth.POST("/posts/:id/comment/", limit, api.AddComment)
		auth.GET("/posts/:id/edit_comment/:comment_id/", api.ShowEditComment)
		auth.POST("/posts/:id/edit_comment/:comment_id/", api.EditComment)
		auth.GET("/posts/:id/delete_comment/:comment_id/", api.ShowDeleteComment)
		auth.POST("/posts/:id/delete_comment/:comment_id/", api.DeleteComment)
	}

	accounts := r.Group("/auth")
	{
		accounts.GET("/login/", api.ShowLoginPage)
		accounts.POST("/login/", limit, api.Login)
		accounts.GET("/logout/", api.Logout)
		accounts.POST("/logout/", api.Logout)
		accounts.GET("/registration/", api.ShowRegistration)
		accounts.POST("/registration/", limit, api.Register)
	}

	r.NoRoute(api.NotFound)

	return r
}
