package handler_test

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/blogicum/internal/db"
	"github.com/blogicum/internal/router"
	"github.com/blogicum/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const baseURL = "http://blogicum.test"

var csrfPattern = regexp.MustCompile(`name="csrfmiddlewaretoken" value="([0-9a-f]+)"`)

type testApp struct {
	handler  http.Handler
	db       *gorm.DB
	mediaDir string
}

func newTestApp(t *testing.T, mutate ...func(*router.Options)) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(db.DriverSQLite, dsn, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	mediaDir := t.TempDir()
	opts := router.Options{
		SessionSecret: "test-secret",
		Media:         service.NewMediaStore(mediaDir, "/media"),
		Logger:        slog.New(slog.NewJSONHandler(io.Discard, nil)),
		PasswordCost:  bcrypt.MinCost,
	}
	for _, fn := range mutate {
		fn(&opts)
	}

	return &testApp{handler: router.SetupRouter(gdb, opts), db: gdb, mediaDir: mediaDir}
}

func (app *testApp) createUser(t *testing.T, username string) db.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("pass-"+username), bcrypt.MinCost)
	require.NoError(t, err)
	user := db.User{Username: username, Password: string(hashed)}
	require.NoError(t, app.db.Create(&user).Error)
	return user
}

func (app *testApp) createCategory(t *testing.T, slug string, published bool) db.Category {
	t.Helper()
	category := db.Category{Title: "Category " + slug, Slug: slug, IsPublished: published}
	require.NoError(t, app.db.Create(&category).Error)
	return category
}

func (app *testApp) createPost(t *testing.T, author db.User, title string, mutate ...func(*db.Post)) db.Post {
	t.Helper()
	post := db.Post{
		Title:       title,
		Text:        "Body of " + title,
		PubDate:     time.Now().UTC().Add(-time.Hour),
		IsPublished: true,
		AuthorID:    author.ID,
	}
	for _, fn := range mutate {
		fn(&post)
	}
	require.NoError(t, app.db.Create(&post).Error)
	return post
}

func (app *testApp) createComment(t *testing.T, author db.User, post db.Post, text string) db.Comment {
	t.Helper()
	comment := db.Comment{Text: text, AuthorID: author.ID, PostID: post.ID}
	require.NoError(t, app.db.Create(&comment).Error)
	return comment
}

func (app *testApp) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, app.db.Model(model).Count(&n).Error)
	return n
}

// browser keeps cookies and the latest CSRF token between requests.
type browser struct {
	app  *testApp
	jar  http.CookieJar
	csrf string
}

func (app *testApp) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{app: app, jar: jar}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range b.jar.Cookies(req.URL) {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	b.app.handler.ServeHTTP(rr, req)
	b.jar.SetCookies(req.URL, rr.Result().Cookies())
	if match := csrfPattern.FindStringSubmatch(rr.Body.String()); match != nil {
		b.csrf = match[1]
	}
	return rr
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, baseURL+path, nil))
}

// post submits form with the current CSRF token, fetching one first if needed.
func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	if b.csrf == "" {
		b.get("/auth/login/")
	}
	if form == nil {
		form = url.Values{}
	}
	if form.Get("csrfmiddlewaretoken") == "" {
		form.Set("csrfmiddlewaretoken", b.csrf)
	}
	req := httptest.NewRequest(http.MethodPost, baseURL+path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) postMultipart(t *testing.T, path string, fields map[string]string, fileField, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	if b.csrf == "" {
		b.get("/auth/login/")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields["csrfmiddlewaretoken"] = b.csrf
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, baseURL+path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return b.do(req)
}

func (b *browser) login(t *testing.T, username string) {
	t.Helper()
	b.get("/auth/login/")
	rr := b.post("/auth/login/", url.Values{"username": {username}, "password": {"pass-" + username}})
	require.Equal(t, http.StatusFound, rr.Code, "login as %s", username)
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rr.Code, "body: %s", rr.Body.String())
}

func expectRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	expectStatus(t, rr, http.StatusFound)
	require.Equal(t, location, rr.Header().Get("Location"))
}
