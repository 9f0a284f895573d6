package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/blogicum/internal/db"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(db.DriverSQLite, dsn, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func createUser(t *testing.T, gdb *gorm.DB, username string) db.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password-"+username), bcrypt.MinCost)
	require.NoError(t, err)
	user := db.User{Username: username, Password: string(hashed)}
	require.NoError(t, gdb.Create(&user).Error)
	return user
}

func createCategory(t *testing.T, gdb *gorm.DB, slug string, published bool) db.Category {
	t.Helper()
	category := db.Category{Title: "Category " + slug, Slug: slug, IsPublished: published}
	require.NoError(t, gdb.Create(&category).Error)
	return category
}

type postOption func(*db.Post)

func withCategory(category db.Category) postOption {
	return func(p *db.Post) { p.CategoryID = &category.ID }
}

func unpublished() postOption {
	return func(p *db.Post) { p.IsPublished = false }
}

func publishedAt(at time.Time) postOption {
	return func(p *db.Post) { p.PubDate = at }
}

func createPost(t *testing.T, gdb *gorm.DB, author db.User, title string, opts ...postOption) db.Post {
	t.Helper()
	post := db.Post{
		Title:       title,
		Text:        "Body of " + title,
		PubDate:     fixedNow.Add(-time.Hour),
		IsPublished: true,
		AuthorID:    author.ID,
	}
	for _, opt := range opts {
		opt(&post)
	}
	require.NoError(t, gdb.Create(&post).Error)
	return post
}

func createComment(t *testing.T, gdb *gorm.DB, author db.User, post db.Post, text string) db.Comment {
	t.Helper()
	comment := db.Comment{Text: text, AuthorID: author.ID, PostID: post.ID}
	require.NoError(t, gdb.Create(&comment).Error)
	return comment
}

func identityOf(user db.User) Identity {
	return Identity{UserID: user.ID, Username: user.Username}
}

func postTitles(posts []db.Post) []string {
	titles := make([]string, 0, len(posts))
	for _, post := range posts {
		titles = append(titles, post.Title)
	}
	return titles
}
