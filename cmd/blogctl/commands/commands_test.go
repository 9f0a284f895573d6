package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blogicum/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCommandTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:blogctl-%d?mode=memory&cache=shared", time.Now().UnixNano())
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

func run(t *testing.T, gdb *gorm.DB, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(&app{gdb: gdb})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrate(t *testing.T) {
	out, err := run(t, setupCommandTestDB(t), "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema is up to date")
}

func TestUserCommands(t *testing.T) {
	gdb := setupCommandTestDB(t)

	out, err := run(t, gdb, "user", "create", "--username", "alice", "--password", "long-password", "--email", "alice@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "created user alice")

	_, err = run(t, gdb, "user", "create", "--username", "alice", "--password", "long-password")
	assert.Error(t, err, "duplicate usernames are rejected")

	_, err = run(t, gdb, "user", "create", "--username", "bob")
	assert.Error(t, err, "password flag is required")

	out, err = run(t, gdb, "user", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "USERNAME")
	assert.Contains(t, out, "alice@example.com")

	var alice db.User
	require.NoError(t, gdb.Where("username = ?", "alice").First(&alice).Error)
	post := db.Post{Title: "Hello", Text: "x", PubDate: time.Now().UTC(), IsPublished: true, AuthorID: alice.ID}
	require.NoError(t, gdb.Create(&post).Error)

	out, err = run(t, gdb, "user", "delete", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted user alice")

	var posts int64
	require.NoError(t, gdb.Model(&db.Post{}).Count(&posts).Error)
	assert.Zero(t, posts)

	_, err = run(t, gdb, "user", "delete", "alice")
	assert.Error(t, err)
}

func TestCategoryCommands(t *testing.T) {
	gdb := setupCommandTestDB(t)

	out, err := run(t, gdb, "category", "create", "--title", "Travel", "--slug", "travel", "--published=false")
	require.NoError(t, err)
	assert.Contains(t, out, "created category travel")

	_, err = run(t, gdb, "category", "create", "--title", "Bad", "--slug", "not a slug")
	assert.Error(t, err)

	out, err = run(t, gdb, "category", "list", "--published")
	require.NoError(t, err)
	assert.NotContains(t, out, "travel")

	_, err = run(t, gdb, "category", "publish", "travel")
	require.NoError(t, err)

	out, err = run(t, gdb, "categories", "list", "--published")
	require.NoError(t, err)
	assert.Contains(t, out, "travel")

	_, err = run(t, gdb, "category", "unpublish", "travel")
	require.NoError(t, err)
	var category db.Category
	require.NoError(t, gdb.Where("slug = ?", "travel").First(&category).Error)
	assert.False(t, category.IsPublished)

	_, err = run(t, gdb, "category", "delete", "travel")
	require.NoError(t, err)
	_, err = run(t, gdb, "category", "delete", "travel")
	assert.Error(t, err)
}

func TestLocationCommands(t *testing.T) {
	gdb := setupCommandTestDB(t)

	out, err := run(t, gdb, "location", "create", "--name", "Planet Earth")
	require.NoError(t, err)
	assert.Contains(t, out, "created location Planet Earth")

	var location db.Location
	require.NoError(t, gdb.First(&location).Error)
	id := fmt.Sprint(location.ID)

	_, err = run(t, gdb, "location", "unpublish", id)
	require.NoError(t, err)
	require.NoError(t, gdb.First(&location, location.ID).Error)
	assert.False(t, location.IsPublished)

	out, err = run(t, gdb, "location", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Planet Earth")

	_, err = run(t, gdb, "location", "delete", "zero")
	assert.Error(t, err)

	_, err = run(t, gdb, "location", "delete", id)
	require.NoError(t, err)
	var remaining int64
	require.NoError(t, gdb.Model(&db.Location{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestSeed(t *testing.T) {
	gdb := setupCommandTestDB(t)

	out, err := run(t, gdb, "seed", "--users", "2", "--categories", "1", "--locations", "1", "--posts-per-user", "2", "--comments-per-post", "1", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "users=2 categories=1 locations=1 posts=4 comments=4")
}

func TestPageSetAndList(t *testing.T) {
	gdb := setupCommandTestDB(t)

	out, err := run(t, gdb, "page", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "about")
	assert.Contains(t, out, "rules")

	out, err = run(t, gdb, "page", "set", "rules", "--title", "Правила", "--content", "Будьте вежливы.")
	require.NoError(t, err)
	assert.Contains(t, out, "saved page rules (/pages/rules/)")

	path := filepath.Join(t.TempDir(), "about.md")
	require.NoError(t, os.WriteFile(path, []byte("**Блогикум** для всех"), 0o644))
	_, err = run(t, gdb, "page", "set", "about", "--title", "О нас", "--file", path)
	require.NoError(t, err)

	var about db.Page
	require.NoError(t, gdb.Where("slug = ?", "about").First(&about).Error)
	assert.Equal(t, "О нас", about.Title)
	assert.Equal(t, "**Блогикум** для всех", about.Content)

	_, err = run(t, gdb, "page", "set", "rules", "--content", "no title")
	assert.Error(t, err)
	_, err = run(t, gdb, "page", "set", "rules", "--title", "x", "--content", "a", "--file", path)
	assert.Error(t, err)
}
