package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/blogicum/internal/db"
	"gorm.io/gorm"
)

const commentCountSelect = "posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

// PostService wraps post related database operations.
type PostService struct {
	db  *gorm.DB
	now func() time.Time
}

// FeedPage is one page of an annotated post feed.
type FeedPage struct {
	Posts []db.Post
	Pagination
}

// ProfileFeed is a user's profile together with their visible posts.
type ProfileFeed struct {
	Profile db.User
	FeedPage
}

// CategoryFeed is a published category together with its visible posts.
type CategoryFeed struct {
	Category db.Category
	FeedPage
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock returns a copy of the service that reads the current time from now.
func (s *PostService) WithClock(now func() time.Time) *PostService {
	clone := *s
	clone.now = func() time.Time { return now().UTC() }
	return &clone
}

// Now returns the service clock's current time.
func (s *PostService) Now() time.Time {
	return s.now()
}

// IndexFeed lists publicly visible posts, newest first.
func (s *PostService) IndexFeed(page int) (*FeedPage, error) {
	return s.feed(page, publicPosts(s.now()))
}

// ProfileFeed lists the posts of username. The owner sees everything they
// wrote; other viewers only see published posts whose date has passed.
func (s *PostService) ProfileFeed(username string, viewer Identity, page int) (*ProfileFeed, error) {
	var profile db.User
	if err := s.db.Where("username = ?", username).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	scope := authoredBy(profile.ID)
	if !viewer.Is(profile.ID) {
		now := s.now()
		scope = func(q *gorm.DB) *gorm.DB {
			return authoredBy(profile.ID)(q).
				Where("posts.is_published = ?", true).
				Where("posts.pub_date <= ?", now)
		}
	}

	feed, err := s.feed(page, scope)
	if err != nil {
		return nil, err
	}
	return &ProfileFeed{Profile: profile, FeedPage: *feed}, nil
}

// CategoryFeed lists publicly visible posts of a published category.
func (s *PostService) CategoryFeed(slug string, page int) (*CategoryFeed, error) {
	var category db.Category
	if err := s.db.Where("slug = ? AND is_published = ?", slug, true).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	now := s.now()
	feed, err := s.feed(page, func(q *gorm.DB) *gorm.DB {
		return publicPosts(now)(q).Where("posts.category_id = ?", category.ID)
	})
	if err != nil {
		return nil, err
	}
	return &CategoryFeed{Category: category, FeedPage: *feed}, nil
}

// Get fetches a post by id with its relations and comment count.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.annotated().Where("posts.id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// Create validates input and stores a new post owned by author.
func (s *PostService) Create(author Identity, input PostInput) (*db.Post, error) {
	if !author.Authenticated() {
		return nil, ErrUserNotFound
	}
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	post := db.Post{
		Title:       input.Title,
		Text:        input.Text,
		PubDate:     s.pubDate(input.PubDate),
		IsPublished: input.IsPublished,
		Image:       input.Image,
		AuthorID:    author.UserID,
		CategoryID:  input.CategoryID,
		LocationID:  input.LocationID,
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.Get(post.ID)
}

// Update applies input to an existing post. Ownership is checked by the caller.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	if err := s.validate(&input); err != nil {
		return nil, err
	}

	image := existing.Image
	switch {
	case input.Image != "":
		image = input.Image
	case input.ClearImage:
		image = ""
	}

	updates := map[string]interface{}{
		"title":        input.Title,
		"text":         input.Text,
		"pub_date":     s.pubDate(input.PubDate),
		"is_published": input.IsPublished,
		"image":        image,
		"category_id":  input.CategoryID,
		"location_id":  input.LocationID,
	}
	if err := s.db.Model(&db.Post{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return s.Get(id)
}

// Delete removes a post and all of its comments.
func (s *PostService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return fmt.Errorf("delete post comments: %w", err)
		}
		result := tx.Delete(&db.Post{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete post: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrPostNotFound
		}
		return nil
	})
}

func (s *PostService) feed(page int, scope func(*gorm.DB) *gorm.DB) (*FeedPage, error) {
	var total int64
	if err := s.db.Model(&db.Post{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	pagination := Paginate(total, page, PageSize)

	var posts []db.Post
	if err := s.annotated().
		Scopes(scope).
		Order("posts.pub_date desc, posts.id desc").
		Limit(pagination.PerPage).
		Offset(pagination.Offset()).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return &FeedPage{Posts: posts, Pagination: pagination}, nil
}

func (s *PostService) annotated() *gorm.DB {
	return s.db.Model(&db.Post{}).
		Select(commentCountSelect).
		Preload("Author").
		Preload("Category").
		Preload("Location")
}

// Validate checks input without persisting anything.
func (s *PostService) Validate(input PostInput) error {
	return s.validate(&input)
}

func (s *PostService) validate(input *PostInput) error {
	input.normalize()
	verrs := validateStruct(input)

	if input.CategoryID != nil {
		var count int64
		if err := s.db.Model(&db.Category{}).Where("id = ?", *input.CategoryID).Count(&count).Error; err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if count == 0 {
			verrs.Add("category", "Select a valid choice. That choice is not one of the available choices.")
		}
	}
	if input.LocationID != nil {
		var count int64
		if err := s.db.Model(&db.Location{}).Where("id = ?", *input.LocationID).Count(&count).Error; err != nil {
			return fmt.Errorf("check location: %w", err)
		}
		if count == 0 {
			verrs.Add("location", "Select a valid choice. That choice is not one of the available choices.")
		}
	}

	return verrs.orNil()
}

func (s *PostService) pubDate(submitted time.Time) time.Time {
	if submitted.IsZero() {
		return s.now()
	}
	return submitted.UTC()
}

func publicPosts(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Joins("LEFT JOIN categories ON categories.id = posts.category_id").
			Where("posts.is_published = ?", true).
			Where("posts.pub_date <= ?", now).
			Where("(posts.category_id IS NULL OR categories.is_published = ?)", true)
	}
}

func authoredBy(userID uint) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("posts.author_id = ?", userID)
	}
}
