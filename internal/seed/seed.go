// Package seed fills a database with demo users, categories, locations,
// posts and comments. Everything is created through the service layer so
// the generated rows pass the same validation as user input.
package seed

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/blogicum/internal/db"
	"github.com/blogicum/internal/service"
	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is assigned to every generated account.
const DefaultPassword = "blogicum-demo"

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Options controls how much data a Factory generates.
type Options struct {
	Users           int
	Categories      int
	Locations       int
	PostsPerUser    int
	CommentsPerPost int
	Password        string
	// Seed makes runs reproducible; zero picks a random seed.
	Seed int64
	// PasswordCost overrides the bcrypt cost, tests use bcrypt.MinCost.
	PasswordCost int
	Now          func() time.Time
}

// DefaultOptions is a small but browsable data set.
func DefaultOptions() Options {
	return Options{
		Users:           5,
		Categories:      4,
		Locations:       3,
		PostsPerUser:    6,
		CommentsPerPost: 3,
		Password:        DefaultPassword,
	}
}

// Result counts the rows a run created.
type Result struct {
	Users      int
	Categories int
	Locations  int
	Posts      int
	Comments   int
}

func (r Result) String() string {
	return fmt.Sprintf("users=%d categories=%d locations=%d posts=%d comments=%d",
		r.Users, r.Categories, r.Locations, r.Posts, r.Comments)
}

// Factory builds demo entities and persists them.
type Factory struct {
	opts       Options
	faker      *gofakeit.Faker
	users      *service.UserService
	categories *service.CategoryService
	locations  *service.LocationService
	posts      *service.PostService
	comments   *service.CommentService
	now        func() time.Time
}

// NewFactory creates a Factory bound to gdb.
func NewFactory(gdb *gorm.DB, opts Options) *Factory {
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	users := service.NewUserService(gdb)
	if opts.PasswordCost > 0 {
		users = users.WithPasswordCost(opts.PasswordCost)
	}

	return &Factory{
		opts:       opts,
		faker:      gofakeit.New(opts.Seed),
		users:      users,
		categories: service.NewCategoryService(gdb),
		locations:  service.NewLocationService(gdb),
		posts:      service.NewPostService(gdb).WithClock(now),
		comments:   service.NewCommentService(gdb),
		now:        now,
	}
}

// Run generates the configured amount of data.
func (f *Factory) Run() (Result, error) {
	var result Result

	categories := make([]db.Category, 0, f.opts.Categories)
	for i := 0; i < f.opts.Categories; i++ {
		category, err := f.CreateCategory(i)
		if err != nil {
			return result, err
		}
		categories = append(categories, *category)
		result.Categories++
	}

	locations := make([]db.Location, 0, f.opts.Locations)
	for i := 0; i < f.opts.Locations; i++ {
		location, err := f.CreateLocation()
		if err != nil {
			return result, err
		}
		locations = append(locations, *location)
		result.Locations++
	}

	users := make([]db.User, 0, f.opts.Users)
	for i := 0; i < f.opts.Users; i++ {
		user, err := f.CreateUser(i)
		if err != nil {
			return result, err
		}
		users = append(users, *user)
		result.Users++
	}

	for _, author := range users {
		for i := 0; i < f.opts.PostsPerUser; i++ {
			post, err := f.CreatePost(author, pick(f.faker, categories), pick(f.faker, locations))
			if err != nil {
				return result, err
			}
			result.Posts++

			for j := 0; j < f.opts.CommentsPerPost && len(users) > 0; j++ {
				commenter := users[f.faker.Number(0, len(users)-1)]
				if _, err := f.CreateComment(commenter, post.ID); err != nil {
					return result, err
				}
				result.Comments++
			}
		}
	}

	return result, nil
}

// CreateUser registers an account with a generated username and fills in
// its profile.
func (f *Factory) CreateUser(n int) (*db.User, error) {
	first := f.faker.FirstName()
	last := f.faker.LastName()
	username := fmt.Sprintf("%s_%d", strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(first+"."+last), "_"), "_"), n+1)

	user, err := f.users.Register(service.RegistrationInput{
		Username:  username,
		Password1: f.opts.Password,
		Password2: f.opts.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("seed user %s: %w", username, err)
	}

	user, err = f.users.UpdateProfile(user.ID, service.ProfileInput{
		FirstName: first,
		LastName:  last,
		Username:  username,
		Email:     username + "@example.com",
	})
	if err != nil {
		return nil, fmt.Errorf("seed profile %s: %w", username, err)
	}
	return user, nil
}

// CreateCategory stores a published category with a unique slug.
func (f *Factory) CreateCategory(n int) (*db.Category, error) {
	word := strings.TrimSpace(f.faker.Noun())
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(word), "-"), "-")
	if slug == "" {
		word, slug = "Category", "category"
	}
	slug = fmt.Sprintf("%s-%d", slug, n+1)

	category, err := f.categories.Create(service.CategoryInput{
		Title:       strings.ToUpper(word[:1]) + word[1:],
		Description: f.faker.Sentence(12),
		Slug:        slug,
		IsPublished: true,
	})
	if err != nil {
		return nil, fmt.Errorf("seed category %s: %w", slug, err)
	}
	return category, nil
}

// CreateLocation stores a published location named after a city.
func (f *Factory) CreateLocation() (*db.Location, error) {
	location, err := f.locations.Create(service.LocationInput{Name: f.faker.City(), IsPublished: true})
	if err != nil {
		return nil, fmt.Errorf("seed location: %w", err)
	}
	return location, nil
}

// CreatePost writes a post by author. Most posts are published in the past
// 90 days; some are drafts and a few are scheduled for the coming week.
func (f *Factory) CreatePost(author db.User, category *db.Category, location *db.Location) (*db.Post, error) {
	now := f.now()
	pubDate := f.faker.DateRange(now.AddDate(0, 0, -90), now)
	if f.faker.Number(1, 10) == 1 {
		pubDate = f.faker.DateRange(now.Add(time.Hour), now.AddDate(0, 0, 7))
	}

	input := service.PostInput{
		Title:       strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 7)), "."),
		Text:        f.faker.Paragraph(f.faker.Number(1, 3), 4, 12, "\n\n"),
		PubDate:     pubDate.UTC(),
		IsPublished: f.faker.Number(1, 5) != 1,
	}
	if category != nil {
		input.CategoryID = &category.ID
	}
	if location != nil {
		input.LocationID = &location.ID
	}

	post, err := f.posts.Create(service.Identity{UserID: author.ID, Username: author.Username}, input)
	if err != nil {
		return nil, fmt.Errorf("seed post: %w", err)
	}
	return post, nil
}

// CreateComment adds a short comment by author to postID.
func (f *Factory) CreateComment(author db.User, postID uint) (*db.Comment, error) {
	text := []rune(f.faker.Sentence(f.faker.Number(3, 10)))
	if len(text) > db.CommentMaxLength {
		text = text[:db.CommentMaxLength]
	}
	comment, err := f.comments.Create(service.Identity{UserID: author.ID, Username: author.Username}, postID, service.CommentInput{Text: string(text)})
	if err != nil {
		return nil, fmt.Errorf("seed comment: %w", err)
	}
	return comment, nil
}

// pick returns a random element, or nil for roughly one in four calls so
// that some posts stay uncategorised.
func pick[T any](faker *gofakeit.Faker, items []T) *T {
	if len(items) == 0 || faker.Number(1, 4) == 1 {
		return nil
	}
	return &items[faker.Number(0, len(items)-1)]
}
