package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

	validate = newValidator()
)

// PubDateLayouts are the accepted textual forms of a publication date.
var PubDateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title       string `form:"title" validate:"required,max=256"`
	Text        string `form:"text" validate:"required"`
	PubDate     time.Time
	IsPublished bool
	CategoryID  *uint
	LocationID  *uint
	// Image is the stored media path of a newly uploaded image. Empty keeps
	// the current image unless ClearImage is set.
	Image      string
	ClearImage bool
}

// CommentInput is the comment form.
type CommentInput struct {
	Text string `form:"text" validate:"required,max=100"`
}

// ProfileInput is the profile edit form.
type ProfileInput struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Username  string `form:"username" validate:"required,max=150,username"`
	Email     string `form:"email" validate:"omitempty,max=254,email"`
}

// RegistrationInput is the sign-up form.
type RegistrationInput struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	Password1 string `form:"password1" validate:"required,min=8,max=128"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

// CategoryInput is used by the operator CLI.
type CategoryInput struct {
	Title       string `form:"title" validate:"required,max=256"`
	Description string `form:"description"`
	Slug        string `form:"slug" validate:"required,max=64,slug"`
	IsPublished bool
}

// LocationInput is used by the operator CLI.
type LocationInput struct {
	Name        string `form:"name" validate:"required,max=256"`
	IsPublished bool
}

// PageInput is used by the operator CLI to replace a static page.
type PageInput struct {
	Title   string `form:"title" validate:"required,max=256"`
	Content string `form:"content" validate:"required"`
}

// ParsePubDate parses a submitted publication date in loc. An empty value
// yields the zero time so callers can default it.
func ParsePubDate(raw string, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range PubDateLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return parsed.UTC(), nil
		}
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return parsed.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", trimmed)
}

func (in *PostInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Text = strings.TrimSpace(in.Text)
}

func (in *CommentInput) normalize() {
	in.Text = strings.TrimSpace(in.Text)
}

func (in *ProfileInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
}

func (in *RegistrationInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
}

func (in *CategoryInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Slug = strings.TrimSpace(in.Slug)
}

func (in *LocationInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
}

func (in *PageInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
}

// ValidateComment normalizes and checks a comment submission.
func ValidateComment(in *CommentInput) error {
	in.normalize()
	return validateStruct(in).orNil()
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

func validateStruct(input any) ValidationErrors {
	verrs := ValidationErrors{}
	err := validate.Struct(input)
	if err == nil {
		return verrs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verrs.Add("__all__", err.Error())
		return verrs
	}
	for _, fe := range fieldErrs {
		verrs.Add(fe.Field(), validationMessage(fe))
	}
	return verrs
}

const slugMessage = "Enter a valid slug consisting of letters, numbers, underscores or hyphens."

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), len([]rune(fmt.Sprint(fe.Value()))))
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "eqfield":
		return "The two password fields didn't match."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "slug":
		return slugMessage
	default:
		return "Enter a valid value."
	}
}
