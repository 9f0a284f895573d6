package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/blogicum/internal/db"
	"github.com/blogicum/internal/observability"
	"github.com/blogicum/internal/service"
	"github.com/gin-gonic/gin"
)

const pubDateInputLayout = "2006-01-02T15:04"

// postForm 是文章表单在模板中的回显值。
type postForm struct {
	Title       string
	Text        string
	PubDate     string
	IsPublished bool
	CategoryID  string
	LocationID  string
	Image       string
}

func (a *API) postFormFrom(post *db.Post) postForm {
	return postForm{
		Title:       post.Title,
		Text:        post.Text,
		PubDate:     post.PubDate.In(a.location).Format(pubDateInputLayout),
		IsPublished: post.IsPublished,
		CategoryID:  formatOptionalID(post.CategoryID),
		LocationID:  formatOptionalID(post.LocationID),
		Image:       post.Image,
	}
}

func (a *API) renderPostForm(c *gin.Context, form postForm, errs service.ValidationErrors, data gin.H) {
	categories, err := a.categories.List(false)
	if err != nil {
		a.fail(c, err)
		return
	}
	locations, err := a.locations.List(false)
	if err != nil {
		a.fail(c, err)
		return
	}

	payload := gin.H{
		"title":      "Добавление публикации",
		"form":       form,
		"errors":     errs,
		"categories": categories,
		"locations":  locations,
	}
	for key, value := range data {
		payload[key] = value
	}
	a.renderHTML(c, http.StatusOK, "create.html", payload)
}

// readPostForm parses the submitted post form. Field level problems are
// returned as ValidationErrors alongside the echoed form.
func (a *API) readPostForm(c *gin.Context) (service.PostInput, postForm, service.ValidationErrors) {
	form := postForm{
		Title:       c.PostForm("title"),
		Text:        c.PostForm("text"),
		PubDate:     c.PostForm("pub_date"),
		IsPublished: checkboxValue(c.PostForm("is_published")),
		CategoryID:  c.PostForm("category"),
		LocationID:  c.PostForm("location"),
	}
	input := service.PostInput{
		Title:       form.Title,
		Text:        form.Text,
		IsPublished: form.IsPublished,
		ClearImage:  checkboxValue(c.PostForm("image-clear")),
	}
	verrs := service.ValidationErrors{}

	pubDate, err := service.ParsePubDate(form.PubDate, a.location)
	if err != nil {
		verrs.Add("pub_date", "Enter a valid date/time.")
	}
	input.PubDate = pubDate

	if input.CategoryID, err = parseOptionalID(form.CategoryID); err != nil {
		verrs.Add("category", "Select a valid choice. That choice is not one of the available choices.")
	}
	if input.LocationID, err = parseOptionalID(form.LocationID); err != nil {
		verrs.Add("location", "Select a valid choice. That choice is not one of the available choices.")
	}

	if err := a.posts.Validate(input); err != nil {
		fieldErrs, ok := service.AsValidation(err)
		if !ok {
			verrs.Add("__all__", "Не удалось проверить форму.")
			c.Error(err)
		}
		for field, message := range fieldErrs {
			verrs.Add(field, message)
		}
	}
	return input, form, verrs
}

// saveUploadedImage stores the optional "image" upload. It returns an empty
// path when nothing was uploaded.
func (a *API) saveUploadedImage(c *gin.Context, verrs service.ValidationErrors) string {
	header, err := c.FormFile("image")
	if err != nil || header == nil || header.Size == 0 {
		return ""
	}

	file, err := header.Open()
	if err != nil {
		verrs.Add("image", "Не удалось прочитать файл.")
		return ""
	}
	defer file.Close()

	stored, err := a.media.SaveImage(file)
	switch {
	case errors.Is(err, service.ErrImageInvalid):
		verrs.Add("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	case errors.Is(err, service.ErrImageTooLarge):
		verrs.Add("image", "Файл слишком большой.")
	case err != nil:
		c.Error(err)
		verrs.Add("image", "Не удалось сохранить файл.")
	}
	return stored
}

// ShowCreatePost renders an empty post form.
func (a *API) ShowCreatePost(c *gin.Context) {
	form := postForm{
		PubDate:     a.posts.Now().In(a.location).Format(pubDateInputLayout),
		IsPublished: true,
	}
	a.renderPostForm(c, form, nil, nil)
}

// CreatePost stores a new post and sends the author to their profile.
func (a *API) CreatePost(c *gin.Context) {
	identity := currentIdentity(c)
	input, form, verrs := a.readPostForm(c)
	if len(verrs) > 0 {
		a.renderPostForm(c, form, verrs, nil)
		return
	}

	input.Image = a.saveUploadedImage(c, verrs)
	if len(verrs) > 0 {
		a.renderPostForm(c, form, verrs, nil)
		return
	}

	post, err := a.posts.Create(identity, input)
	if err != nil {
		a.discardImage(input.Image)
		if fieldErrs, ok := service.AsValidation(err); ok {
			a.renderPostForm(c, form, fieldErrs, nil)
			return
		}
		a.fail(c, err)
		return
	}

	observability.RecordEvent("post_created")
	a.logger.Info("post created", "post_id", post.ID, "user_id", identity.UserID)
	redirect(c, profilePath(identity.Username))
}

// loadPostFor resolves the :id post and applies action. It writes the
// response itself and returns nil when the request must stop.
func (a *API) loadPostFor(c *gin.Context, action service.Action) *db.Post {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.NotFound(c)
		return nil
	}
	post, err := a.posts.Get(id)
	if err != nil {
		a.fail(c, err)
		return nil
	}

	switch service.Authorize(action, currentIdentity(c), service.Target{Post: post}, a.posts.Now()) {
	case service.Allow:
		return post
	case service.DenyLogin:
		redirectToLogin(c)
	case service.DenyRedirect:
		redirect(c, postPath(post.ID))
	default:
		a.NotFound(c)
	}
	return nil
}

// ShowEditPost renders the post form filled with the current values.
func (a *API) ShowEditPost(c *gin.Context) {
	post := a.loadPostFor(c, service.ActionEditPost)
	if post == nil {
		return
	}
	a.renderPostForm(c, a.postFormFrom(post), nil, gin.H{
		"title": "Редактирование публикации",
		"post":  post,
	})
}

// EditPost applies the submitted form and returns to the post.
func (a *API) EditPost(c *gin.Context) {
	post := a.loadPostFor(c, service.ActionEditPost)
	if post == nil {
		return
	}

	editing := gin.H{"title": "Редактирование публикации", "post": post}
	input, form, verrs := a.readPostForm(c)
	form.Image = post.Image
	if len(verrs) > 0 {
		a.renderPostForm(c, form, verrs, editing)
		return
	}

	input.Image = a.saveUploadedImage(c, verrs)
	if len(verrs) > 0 {
		a.renderPostForm(c, form, verrs, editing)
		return
	}

	updated, err := a.posts.Update(post.ID, input)
	if err != nil {
		a.discardImage(input.Image)
		if fieldErrs, ok := service.AsValidation(err); ok {
			a.renderPostForm(c, form, fieldErrs, editing)
			return
		}
		a.fail(c, err)
		return
	}

	a.logger.Info("post updated", "post_id", updated.ID, "user_id", currentIdentity(c).UserID)
	redirect(c, postPath(updated.ID))
}

// ShowDeletePost renders the delete confirmation.
func (a *API) ShowDeletePost(c *gin.Context) {
	post := a.loadPostFor(c, service.ActionDeletePost)
	if post == nil {
		return
	}
	a.renderPostForm(c, a.postFormFrom(post), nil, gin.H{
		"title":    "Удаление публикации",
		"post":     post,
		"deleting": true,
	})
}

// DeletePost removes the post with its comments and returns to the profile.
func (a *API) DeletePost(c *gin.Context) {
	post := a.loadPostFor(c, service.ActionDeletePost)
	if post == nil {
		return
	}

	if err := a.posts.Delete(post.ID); err != nil {
		a.fail(c, err)
		return
	}
	a.discardImage(post.Image)

	observability.RecordEvent("post_deleted")
	a.logger.Info("post deleted", "post_id", post.ID, "user_id", post.AuthorID)
	redirect(c, profilePath(currentIdentity(c).Username))
}

func (a *API) discardImage(stored string) {
	if strings.TrimSpace(stored) == "" {
		return
	}
	if err := a.media.Remove(stored); err != nil {
		a.logger.Warn("failed to remove image", "image", stored, "error", fmt.Sprint(err))
	}
}
