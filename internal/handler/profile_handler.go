package handler

import (
	"net/http"

	"github.com/blogicum/internal/db"
	"github.com/blogicum/internal/service"
	"github.com/gin-gonic/gin"
)

type profileForm struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
}

func profileFormFrom(user *db.User) profileForm {
	return profileForm{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Email:     user.Email,
	}
}

// loadProfileFor 解析 :username 并检查编辑权限。
// 匿名用户回到首页，其他用户回到自己的主页。
func (a *API) loadProfileFor(c *gin.Context) *db.User {
	profile, err := a.users.GetByUsername(c.Param("username"))
	if err != nil {
		a.fail(c, err)
		return nil
	}

	identity := currentIdentity(c)
	switch service.Authorize(service.ActionEditProfile, identity, service.Target{Profile: profile}, a.posts.Now()) {
	case service.Allow:
		return profile
	case service.DenyRedirect:
		if identity.Authenticated() {
			redirect(c, profilePath(identity.Username))
		} else {
			redirect(c, "/")
		}
	default:
		a.NotFound(c)
	}
	return nil
}

func (a *API) renderProfileForm(c *gin.Context, profile *db.User, form profileForm, errs service.ValidationErrors) {
	a.renderHTML(c, http.StatusOK, "user.html", gin.H{
		"title":   "Редактирование профиля",
		"profile": profile,
		"form":    form,
		"errors":  errs,
	})
}

// ShowEditProfile renders the profile form of the logged-in user.
func (a *API) ShowEditProfile(c *gin.Context) {
	profile := a.loadProfileFor(c)
	if profile == nil {
		return
	}
	a.renderProfileForm(c, profile, profileFormFrom(profile), nil)
}

// EditProfile saves the profile and follows a possible rename.
func (a *API) EditProfile(c *gin.Context) {
	profile := a.loadProfileFor(c)
	if profile == nil {
		return
	}

	form := profileForm{
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
		Username:  c.PostForm("username"),
		Email:     c.PostForm("email"),
	}
	updated, err := a.users.UpdateProfile(profile.ID, service.ProfileInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Username:  form.Username,
		Email:     form.Email,
	})
	if err != nil {
		if verrs, ok := service.AsValidation(err); ok {
			a.renderProfileForm(c, profile, form, verrs)
			return
		}
		a.fail(c, err)
		return
	}

	if err := a.startSession(c, service.Identity{UserID: updated.ID, Username: updated.Username}); err != nil {
		c.Error(err)
	}
	redirect(c, profilePath(updated.Username))
}
