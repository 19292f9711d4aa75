package folio

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/bikatr7/folio/blogapi"
	"github.com/bikatr7/folio/markdown"
	"github.com/bikatr7/folio/seo"
	"github.com/bikatr7/folio/slug"
	"github.com/bikatr7/folio/storage"
	"github.com/bikatr7/folio/views"
)

func (a *App) handleLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		a.Metrics.RecordLogin("limited")
		return a.renderLoginError(c, http.StatusTooManyRequests, "", "Too many login attempts. Try again later.")
	}

	var in blogapi.LoginRequest
	if err := c.Bind(&in); err != nil {
		return a.renderLoginError(c, http.StatusBadRequest, "", "Please fill in every field.")
	}
	in.Username = strings.TrimSpace(in.Username)
	in.TOTP = strings.TrimSpace(in.TOTP)
	if err := validate.Struct(in); err != nil {
		return a.renderLoginError(c, http.StatusBadRequest, in.Username, validationMessage(err))
	}

	tokens, err := a.API.Login(c.Request().Context(), in)
	if err != nil {
		switch blogapi.Category(err) {
		case blogapi.Unauthorized, blogapi.Invalid:
			a.loginLimiter.Record(ip)
			a.Metrics.RecordLogin("rejected")
			msg := blogapi.Detail(err)
			if msg == "" {
				msg = "Invalid credentials."
			}
			return a.renderLoginError(c, http.StatusUnauthorized, in.Username, msg)
		default:
			a.Metrics.RecordLogin("error")
			a.Logger.Warn("login failed", "err", err)
			return a.renderLoginError(c, http.StatusBadGateway, in.Username, "Login is unavailable right now. Please try again.")
		}
	}

	if err := storage.FromContext(c).Set(storage.KeyToken, tokens.AccessToken); err != nil {
		return err
	}
	a.Metrics.RecordLogin("ok")
	return c.Redirect(http.StatusSeeOther, "/blog")
}

// renderLoginError shows the blog page with the message under the login
// form. The visitor stays where they are.
func (a *App) renderLoginError(c echo.Context, code int, username, msg string) error {
	page, err := a.blogPage(c, false)
	if err != nil {
		return err
	}
	page.LoginError = msg
	page.Username = username
	return RenderStatus(c, code, a.Views.Blog(page))
}

func (a *App) handleLogout(c echo.Context) error {
	if err := storage.FromContext(c).Remove(storage.KeyToken); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/blog")
}

// validationMessage turns validator errors into one readable sentence.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Please check the form."
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, " ")
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	if name == "TOTP" {
		name = "2FA code"
	}
	switch fe.Tag() {
	case "required":
		return name + " is required."
	case "len":
		return name + " must be " + fe.Param() + " digits."
	case "numeric":
		return name + " must contain digits only."
	case "max":
		return name + " is too long."
	default:
		return name + " is invalid."
	}
}

const newPostAction = "/admin/posts/new"

// editAction is the editor target for post. Posts are addressed by ID so
// the target does not move when the title changes.
func editAction(post blogapi.Post) string {
	return "/admin/posts/" + post.ID.String() + "/edit"
}

func (a *App) editorLayout(c echo.Context, title string) views.Layout {
	return a.layout(c, seo.Page{Title: title, Description: title})
}

func (a *App) handleNewPostForm(c echo.Context) error {
	return Render(c, a.Views.Editor(views.EditorPage{
		Layout: a.editorLayout(c, "New post"),
		Action: newPostAction,
		Input:  blogapi.PostInput{Author: a.Config.Owner.Name},
		Cancel: "/blog",
	}))
}

// bindPost reads and validates the editor form. A non-nil list holds the
// messages to show next to the form.
func bindPost(c echo.Context) (blogapi.PostInput, []string, error) {
	var in blogapi.PostInput
	if err := c.Bind(&in); err != nil {
		return in, nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return in, nil, err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return in, msgs, nil
	}
	if slug.Slugify(in.Title) == "" {
		return in, []string{"Title needs at least one letter or digit."}, nil
	}
	return in, nil, nil
}

func (a *App) handleCreatePost(c echo.Context) error {
	in, problems, err := bindPost(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form").SetInternal(err)
	}
	page := views.EditorPage{
		Layout: a.editorLayout(c, "New post"),
		Action: newPostAction,
		Input:  in,
		Cancel: "/blog",
	}
	if problems != nil {
		page.Errors = problems
		return RenderStatus(c, http.StatusBadRequest, a.Views.Editor(page))
	}

	post, err := a.API.CreatePost(c.Request().Context(), a.Token(c), in)
	if err != nil {
		return a.adminFailure(c, err, func(msg string) error {
			page.Errors = []string{msg}
			return RenderStatus(c, http.StatusBadGateway, a.Views.Editor(page))
		})
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, post.Path())
}

func (a *App) handleEditPostForm(c echo.Context) error {
	post, err := a.API.Lookup(c.Request().Context(), slug.Resolve(c.Param("param")))
	if err != nil {
		return a.renderPostError(c, err, "/blog", "Back to Blog")
	}
	return Render(c, a.Views.Editor(views.EditorPage{
		Layout:  a.editorLayout(c, "Edit "+post.Title),
		Action:  editAction(post),
		Input:   blogapi.PostInput{Title: post.Title, Content: post.Content, Author: post.Author},
		Editing: true,
		Cancel:  post.Path(),
	}))
}

func (a *App) handleUpdatePost(c echo.Context) error {
	ctx := c.Request().Context()
	current, err := a.API.Lookup(ctx, slug.Resolve(c.Param("param")))
	if err != nil {
		return a.renderPostError(c, err, "/blog", "Back to Blog")
	}

	in, problems, err := bindPost(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form").SetInternal(err)
	}
	page := views.EditorPage{
		Layout:  a.editorLayout(c, "Edit "+current.Title),
		Action:  editAction(current),
		Input:   in,
		Editing: true,
		Cancel:  current.Path(),
	}
	if problems != nil {
		page.Errors = problems
		return RenderStatus(c, http.StatusBadRequest, a.Views.Editor(page))
	}

	post, err := a.API.UpdatePost(ctx, a.Token(c), current.ID, in)
	if err != nil {
		return a.adminFailure(c, err, func(msg string) error {
			page.Errors = []string{msg}
			return RenderStatus(c, http.StatusBadGateway, a.Views.Editor(page))
		})
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, post.Path())
}

func (a *App) handleDeletePost(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := a.API.Lookup(ctx, slug.Resolve(c.Param("param")))
	if err != nil {
		return a.renderPostError(c, err, "/blog", "Back to Blog")
	}
	if err := a.API.DeletePost(ctx, a.Token(c), post.ID); err != nil {
		return a.adminFailure(c, err, func(msg string) error {
			return c.Redirect(http.StatusSeeOther, post.Path())
		})
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/blog?msg=deleted")
}

func (a *App) handlePreview(c echo.Context) error {
	body, err := markdown.ToHTML(c.FormValue("content"))
	if err != nil {
		return err
	}
	return Render(c, a.Views.Preview(body))
}

func (a *App) handleBackup(c echo.Context) error {
	if err := a.API.ForceBackup(c.Request().Context(), a.Token(c)); err != nil {
		return a.adminFailure(c, err, nil)
	}
	return c.Redirect(http.StatusSeeOther, "/blog?msg=backup")
}

func (a *App) handleReplaceDatabase(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return a.renderAdminMessage(c, http.StatusBadRequest, "Choose a backup file to upload.")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := a.API.ReplaceDatabase(c.Request().Context(), a.Token(c), fh.Filename, f); err != nil {
		return a.adminFailure(c, err, nil)
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/blog?msg=replaced")
}

// adminFailure handles a failed authenticated call. A rejected token is
// dropped and the visitor sent back to log in; other failures go to show,
// or to the blog page when show is nil.
func (a *App) adminFailure(c echo.Context, err error, show func(msg string) error) error {
	if blogapi.Category(err) == blogapi.Unauthorized {
		_ = storage.FromContext(c).Remove(storage.KeyToken)
		return c.Redirect(http.StatusSeeOther, "/blog")
	}
	a.Logger.Warn("admin action failed", "path", c.Path(), "err", err)
	msg := blogapi.Detail(err)
	if msg == "" {
		msg = "The blog backend could not complete the request."
	}
	if show != nil {
		return show(msg)
	}
	return a.renderAdminMessage(c, http.StatusBadGateway, msg)
}

func (a *App) renderAdminMessage(c echo.Context, code int, msg string) error {
	page, err := a.blogPage(c, false)
	if err != nil {
		return err
	}
	page.Message = msg
	return RenderStatus(c, code, a.Views.Blog(page))
}
