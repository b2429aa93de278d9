package handlers

import (
	"context"
	"errors"
	"net/http"

	"blogicum/internal/forms"
	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/policy"
	"blogicum/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostHandler struct {
	*Deps
}

func NewPostHandler(d *Deps) *PostHandler {
	return &PostHandler{Deps: d}
}

// Detail shows a visible post with its comments.
func (h *PostHandler) Detail(c *gin.Context) {
	post, err := h.visiblePost(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderDetail(c, post, forms.CommentInput{}, forms.FieldErrors{})
}

func (h *PostHandler) visiblePost(c *gin.Context) (*models.Post, error) {
	id, err := idParam(c, "id")
	if err != nil {
		return nil, err
	}
	post, err := h.Posts.Get(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if !policy.IsVisible(post, h.now()) {
		return nil, policy.NotFound("")
	}
	return post, nil
}

func (h *PostHandler) renderDetail(c *gin.Context, post *models.Post, form forms.CommentInput, errs forms.FieldErrors) {
	comments, err := h.Comments.ListByPost(c.Request.Context(), post.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Render(c, http.StatusOK, "blog/detail.html", gin.H{
		"Title":    post.Title,
		"Post":     post,
		"Comments": comments,
		"Form":     form,
		"Errors":   errs,
	})
}

func (h *PostHandler) choices(ctx context.Context) (forms.Choices, error) {
	categories, err := h.Categories.List(ctx)
	if err != nil {
		return forms.Choices{}, err
	}
	locations, err := h.Locations.List(ctx)
	if err != nil {
		return forms.Choices{}, err
	}
	return forms.Choices{Categories: categories, Locations: locations}, nil
}

func (h *PostHandler) renderForm(c *gin.Context, obj gin.H) {
	choices, err := h.choices(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	obj["Choices"] = choices
	h.Render(c, http.StatusOK, "blog/create.html", obj)
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	h.renderForm(c, gin.H{
		"Title": "New post",
		"Form":  forms.NewPostInput(h.now(), h.Location),
	})
}

func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := policy.RequireAuthenticated(policy.IdentityOf(user)); err != nil {
		h.fail(c, err)
		return
	}

	data, in, errs, err := h.bindPost(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	rerender := func() {
		h.renderForm(c, gin.H{"Title": "New post", "Form": in, "Errors": errs})
	}
	if errs.Any() {
		rerender()
		return
	}

	image, err := h.uploadImage(c, errs)
	if err != nil {
		h.fail(c, err)
		return
	}
	if errs.Any() {
		rerender()
		return
	}

	post := &models.Post{AuthorID: user.ID, IsPublished: true, Image: image}
	data.Apply(post)
	if err := h.Posts.Create(c.Request.Context(), post); err != nil {
		h.Images.Remove(c.Request.Context(), image)
		h.fail(c, err)
		return
	}
	h.Log.Info("post created", zap.Uint("post_id", post.ID), zap.Uint("author_id", user.ID))
	c.Redirect(http.StatusFound, profileURL(user.Username))
}

// ownedPost loads the post named in the path and checks that the current
// user may perform action on it.
func (h *PostHandler) ownedPost(c *gin.Context, action policy.Action) (*models.Post, error) {
	id, err := idParam(c, "id")
	if err != nil {
		return nil, err
	}
	identity := middleware.CurrentIdentity(c)
	if err := policy.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	post, err := h.Posts.Get(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizePost(identity, post, action); err != nil {
		return nil, err
	}
	return post, nil
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	post, err := h.ownedPost(c, policy.Edit)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderForm(c, gin.H{
		"Title": "Edit post",
		"Post":  post,
		"Form":  forms.PostInputOf(post, h.Location),
	})
}

func (h *PostHandler) Update(c *gin.Context) {
	post, err := h.ownedPost(c, policy.Edit)
	if err != nil {
		h.fail(c, err)
		return
	}

	data, in, errs, err := h.bindPost(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	rerender := func() {
		h.renderForm(c, gin.H{"Title": "Edit post", "Post": post, "Form": in, "Errors": errs})
	}
	if errs.Any() {
		rerender()
		return
	}

	image, err := h.uploadImage(c, errs)
	if err != nil {
		h.fail(c, err)
		return
	}
	if errs.Any() {
		rerender()
		return
	}

	previous := post.Image
	switch {
	case image != "":
		post.Image = image
	case data.ClearImage:
		post.Image = ""
	}
	data.Apply(post)
	if err := h.Posts.Update(c.Request.Context(), post); err != nil {
		h.Images.Remove(c.Request.Context(), image)
		h.fail(c, err)
		return
	}
	if previous != post.Image {
		h.Images.Remove(c.Request.Context(), previous)
	}
	c.Redirect(http.StatusFound, postURL(post.ID))
}

// ShowDelete asks for confirmation.
func (h *PostHandler) ShowDelete(c *gin.Context) {
	post, err := h.ownedPost(c, policy.Delete)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderForm(c, gin.H{
		"Title":    "Delete post",
		"Post":     post,
		"Form":     forms.PostInputOf(post, h.Location),
		"Deleting": true,
	})
}

func (h *PostHandler) Delete(c *gin.Context) {
	post, err := h.ownedPost(c, policy.Delete)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Posts.Delete(c.Request.Context(), post.ID); err != nil {
		h.fail(c, err)
		return
	}
	h.Images.Remove(c.Request.Context(), post.Image)
	h.Log.Info("post deleted", zap.Uint("post_id", post.ID))
	c.Redirect(http.StatusFound, profileURL(post.Author.Username))
}

// bindPost reads and validates the submitted post form.
func (h *PostHandler) bindPost(c *gin.Context) (forms.PostData, forms.PostInput, forms.FieldErrors, error) {
	var in forms.PostInput
	if err := c.ShouldBind(&in); err != nil {
		errs := forms.FieldErrors{}
		errs.Add(forms.NonField, "The submitted form could not be read.")
		return forms.PostData{}, in, errs, nil
	}
	choices, err := h.choices(c.Request.Context())
	if err != nil {
		return forms.PostData{}, in, nil, err
	}
	data, errs := in.Validate(h.Location, choices)
	return data, in, errs, nil
}

// uploadImage stores the optional image field. Invalid files are reported in
// errs; the returned key is empty when nothing was uploaded.
func (h *PostHandler) uploadImage(c *gin.Context, errs forms.FieldErrors) (string, error) {
	header, err := c.FormFile("image")
	if err != nil || header.Size == 0 {
		return "", nil
	}
	key, err := h.Images.Upload(c.Request.Context(), header)
	switch {
	case errors.Is(err, services.ErrNotImage):
		errs.Add("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		return "", nil
	case errors.Is(err, services.ErrImageTooBig):
		errs.Add("image", "The uploaded image is too large.")
		return "", nil
	case err != nil:
		return "", err
	}
	return key, nil
}
