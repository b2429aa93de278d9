package handlers

import (
	"net/http"

	"blogicum/internal/forms"
	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/policy"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	*Deps
	posts *PostHandler
}

func NewCommentHandler(d *Deps, posts *PostHandler) *CommentHandler {
	return &CommentHandler{Deps: d, posts: posts}
}

// Create adds a comment to a post the user can see.
func (h *CommentHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := policy.RequireAuthenticated(policy.IdentityOf(user)); err != nil {
		h.fail(c, err)
		return
	}
	post, err := h.posts.visiblePost(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var in forms.CommentInput
	_ = c.ShouldBind(&in)
	text, errs := in.Validate()
	if errs.Any() {
		h.posts.renderDetail(c, post, in, errs)
		return
	}

	comment := &models.Comment{PostID: post.ID, AuthorID: user.ID, Text: text}
	if err := h.Comments.Create(c.Request.Context(), comment); err != nil {
		h.fail(c, err)
		return
	}
	h.Log.Info("comment created", zap.Uint("comment_id", comment.ID), zap.Uint("post_id", post.ID))
	c.Redirect(http.StatusFound, postURL(post.ID))
}

// MethodNotAllowed answers anything but POST on the comment endpoint.
func (h *CommentHandler) MethodNotAllowed(c *gin.Context) {
	if err := policy.RequireAuthenticated(middleware.CurrentIdentity(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Allow", http.MethodPost)
	h.RenderError(c, http.StatusMethodNotAllowed, "")
}

func (h *CommentHandler) ownedComment(c *gin.Context, action policy.Action) (*models.Comment, error) {
	postID, err := idParam(c, "id")
	if err != nil {
		return nil, err
	}
	commentID, err := idParam(c, "comment_id")
	if err != nil {
		return nil, err
	}
	identity := middleware.CurrentIdentity(c)
	if err := policy.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	comment, err := h.Comments.Get(c.Request.Context(), postID, commentID)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeComment(identity, comment, action); err != nil {
		return nil, err
	}
	return comment, nil
}

func (h *CommentHandler) ShowEdit(c *gin.Context) {
	comment, err := h.ownedComment(c, policy.Edit)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Render(c, http.StatusOK, "blog/comment.html", gin.H{
		"Title":   "Edit comment",
		"Comment": comment,
		"Form":    forms.CommentInput{Text: comment.Text},
	})
}

func (h *CommentHandler) Update(c *gin.Context) {
	comment, err := h.ownedComment(c, policy.Edit)
	if err != nil {
		h.fail(c, err)
		return
	}

	var in forms.CommentInput
	_ = c.ShouldBind(&in)
	text, errs := in.Validate()
	if errs.Any() {
		h.Render(c, http.StatusOK, "blog/comment.html", gin.H{
			"Title":   "Edit comment",
			"Comment": comment,
			"Form":    in,
			"Errors":  errs,
		})
		return
	}

	comment.Text = text
	if err := h.Comments.Update(c.Request.Context(), comment); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, postURL(comment.PostID))
}

func (h *CommentHandler) ShowDelete(c *gin.Context) {
	comment, err := h.ownedComment(c, policy.Delete)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Render(c, http.StatusOK, "blog/comment.html", gin.H{
		"Title":    "Delete comment",
		"Comment":  comment,
		"Deleting": true,
	})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	comment, err := h.ownedComment(c, policy.Delete)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Comments.Delete(c.Request.Context(), comment.ID); err != nil {
		h.fail(c, err)
		return
	}
	h.Log.Info("comment deleted", zap.Uint("comment_id", comment.ID))
	c.Redirect(http.StatusFound, postURL(comment.PostID))
}
