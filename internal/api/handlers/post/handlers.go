package post

import (
	"context"
	"net/http"

	"Yatube/internal/api/handlers"
	"Yatube/internal/api/middleware"
	"Yatube/internal/core/groups"
	"Yatube/internal/core/posts"
	"Yatube/internal/core/uploads"
	"Yatube/internal/web"
)

// FormData holds data for the create/edit page
type FormData struct {
	Form            PostForm
	Groups          []*groups.Group
	CurrentImageURL string
	PostID          int64
	IsEdit          bool
}

// DetailData holds data for the post page
type DetailData struct {
	Post     *posts.PostView
	Comments []*posts.CommentView
	Form     CommentForm
	CanEdit  bool
}

// GroupLister provides the group choices of the post form
type GroupLister interface {
	ListGroups(ctx context.Context) ([]*groups.Group, error)
}

// Handler serves post pages and the post/comment forms
type Handler struct {
	service   posts.Service
	groups    GroupLister
	pages     *web.Handlers
	maxUpload int64
}

// NewHandler creates a new post handler
func NewHandler(service posts.Service, groupLister GroupLister, pages *web.Handlers, maxUpload int64) *Handler {
	return &Handler{
		service:   service,
		groups:    groupLister,
		pages:     pages,
		maxUpload: maxUpload,
	}
}

// HandleDetail handles GET /posts/{id}/
func (h *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	postID, ok := handlers.PostID(r)
	if !ok {
		h.pages.NotFound(w, r)
		return
	}
	h.renderDetail(w, r, postID, CommentForm{Errors: fieldErrors{}})
}

func (h *Handler) renderDetail(w http.ResponseWriter, r *http.Request, postID int64, form CommentForm) {
	detail, err := h.service.GetPost(r.Context(), postID)
	if err != nil {
		handlers.RenderError(h.pages, w, r, err)
		return
	}

	viewerID := middleware.GetUserID(r)
	h.pages.RenderPage(w, r, http.StatusOK, "post_detail.html", DetailData{
		Post:     detail.Post,
		Comments: detail.Comments,
		Form:     form,
		CanEdit:  viewerID > 0 && detail.Post.Author != nil && detail.Post.Author.ID == viewerID,
	})
}

// HandleCreate handles GET and POST /create/ (login required)
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	if r.Method != http.MethodPost {
		h.renderForm(w, r, FormData{Form: PostForm{Errors: fieldErrors{}}})
		return
	}

	in := parsePostForm(w, r, h.maxUpload)
	defer in.Close()
	if len(in.form.Errors) > 0 {
		h.renderForm(w, r, FormData{Form: in.form})
		return
	}

	_, err := h.service.CreatePost(r.Context(), posts.CreatePostRequest{
		AuthorID: user.ID,
		Text:     in.form.Text,
		GroupID:  in.form.GroupID,
		Image:    in.image,
	})
	if err != nil {
		if handleServiceError(h.pages, w, r, 0, err, in.form.Errors) {
			return
		}
		h.renderForm(w, r, FormData{Form: in.form})
		return
	}

	http.Redirect(w, r, handlers.ProfileURL(user.Username), http.StatusFound)
}

// HandleEdit handles GET and POST /posts/{id}/edit/ (login required, author only)
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	postID, ok := handlers.PostID(r)
	if !ok {
		h.pages.NotFound(w, r)
		return
	}
	userID := middleware.GetUserID(r)

	post, err := h.service.GetPostForEdit(r.Context(), userID, postID)
	if err != nil {
		handleServiceError(h.pages, w, r, postID, err, fieldErrors{})
		return
	}

	data := FormData{PostID: postID, IsEdit: true}
	if post.Image != nil {
		data.CurrentImageURL = uploads.URL(*post.Image)
	}

	if r.Method != http.MethodPost {
		data.Form = PostForm{Text: post.Text, GroupID: post.GroupID, Errors: fieldErrors{}}
		h.renderForm(w, r, data)
		return
	}

	in := parsePostForm(w, r, h.maxUpload)
	defer in.Close()
	data.Form = in.form
	if len(in.form.Errors) > 0 {
		h.renderForm(w, r, data)
		return
	}

	_, err = h.service.EditPost(r.Context(), posts.EditPostRequest{
		RequesterID: userID,
		PostID:      postID,
		Text:        in.form.Text,
		GroupID:     in.form.GroupID,
		Image:       in.image,
		ClearImage:  in.clearImage,
	})
	if err != nil {
		if handleServiceError(h.pages, w, r, postID, err, data.Form.Errors) {
			return
		}
		h.renderForm(w, r, data)
		return
	}

	http.Redirect(w, r, handlers.PostURL(postID), http.StatusFound)
}

// HandleComment handles POST /posts/{id}/comment/ (login required)
func (h *Handler) HandleComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := handlers.PostID(r)
	if !ok {
		h.pages.NotFound(w, r)
		return
	}

	form := CommentForm{Errors: fieldErrors{}}
	if err := r.ParseForm(); err != nil {
		form.Errors.add("text", "could not read the submitted form")
		h.renderDetail(w, r, postID, form)
		return
	}
	form.Text = r.FormValue("text")

	_, err := h.service.AddComment(r.Context(), posts.AddCommentRequest{
		PostID:   postID,
		AuthorID: middleware.GetUserID(r),
		Text:     form.Text,
	})
	if err != nil {
		if handleServiceError(h.pages, w, r, postID, err, form.Errors) {
			return
		}
		h.renderDetail(w, r, postID, form)
		return
	}

	http.Redirect(w, r, handlers.PostURL(postID), http.StatusFound)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, data FormData) {
	groupList, err := h.groups.ListGroups(r.Context())
	if err != nil {
		h.pages.ServerError(w, r, err)
		return
	}
	data.Groups = groupList
	h.pages.RenderPage(w, r, http.StatusOK, "post_form.html", data)
}
