package post

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"Yatube/internal/core/uploads"
)

// multipartOverhead is room for the text fields next to the image
const multipartOverhead = 1 << 20

// PostForm is the create/edit form as shown to the user
type PostForm struct {
	Errors  fieldErrors
	GroupID *int64
	Text    string
}

// CommentForm is the comment box under a post
type CommentForm struct {
	Errors fieldErrors
	Text   string
}

// postInput is a parsed create/edit submission
type postInput struct {
	file       multipart.File
	image      *uploads.Image
	form       PostForm
	clearImage bool
}

// Close releases the uploaded file, if any
func (in *postInput) Close() {
	if in.file != nil {
		_ = in.file.Close()
	}
}

// parsePostForm reads text, group, image and image-clear from a multipart
// or urlencoded body. Malformed fields become form errors.
func parsePostForm(w http.ResponseWriter, r *http.Request, maxUpload int64) *postInput {
	in := &postInput{form: PostForm{Errors: fieldErrors{}}}

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload+multipartOverhead)
	err := r.ParseMultipartForm(maxUpload + multipartOverhead)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			in.form.Errors.add("image", "image is too large")
		} else {
			in.form.Errors.add("form", "could not read the submitted form")
		}
		return in
	}

	in.form.Text = r.FormValue("text")
	in.clearImage = r.FormValue("image-clear") == "on"

	if raw := strings.TrimSpace(r.FormValue("group")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			in.form.Errors.add("group", "select a valid group")
		} else {
			in.form.GroupID = &id
		}
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		in.file = file
		in.image = &uploads.Image{
			Body:        file,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
		}
	}

	return in
}
