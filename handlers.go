package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// pathID parses the {id} URL parameter. Anything that is not a positive
// integer cannot name a record, so it reads as not found.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrNotFound
	}
	return id, nil
}

func respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		loggerFrom(r.Context()).Error("rendering response", zap.Error(err))
	}
}

func respondList(w http.ResponseWriter, r *http.Request, l []render.Renderer) {
	if err := render.RenderList(w, r, l); err != nil {
		loggerFrom(r.Context()).Error("rendering response", zap.Error(err))
	}
}

func (b *Blog) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := b.store.getPosts(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	respondList(w, r, NewPostSummaryListResponse(posts))
}

func (b *Blog) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	post, err := b.store.getPostByID(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	respond(w, r, NewPostResponse(post))
}

func (b *Blog) CreatePost(w http.ResponseWriter, r *http.Request) {
	data := &PostRequest{}
	if err := render.Bind(r, data); err != nil {
		respond(w, r, ErrInvalidRequest(err))
		return
	}

	post, err := b.store.createPost(r.Context(), *data.Post)
	if err != nil {
		renderError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/posts/%d", post.ID))
	render.Status(r, http.StatusCreated)
	respond(w, r, NewPostResponse(post))
}

func (b *Blog) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	data := &PostRequest{}
	if err := render.Bind(r, data); err != nil {
		respond(w, r, ErrInvalidRequest(err))
		return
	}

	post, err := b.store.updatePost(r.Context(), id, *data.Post)
	if err != nil {
		renderError(w, r, err)
		return
	}
	respond(w, r, NewPostResponse(post))
}

func (b *Blog) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := b.store.deletePost(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *Blog) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := b.store.getTags(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	respondList(w, r, NewTagListResponse(tags))
}

// TagPosts lists the posts filed under a tag.
func (b *Blog) TagPosts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if _, err := b.store.getTag(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	posts, err := b.store.getPostsByTag(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	respondList(w, r, NewPostListResponse(posts))
}

func (b *Blog) CreateTag(w http.ResponseWriter, r *http.Request) {
	data := &TagRequest{}
	if err := render.Bind(r, data); err != nil {
		respond(w, r, ErrInvalidRequest(err))
		return
	}

	tag, err := b.store.createTag(r.Context(), *data.Tag)
	if err != nil {
		renderError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tags/%d", tag.ID))
	render.Status(r, http.StatusCreated)
	respond(w, r, &TagResponse{Tag: tag})
}
