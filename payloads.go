package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

// Request bodies may wrap the fields under the resource name
// ({"post": {...}}) or send them at the top level.

type PostRequest struct {
	Post *postParams `json:"post"`
	postParams
}

func (p *PostRequest) Bind(r *http.Request) error {
	if p.Post == nil {
		p.Post = &p.postParams
	}
	return nil
}

type TagRequest struct {
	Tag *tagParams `json:"tag"`
	tagParams
}

func (t *TagRequest) Bind(r *http.Request) error {
	if t.Tag == nil {
		t.Tag = &t.tagParams
	}
	return nil
}

type UserRequest struct {
	User *userParams `json:"user"`
	userParams
}

func (u *UserRequest) Bind(r *http.Request) error {
	if u.User == nil {
		u.User = &u.userParams
	}
	return nil
}

// LoginRequest reuses the user payload; only email and password matter.
type LoginRequest struct {
	UserRequest
}

func (l *LoginRequest) Bind(r *http.Request) error {
	if err := l.UserRequest.Bind(r); err != nil {
		return err
	}
	if l.User.Email == nil || l.User.Password == nil {
		return errors.New("email and password required")
	}
	return nil
}

// UserResponse exposes only the public user fields.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func NewUserResponse(u *User) *UserResponse {
	return &UserResponse{ID: u.ID, Email: u.Email}
}

func (u *UserResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type PostResponse struct {
	*Post
}

func NewPostResponse(p *Post) *PostResponse {
	return &PostResponse{Post: p}
}

func (p *PostResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewPostListResponse(posts []Post) []render.Renderer {
	list := []render.Renderer{}
	for i := range posts {
		list = append(list, NewPostResponse(&posts[i]))
	}
	return list
}

type PostSummaryResponse struct {
	PostSummary
}

func (p *PostSummaryResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewPostSummaryListResponse(posts []PostSummary) []render.Renderer {
	list := []render.Renderer{}
	for _, p := range posts {
		list = append(list, &PostSummaryResponse{PostSummary: p})
	}
	return list
}

type TagResponse struct {
	*Tag
}

func (t *TagResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewTagListResponse(tags []Tag) []render.Renderer {
	list := []render.Renderer{}
	for i := range tags {
		list = append(list, &TagResponse{Tag: &tags[i]})
	}
	return list
}

// SessionResponse answers /login and /logged_in.
type SessionResponse struct {
	LoggedIn bool          `json:"logged_in"`
	User     *UserResponse `json:"user,omitempty"`
}

func NewSessionResponse(u *User) *SessionResponse {
	if u == nil {
		return &SessionResponse{}
	}
	return &SessionResponse{LoggedIn: true, User: NewUserResponse(u)}
}

func (s *SessionResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type LogoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}

func (l *LogoutResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
