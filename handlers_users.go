package main

import (
	"net/http"

	"github.com/go-chi/render"
)

func (b *Blog) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	user, err := b.store.getUser(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	respond(w, r, NewUserResponse(user))
}

// UpdateUser changes the credentials of the logged-in user. Nobody may
// edit another account.
func (b *Blog) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if !isAuthorized(r, id) {
		renderError(w, r, ErrForbidden)
		return
	}

	data := &UserRequest{}
	if err := render.Bind(r, data); err != nil {
		respond(w, r, ErrInvalidRequest(err))
		return
	}

	user, err := b.store.updateUser(r.Context(), id, *data.User)
	if err != nil {
		renderError(w, r, err)
		return
	}
	respond(w, r, NewUserResponse(user))
}

// DeleteUser deletes the logged-in user's own account and ends the session.
func (b *Blog) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if !isAuthorized(r, id) {
		renderError(w, r, ErrForbidden)
		return
	}

	if err := b.store.deleteUser(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}
	// The session row went with the user; this only clears the cookies.
	if err := b.logout(w, r); err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *Blog) Login(w http.ResponseWriter, r *http.Request) {
	data := &LoginRequest{}
	if err := render.Bind(r, data); err != nil {
		respond(w, r, ErrInvalidRequest(err))
		return
	}

	user, err := b.store.authenticateUser(r.Context(), *data.User.Email, *data.User.Password)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := b.login(w, r, user); err != nil {
		renderError(w, r, err)
		return
	}
	respond(w, r, NewSessionResponse(user))
}

func (b *Blog) Logout(w http.ResponseWriter, r *http.Request) {
	if err := b.logout(w, r); err != nil {
		renderError(w, r, err)
		return
	}
	respond(w, r, &LogoutResponse{LoggedOut: true})
}

func (b *Blog) LoggedIn(w http.ResponseWriter, r *http.Request) {
	respond(w, r, NewSessionResponse(currentUser(r)))
}
