package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPassword prompts twice on the terminal without echo.
func readPassword(prompt io.Writer, fd int) (string, error) {
	fmt.Fprint(prompt, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	fmt.Fprint(prompt, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

// upsertUser creates the user with email, or resets their password when
// they already exist.
func upsertUser(ctx context.Context, store *Store, email, password string) (*User, error) {
	existing, err := store.getUserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return store.createUser(ctx, userParams{Email: &email, Password: &password})
	}
	if err != nil {
		return nil, err
	}
	return store.updateUser(ctx, existing.ID, userParams{Password: &password})
}

func createUserCommand(ctx context.Context, store *Store, email string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("-create-user needs an interactive terminal")
	}

	password, err := readPassword(os.Stderr, int(os.Stdin.Fd()))
	if err != nil {
		return err
	}

	user, err := upsertUser(ctx, store, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "user %d (%s) saved\n", user.ID, user.Email)
	return nil
}
