package main

import (
	"context"
	"errors"

	"github.com/desertthunder/vidvault/internal/shared"
	"github.com/desertthunder/vidvault/internal/tasks"
	"github.com/urfave/cli/v3"
)

// AuthRegister creates a new account from the provided flags.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	confirm := cmd.String("confirm")
	if confirm == "" {
		confirm = cmd.String("password")
	}

	user, err := r.engine.Register(tasks.RegisterParams{
		Username:        cmd.String("username"),
		Password:        cmd.String("password"),
		ConfirmPassword: confirm,
		Email:           cmd.String("email"),
		FirstName:       cmd.String("first-name"),
		ImageURL:        cmd.String("image-url"),
	})
	if err != nil {
		return err
	}

	r.logger.Info("account created", "username", user.Username)

	r.writePlain("✓ Account created for %s\n", user.Username)
	return r.writePlain("Run 'vidvault auth login -u %s' to start saving videos\n", user.Username)
}

// AuthLogin starts a session for an existing account.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	user, err := r.engine.Login(cmd.String("username"), cmd.String("password"))
	if err != nil {
		return err
	}

	r.logger.Info("logged in", "username", user.Username)

	return r.writePlain("✓ Logged in as %s\n", user.Username)
}

// AuthLogout clears the current session. Logging out twice is not an error.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.engine.Logout(); err != nil {
		return err
	}

	return r.writePlain("✓ Logged out\n")
}

// AuthWhoAmI prints the current account and a summary of its library.
func (r *Runner) AuthWhoAmI(ctx context.Context, cmd *cli.Command) error {
	user, err := r.engine.RequireUser()
	if err != nil {
		if errors.Is(err, shared.ErrNotLoggedIn) {
			return r.writePlain("Not logged in\n")
		}
		return err
	}

	saved := 0
	for _, pl := range user.Playlists {
		saved += len(pl.Videos)
	}

	r.writePlain("Logged in as %s (%s)\n", user.Username, user.Email)
	return r.writePlain("Playlists: %d, saved videos: %d\n", len(user.Playlists), saved)
}
