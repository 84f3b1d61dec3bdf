package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingAPIKey = fmt.Errorf("missing YouTube API key")

	// Account errors
	ErrNotLoggedIn        = fmt.Errorf("not logged in")
	ErrInvalidCredentials = fmt.Errorf("incorrect username or password")
	ErrUsernameTaken      = fmt.Errorf("username already taken")
	ErrWeakPassword       = fmt.Errorf("password must be at least 6 characters with one uppercase letter and one number")
	ErrPasswordMismatch   = fmt.Errorf("passwords do not match")
	ErrMissingField       = fmt.Errorf("missing required field")
	ErrUserNotFound       = fmt.Errorf("user not found")

	// API and catalog errors
	ErrAPIRequest   = fmt.Errorf("API request failed")
	ErrSearchFailed = fmt.Errorf("search failed")

	// Library errors
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrVideoNotFound    = fmt.Errorf("video not found")
	ErrAlreadySaved     = fmt.Errorf("video already saved")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
