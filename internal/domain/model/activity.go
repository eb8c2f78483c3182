package model

import "errors"

var (
	// ErrMemberNotFound is returned by the activity read model for an unknown username.
	ErrMemberNotFound = errors.New("member not found")
	// ErrProjectNotFound is returned by the activity read model for an unknown project id.
	ErrProjectNotFound = errors.New("project not found")
)

// Member is a workspace member as seen by the activity read model.
type Member struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// ProjectInfo is a project as seen by the activity read model.
type ProjectInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TaskCounts aggregates task activity within a report window.
type TaskCounts struct {
	Completed int `json:"completed"`
	Created   int `json:"created"`
	// Open counts tasks still open at the end of the window.
	Open int `json:"open"`
}
