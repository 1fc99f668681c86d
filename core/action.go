package core

import "context"

// ActionHandler executes a custom action against one record, using the
// resource's client for any remote work. A non-nil error marks the action
// as failed in the UI.
type ActionHandler func(ctx context.Context, client *Client, id int) error

// CustomAction represents a custom action that can be performed on a resource
type CustomAction struct {
	// ID is the unique identifier for the action (used in URLs)
	ID string `json:"id"`

	// Title is the display name for the action shown in the UI
	Title string `json:"title"`

	// Handler is the function that executes when the action is triggered
	Handler ActionHandler `json:"-"`
}

// ActionByID returns the resource's action with the given id
func (r *Resource) ActionByID(id string) (*CustomAction, bool) {
	for i := range r.Actions {
		if r.Actions[i].ID == id {
			return &r.Actions[i], true
		}
	}
	return nil, false
}
