// Package taskrepo owns the per-user task documents at
// users/{username}/tasks/{taskId}: ordered listing, creation, partial update
// and deletion. Every call is scoped by the username; there is no global task
// namespace.
package taskrepo

import (
	"context"

	"github.com/dmitrijs2005/cloudtasks/internal/docstore"
)

const (
	pendingDisplay = "<pending timestamp>"
	displayLayout  = "2006-01-02 15:04:05"
)

type Repository struct {
	docs docstore.Store
}

func New(docs docstore.Store) *Repository {
	return &Repository{docs: docs}
}

// View is the read model of one task handed to the interaction layer.
type View struct {
	Title            string
	Description      string
	CreatedAtDisplay string
	Completed        bool
}

// Item pairs a task id with its view; List returns items in creation order.
type Item struct {
	ID   string
	View View
}

// Patch names the fields of a partial task update. Nil fields are left
// untouched in the document.
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
}

func tasksCollection(username string) string {
	return "users/" + username + "/tasks"
}

func taskPath(username, id string) string {
	return tasksCollection(username) + "/" + id
}

// Create writes a new task with completed=false and a pending server
// timestamp, returning the store-generated id. Title emptiness is validated
// by the caller.
func (r *Repository) Create(ctx context.Context, username, title, description string) (string, error) {
	return r.docs.Add(ctx, tasksCollection(username), docstore.Fields{
		"title":       title,
		"description": description,
		"created_at":  docstore.ServerTimestamp,
		"completed":   false,
	})
}

// List returns a snapshot of all of the user's tasks, ordered by created_at
// ascending. Later mutations are not reflected until List is called again.
func (r *Repository) List(ctx context.Context, username string) ([]Item, error) {
	docs, err := r.docs.ListChildren(ctx, tasksCollection(username), "created_at")
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(docs))
	for _, doc := range docs {
		title, _ := doc.Fields["title"].(string)
		description, _ := doc.Fields["description"].(string)
		completed, _ := doc.Fields["completed"].(bool)
		items = append(items, Item{
			ID: doc.ID,
			View: View{
				Title:            title,
				Description:      description,
				CreatedAtDisplay: displayCreatedAt(doc.Fields["created_at"]),
				Completed:        completed,
			},
		})
	}
	return items, nil
}

// displayCreatedAt renders the server timestamp for display. A write read
// back before the server resolved it shows the pending marker; that is a
// normal transient state, not an error.
func displayCreatedAt(v any) string {
	ts, ok := v.(docstore.Timestamp)
	if !ok {
		return "N/A"
	}
	if ts.IsPending() {
		return pendingDisplay
	}
	return ts.Time().UTC().Format(displayLayout)
}

// Update merges only the supplied fields into the task document. It returns
// false without a store call when no field is supplied, and
// common.ErrorNotFound when the task id does not exist under the user.
func (r *Repository) Update(ctx context.Context, username, id string, patch Patch) (bool, error) {
	partial := docstore.Fields{}
	if patch.Title != nil {
		partial["title"] = *patch.Title
	}
	if patch.Description != nil {
		partial["description"] = *patch.Description
	}
	if patch.Completed != nil {
		partial["completed"] = *patch.Completed
	}
	if len(partial) == 0 {
		return false, nil
	}

	if err := r.docs.Update(ctx, taskPath(username, id), partial); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the task document. Deleting an id that no longer exists is
// treated as success.
func (r *Repository) Delete(ctx context.Context, username, id string) error {
	return r.docs.Delete(ctx, taskPath(username, id))
}
