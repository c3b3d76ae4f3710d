// Package session sequences credential and task operations for one
// interactive user. The machine has two states, Anonymous and
// Authenticated(username); task operations act on a caller-held snapshot
// taken at the top of each authenticated iteration and select entries by
// their 1-based position in that snapshot.
package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cloudtasks/internal/common"
	"github.com/dmitrijs2005/cloudtasks/internal/credstore"
	"github.com/dmitrijs2005/cloudtasks/internal/taskrepo"
)

type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

type Machine struct {
	creds *credstore.Store
	tasks *taskrepo.Repository
	state State
	user  string
}

func NewMachine(creds *credstore.Store, tasks *taskrepo.Repository) *Machine {
	return &Machine{creds: creds, tasks: tasks, state: StateAnonymous}
}

func (m *Machine) State() State {
	return m.state
}

// User returns the authenticated username, "" while anonymous.
func (m *Machine) User() string {
	return m.user
}

// Login moves the machine to Authenticated on verified credentials. On any
// error the machine stays Anonymous.
func (m *Machine) Login(ctx context.Context, username, password string) error {
	if m.state != StateAnonymous {
		return fmt.Errorf("%w: already logged in", common.ErrorValidation)
	}
	if username == "" {
		return fmt.Errorf("%w: username must not be empty", common.ErrorValidation)
	}

	user, err := m.creds.Verify(ctx, username, password)
	if err != nil {
		return err
	}

	m.state = StateAuthenticated
	m.user = user
	return nil
}

// Register creates the account but never authenticates the caller in the
// same step; the user must log in afterwards.
func (m *Machine) Register(ctx context.Context, username, password string) error {
	if m.state != StateAnonymous {
		return fmt.Errorf("%w: already logged in", common.ErrorValidation)
	}
	return m.creds.Register(ctx, username, password)
}

// Logout returns the machine to Anonymous. Logging out while anonymous is a
// no-op.
func (m *Machine) Logout() {
	m.state = StateAnonymous
	m.user = ""
}

func (m *Machine) requireAuth() error {
	if m.state != StateAuthenticated {
		return common.ErrorUnauthorized
	}
	return nil
}

// Snapshot fetches the authenticated user's tasks in creation order. The
// result is a point-in-time read: later mutations are not reflected until
// the next Snapshot.
func (m *Machine) Snapshot(ctx context.Context) ([]taskrepo.Item, error) {
	if err := m.requireAuth(); err != nil {
		return nil, err
	}
	return m.tasks.List(ctx, m.user)
}

// Add creates a new task for the authenticated user.
func (m *Machine) Add(ctx context.Context, title, description string) error {
	if err := m.requireAuth(); err != nil {
		return err
	}
	if title == "" {
		return fmt.Errorf("%w: title must not be empty", common.ErrorValidation)
	}
	_, err := m.tasks.Create(ctx, m.user, title, description)
	return err
}

// pick resolves a 1-based snapshot position. An out-of-range selection is a
// local validation failure, not a state transition.
func pick(snapshot []taskrepo.Item, index int) (taskrepo.Item, error) {
	if index < 1 || index > len(snapshot) {
		return taskrepo.Item{}, fmt.Errorf("%w: selection %d out of range", common.ErrorValidation, index)
	}
	return snapshot[index-1], nil
}

// UpdateTask applies a partial update to the task at the given snapshot
// position. Returns false when the patch is empty and no write was issued.
func (m *Machine) UpdateTask(ctx context.Context, snapshot []taskrepo.Item, index int, patch taskrepo.Patch) (bool, error) {
	if err := m.requireAuth(); err != nil {
		return false, err
	}
	item, err := pick(snapshot, index)
	if err != nil {
		return false, err
	}
	return m.tasks.Update(ctx, m.user, item.ID, patch)
}

// DeleteTask removes the task at the given snapshot position.
func (m *Machine) DeleteTask(ctx context.Context, snapshot []taskrepo.Item, index int) error {
	if err := m.requireAuth(); err != nil {
		return err
	}
	item, err := pick(snapshot, index)
	if err != nil {
		return err
	}
	return m.tasks.Delete(ctx, m.user, item.ID)
}

// ToggleTask flips the completed flag of the task at the given snapshot
// position, based on the snapshot's value: the store is not re-read before
// the write, so concurrent writers race with last-writer-wins semantics.
// Returns the value that was written.
func (m *Machine) ToggleTask(ctx context.Context, snapshot []taskrepo.Item, index int) (bool, error) {
	if err := m.requireAuth(); err != nil {
		return false, err
	}
	item, err := pick(snapshot, index)
	if err != nil {
		return false, err
	}

	next := !item.View.Completed
	if _, err := m.tasks.Update(ctx, m.user, item.ID, taskrepo.Patch{Completed: &next}); err != nil {
		return false, err
	}
	return next, nil
}
