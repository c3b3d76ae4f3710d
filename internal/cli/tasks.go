package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cloudtasks/internal/common"
	"github.com/dmitrijs2005/cloudtasks/internal/session"
	"github.com/dmitrijs2005/cloudtasks/internal/taskrepo"
)

// taskMenu is the authenticated sub-loop. Each iteration takes a fresh
// snapshot and dispatches exactly one action against it; the snapshot is
// not refreshed mid-action, so toggles negate the displayed value.
func (a *App) taskMenu(ctx context.Context) error {
	if a.machine.State() != session.StateAuthenticated {
		return nil
	}

	for a.machine.State() == session.StateAuthenticated {
		snapshot, err := a.machine.Snapshot(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintln(a.out)
		fmt.Fprintf(a.out, "=== %s's To-Do Menu ===\n", a.machine.User())
		fmt.Fprintln(a.out, "1) List tasks")
		fmt.Fprintln(a.out, "2) Add a task")
		fmt.Fprintln(a.out, "3) Update a task")
		fmt.Fprintln(a.out, "4) Delete a task")
		fmt.Fprintln(a.out, "5) Toggle task complete/incomplete")
		fmt.Fprintln(a.out, "6) Logout")

		choice, err := GetSimpleText(a.reader, "Choose [1-6]", a.out)
		if err != nil {
			a.machine.Logout()
			return nil
		}

		switch choice {
		case "1":
			a.listTasks(snapshot)
		case "2":
			err = a.addTask(ctx)
		case "3":
			err = a.updateTask(ctx, snapshot)
		case "4":
			err = a.deleteTask(ctx, snapshot)
		case "5":
			err = a.toggleTask(ctx, snapshot)
		case "6":
			fmt.Fprintln(a.out, "Logging out...")
			a.machine.Logout()
		default:
			fmt.Fprintln(a.out, "Invalid choice.")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *App) listTasks(snapshot []taskrepo.Item) {
	if len(snapshot) == 0 {
		fmt.Fprintln(a.out, "No tasks yet.")
		return
	}
	for i, item := range snapshot {
		a.printTask(i+1, item)
	}
}

func (a *App) addTask(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return nil
	}
	description, err := GetSimpleText(a.reader, "Description", a.out)
	if err != nil {
		return nil
	}

	if err := a.machine.Add(ctx, title, description); err != nil {
		if isLocal(err) {
			fmt.Fprintln(a.out, "Title cannot be empty.")
			return nil
		}
		return err
	}
	fmt.Fprintln(a.out, "Task added.")
	return nil
}

// selectTask shows the snapshot and reads a 1-based selection. ok=false
// means there was nothing to select or the input was not a valid position.
func (a *App) selectTask(snapshot []taskrepo.Item, verb string) (index int, ok bool) {
	if len(snapshot) == 0 {
		fmt.Fprintf(a.out, "No tasks to %s.\n", verb)
		return 0, false
	}

	fmt.Fprintf(a.out, "Select task number to %s:\n", verb)
	for i, item := range snapshot {
		fmt.Fprintf(a.out, "%d) %s  [%s]\n", i+1, item.View.Title, statusText(item.View.Completed))
	}

	index, numeric, err := GetSelection(a.reader, "Task number", a.out)
	if err != nil {
		return 0, false
	}
	if !numeric {
		fmt.Fprintln(a.out, "Invalid input.")
		return 0, false
	}
	if index < 1 || index > len(snapshot) {
		fmt.Fprintln(a.out, "Out of range.")
		return 0, false
	}
	return index, true
}

// reportSelection prints the out-of-range message for a declined selection
// and decides whether the error is fatal.
func (a *App) reportSelection(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrorValidation) {
		fmt.Fprintln(a.out, "Out of range.")
		return nil
	}
	if errors.Is(err, common.ErrorNotFound) {
		// the task disappeared between snapshot and write
		fmt.Fprintln(a.out, "Task no longer exists.")
		return nil
	}
	if isLocal(err) {
		fmt.Fprintln(a.out, "Error:", err)
		return nil
	}
	return err
}

func (a *App) updateTask(ctx context.Context, snapshot []taskrepo.Item) error {
	index, ok := a.selectTask(snapshot, "update")
	if !ok {
		return nil
	}

	fmt.Fprintf(a.out, "Updating %q\n", snapshot[index-1].View.Title)

	newTitle, err := GetSimpleText(a.reader, "New title (leave blank to keep current)", a.out)
	if err != nil {
		return nil
	}
	newDescription, err := GetSimpleText(a.reader, "New description (leave blank to keep current)", a.out)
	if err != nil {
		return nil
	}

	patch := taskrepo.Patch{}
	if newTitle != "" {
		patch.Title = &newTitle
	}
	if newDescription != "" {
		patch.Description = &newDescription
	}

	updated, err := a.machine.UpdateTask(ctx, snapshot, index, patch)
	if err != nil {
		return a.reportSelection(err)
	}
	if updated {
		fmt.Fprintln(a.out, "Task updated.")
	} else {
		fmt.Fprintln(a.out, "No changes made.")
	}
	return nil
}

func (a *App) deleteTask(ctx context.Context, snapshot []taskrepo.Item) error {
	index, ok := a.selectTask(snapshot, "delete")
	if !ok {
		return nil
	}

	confirm, err := GetSimpleText(a.reader, fmt.Sprintf("Delete %q? (y/N)", snapshot[index-1].View.Title), a.out)
	if err != nil {
		return nil
	}
	if strings.ToLower(confirm) != "y" {
		fmt.Fprintln(a.out, "Deletion canceled.")
		return nil
	}

	if err := a.machine.DeleteTask(ctx, snapshot, index); err != nil {
		return a.reportSelection(err)
	}
	fmt.Fprintln(a.out, "Task deleted.")
	return nil
}

func (a *App) toggleTask(ctx context.Context, snapshot []taskrepo.Item) error {
	index, ok := a.selectTask(snapshot, "toggle")
	if !ok {
		return nil
	}

	done, err := a.machine.ToggleTask(ctx, snapshot, index)
	if err != nil {
		return a.reportSelection(err)
	}
	fmt.Fprintf(a.out, "Task marked %s.\n", statusText(done))
	return nil
}
