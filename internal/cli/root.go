package cli

import (
	"context"
	"fmt"
)

// mainMenu loops over login, registration and exit while the session is
// anonymous. A successful login drops into the task menu and returns here
// on logout.
func (a *App) mainMenu(ctx context.Context) error {
	for {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "=== Welcome to Cloud To-Do ===")
		fmt.Fprintln(a.out, "1) Login")
		fmt.Fprintln(a.out, "2) Register")
		fmt.Fprintln(a.out, "3) Exit")

		choice, err := GetSimpleText(a.reader, "Choose [1-3]", a.out)
		if err != nil {
			// EOF on stdin ends the session like an explicit exit
			return nil
		}

		switch choice {
		case "1":
			if err := a.login(ctx); err != nil {
				return err
			}
			if err := a.taskMenu(ctx); err != nil {
				return err
			}
		case "2":
			if err := a.register(ctx); err != nil {
				return err
			}
		case "3":
			fmt.Fprintln(a.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid choice.")
		}
	}
}
