package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cloudtasks/internal/common"
)

// login prompts for credentials and attempts the Anonymous→Authenticated
// transition. A declined login keeps the session anonymous and returns nil;
// only store failures propagate.
func (a *App) login(ctx context.Context) error {
	fmt.Fprintln(a.out, "=== Login ===")

	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return nil
	}
	if username == "" {
		fmt.Fprintln(a.out, "Username cannot be empty.")
		return nil
	}

	password, err := GetPassword("Password", a.out)
	if err != nil {
		return nil
	}
	defer common.WipeByteArray(password)

	err = a.machine.Login(ctx, username, string(password))
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "Login successful. Welcome, %s!\n", username)
		return nil
	case errors.Is(err, common.ErrorNotFound):
		fmt.Fprintln(a.out, "Error: No such user.")
		return nil
	case errors.Is(err, common.ErrorInvalidCredentials):
		fmt.Fprintln(a.out, "Error: Incorrect password.")
		return nil
	case isLocal(err):
		fmt.Fprintln(a.out, "Error:", err)
		return nil
	default:
		return err
	}
}
