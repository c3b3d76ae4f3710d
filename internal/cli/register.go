package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cloudtasks/internal/common"
)

// register prompts for a username and a twice-entered password, then creates
// the account. Registration never logs the user in; they log in afterwards.
func (a *App) register(ctx context.Context) error {
	fmt.Fprintln(a.out, "=== Register New User ===")

	username, err := GetSimpleText(a.reader, "Choose a username", a.out)
	if err != nil {
		return nil
	}
	if username == "" {
		fmt.Fprintln(a.out, "Username cannot be empty.")
		return nil
	}

	// Fast path for friendlier prompting only: uniqueness is enforced by the
	// store's conditional create below, so losing a race here is still safe.
	taken, err := a.creds.Exists(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		fmt.Fprintln(a.out, "Username already taken.")
		return nil
	}

	password, ok, err := a.readNewPassword()
	if err != nil || !ok {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.machine.Register(ctx, username, string(password))
	switch {
	case err == nil:
		fmt.Fprintln(a.out, "Registration successful. You can now log in.")
		return nil
	case errors.Is(err, common.ErrorAlreadyExists):
		fmt.Fprintln(a.out, "Username already taken.")
		return nil
	case isLocal(err):
		fmt.Fprintln(a.out, "Error:", err)
		return nil
	default:
		return err
	}
}

// readNewPassword asks for the password twice until both entries match and
// are non-empty. ok=false means input ended before a valid password was read.
func (a *App) readNewPassword() (pw []byte, ok bool, err error) {
	for {
		pw1, err := GetPassword("Enter a password", a.out)
		if err != nil {
			return nil, false, nil
		}
		pw2, err := GetPassword("Confirm password", a.out)
		if err != nil {
			common.WipeByteArray(pw1)
			return nil, false, nil
		}

		switch {
		case len(pw1) == 0:
			fmt.Fprintln(a.out, "Password cannot be empty.")
		case !bytes.Equal(pw1, pw2):
			fmt.Fprintln(a.out, "Passwords do not match. Try again.")
		default:
			common.WipeByteArray(pw2)
			return pw1, true, nil
		}

		common.WipeByteArray(pw1)
		common.WipeByteArray(pw2)
	}
}
