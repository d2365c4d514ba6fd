// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, logout and whoami commands.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/efine-tui/internal/auth"
)

// HandleLogin signs in interactively and stores the session. Accounts
// with 2FA enabled are asked for a code after the password.
func HandleLogin(args *Args) int {
	const command = "login"
	if args.JSON {
		return fail(command, true, errors.New("login is interactive; sign in without --json"))
	}

	e, err := newEnv()
	if err != nil {
		return fail(command, false, err)
	}

	if e.ctrl.State() == auth.StateAuthenticated {
		if user, ok := e.ctrl.User(); ok {
			fmt.Printf("Already signed in as %s (%s). Run `efine logout` first.\n", user.Name, user.Role.Label())
			return 0
		}
	}

	parser := NewArgParser(args.Raw)
	email := parser.Flag("email")
	if email == "" {
		email, err = promptLine("Email")
		if err != nil {
			return fail(command, false, err)
		}
	}
	password, err := promptPassword("Password")
	if err != nil {
		return fail(command, false, err)
	}

	ctx := context.Background()
	if err := e.ctrl.Login(ctx, email, password); err != nil {
		return fail(command, false, err)
	}

	if e.ctrl.State() == auth.StateAwaitingTwoFactor {
		code := parser.Flag("totp")
		if code == "" {
			code, err = promptLine("Two-factor code")
			if err != nil {
				return fail(command, false, err)
			}
		}
		if err := e.ctrl.SubmitTwoFactorCode(ctx, code); err != nil {
			return fail(command, false, err)
		}
	}

	user, ok := e.ctrl.User()
	if !ok {
		return fail(command, false, errors.New("sign-in did not complete"))
	}
	fmt.Printf("Signed in as %s (%s).\n", user.Name, user.Role.Label())
	if !user.IsTwoFactorEnabled {
		fmt.Println("Two-factor authentication is disabled. Enable it in Settings before signing out.")
	}
	return 0
}

// HandleLogout clears the stored session. Without --force the 2FA
// enrollment guard applies, same as in the UI.
func HandleLogout(args *Args) int {
	const command = "logout"
	parser := NewArgParser(args.Raw)
	force := parser.BoolFlag("force")

	e, err := newEnv()
	if err != nil {
		return fail(command, args.JSON, err)
	}

	if e.ctrl.State() != auth.StateAuthenticated {
		infof(args.JSON, "Not signed in.\n")
		if args.JSON {
			NewJSONResponse(command, map[string]any{"signedOut": false, "reason": "no session"}).Print()
		}
		return 0
	}

	if err := e.ctrl.Logout(force); err != nil {
		if errors.Is(err, auth.ErrLogoutBlocked) {
			fmt.Fprintln(os.Stderr, auth.EnforcedTwoFactorMessage)
			fmt.Fprintln(os.Stderr, "Use --force to sign out anyway.")
			return exitCode(err)
		}
		return fail(command, args.JSON, err)
	}

	if args.JSON {
		NewJSONResponse(command, map[string]any{"signedOut": true}).Print()
		return 0
	}
	fmt.Println("Signed out.")
	return 0
}

// HandleWhoami prints the stored session's account.
func HandleWhoami(args *Args) int {
	const command = "whoami"

	e, err := newEnv()
	if err != nil {
		return fail(command, args.JSON, err)
	}

	user, ok := e.ctrl.User()
	if !ok {
		if args.JSON {
			NewJSONResponse(command, map[string]any{"signedIn": false}).Print()
			return 0
		}
		fmt.Println("Not signed in.")
		return 0
	}

	if args.JSON {
		NewJSONResponse(command, map[string]any{
			"signedIn":           true,
			"name":               user.Name,
			"email":              user.Email,
			"role":               user.Role,
			"isTwoFactorEnabled": user.IsTwoFactorEnabled,
		}).Print()
		return 0
	}

	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	fmt.Printf("Role: %s\n", user.Role.Label())
	if user.IsTwoFactorEnabled {
		fmt.Println("2FA:  enabled")
	} else {
		fmt.Println("2FA:  disabled")
	}
	return 0
}
