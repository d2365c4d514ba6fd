// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - terminal prompting shared by the interactive commands.
//
// USABILITY: TTY detection for proper terminal handling

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// RequireConfirmation checks that a destructive action is confirmed.
//
//  1. If confirmFlag (--confirm) is set, proceed without prompting.
//  2. In JSON mode interactive prompts are off; --confirm is required.
//  3. If stdin is not a TTY there is nobody to ask; --confirm is required.
//  4. Otherwise prompt for y/N.
func RequireConfirmation(confirmFlag bool, action string, jsonMode bool) (bool, error) {
	if confirmFlag {
		return true, nil
	}
	if jsonMode {
		return false, fmt.Errorf("--confirm flag is required to %s in JSON mode", action)
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("--confirm flag is required to %s (stdin is not a terminal)", action)
	}

	fmt.Printf("Are you sure you want to %s? [y/N]: ", action)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// promptLine reads one line of input with a label.
func promptLine(label string) (string, error) {
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo.
// SECURITY: term.ReadPassword keeps the secret off the terminal.
func promptPassword(label string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("cannot prompt for a password: stdin is not a terminal")
	}
	fmt.Printf("%s: ", label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
