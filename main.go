// efine TUI - terminal admin console for the eFine traffic fine platform.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/efine-tui/internal/api"
	"github.com/jeranaias/efine-tui/internal/auth"
	"github.com/jeranaias/efine-tui/internal/cli"
	"github.com/jeranaias/efine-tui/internal/config"
	"github.com/jeranaias/efine-tui/internal/session"
	"github.com/jeranaias/efine-tui/internal/storage"
	"github.com/jeranaias/efine-tui/internal/ui/console"
	"github.com/jeranaias/efine-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		os.Exit(runTUI())
	case cli.CmdLogin:
		os.Exit(cli.HandleLogin(args))
	case cli.CmdLogout:
		os.Exit(cli.HandleLogout(args))
	case cli.CmdWhoami:
		os.Exit(cli.HandleWhoami(args))
	case cli.CmdStatus:
		os.Exit(cli.HandleStatus(args))
	case cli.CmdConfig:
		os.Exit(cli.HandleConfig(args))
	case cli.CmdReport:
		os.Exit(cli.HandleReport(args))
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp(args)
	}
}

// runTUI wires the full console: config, sealed session store, API
// client, auth controller and the Bubble Tea program.
func runTUI() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	config.SetGlobal(cfg)
	styles.ApplyTheme(cfg.UI.Theme)

	store, err := session.NewDefaultStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    time.Duration(cfg.API.TimeoutSecs) * time.Second,
		RatePerSec: cfg.API.RatePerSec,
	}, store)

	archivePath, err := storage.DefaultArchivePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	archive, err := storage.OpenArchive(archivePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer archive.Close()

	events := make(chan tea.Msg, 32)
	ctrl := auth.NewController(client, store, console.NewHooks(events))

	// Pick up config file edits while the console is running.
	if watcher, err := config.Watch(nil); err == nil {
		defer watcher.Close()
	}

	program := tea.NewProgram(
		console.New(ctrl, client, archive, cfg, events),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
