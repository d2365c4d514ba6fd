// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - argument parsing and command dispatch for efine.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/jeranaias/efine-tui/internal/api"
	"github.com/jeranaias/efine-tui/internal/auth"
	"github.com/jeranaias/efine-tui/internal/config"
	"github.com/jeranaias/efine-tui/internal/session"
	"github.com/jeranaias/efine-tui/internal/storage"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdWhoami
	CmdStatus
	CmdConfig
	CmdReport
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON  bool
	Quiet bool

	// Raw args remaining after the command word.
	Raw []string
}

const usageText = `efine - admin console for the eFine traffic fine platform

Usage:
  efine                      Start the terminal UI (default)
  efine login                Sign in and store the session
    --email ADDR             Skip the email prompt
    --totp CODE              Two-factor code, if challenged
  efine logout               Sign out (requires 2FA enabled; --force overrides)
  efine whoami               Show the signed-in account
  efine status, s            Show connection and session status
  efine config [show|set|path]
                             Configuration management
  efine report [subcommand]  Generate and browse JSON reports
  efine version              Show version information
  efine help                 Show this help

Report Commands:
  efine report generate monthly --month N --year N
  efine report generate payments --from YYYY-MM-DD --to YYYY-MM-DD
  efine report generate driver --license NUMBER
  efine report list          List archived reports
  efine report show <id>     Render an archived report
  efine report export <id>   Write an archived report to the download dir
    --output FILE            Write to a specific path instead
  efine report prune         Delete old archived reports
    --keep N                 How many to keep (default reports.keep)
    --confirm                Skip the confirmation prompt

Config Commands:
  efine config show          Show the active configuration
  efine config set KEY VALUE Set api.base_url, ui.theme, ui.page_size,
                             reports.download_dir or reports.keep
  efine config path          Show the configuration file location

Global Flags:
  --json                     Machine-readable output
  --force                    Skip the 2FA guard on logout
  --quiet                    Suppress non-essential output

Environment:
  EFINE_API_URL              Override api.base_url
  EFINE_THEME                Override ui.theme
  EFINE_REPORT_DIR           Override reports.download_dir
`

// Parse reads os.Args and returns the command plus its arguments.
func Parse() (Command, *Args) {
	args := &Args{}
	raw := os.Args[1:]

	var rest []string
	for _, a := range raw {
		switch a {
		case "--json":
			args.JSON = true
		case "--quiet", "-q":
			args.Quiet = true
		default:
			rest = append(rest, a)
		}
	}

	if len(rest) == 0 {
		return CmdTUI, args
	}

	cmd := rest[0]
	args.Raw = rest[1:]

	switch cmd {
	case "login":
		return CmdLogin, args
	case "logout":
		return CmdLogout, args
	case "whoami":
		return CmdWhoami, args
	case "status", "s":
		return CmdStatus, args
	case "config":
		return CmdConfig, args
	case "report", "reports":
		return CmdReport, args
	case "version", "--version", "-v":
		return CmdVersion, args
	case "help", "--help", "-h":
		return CmdHelp, args
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, args
	}
}

// HandleHelp prints usage.
func HandleHelp(args *Args) {
	fmt.Print(usageText)
}

// HandleVersion prints version information.
func HandleVersion(args *Args) {
	if args.JSON {
		resp := NewJSONResponse("version", map[string]string{
			"version":   Version,
			"commit":    GitCommit,
			"buildDate": BuildDate,
			"goVersion": runtime.Version(),
			"platform":  runtime.GOOS + "/" + runtime.GOARCH,
		})
		resp.Print()
		return
	}
	fmt.Printf("efine %s (%s, built %s)\n", Version, GitCommit, BuildDate)
	fmt.Printf("  %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// env bundles the dependencies every handler needs.
type env struct {
	cfg    *config.Config
	store  *session.Store
	client *api.Client
	ctrl   *auth.Controller
}

// newEnv loads config, opens the session store and builds an API client
// with the session as its token source. Controller hooks stay empty;
// command output goes straight to the terminal.
func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	store, err := session.NewDefaultStore()
	if err != nil {
		return nil, err
	}
	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.TimeoutSecs) * time.Second,
	}, store)
	ctrl := auth.NewController(client, store, auth.Hooks{})
	return &env{cfg: cfg, store: store, client: client, ctrl: ctrl}, nil
}

// openArchive opens the local report archive.
func openArchive() (*storage.ReportArchive, error) {
	path, err := storage.DefaultArchivePath()
	if err != nil {
		return nil, err
	}
	return storage.OpenArchive(path)
}

// fail prints an error in the requested format and returns its mapped
// exit code.
func fail(command string, jsonMode bool, err error) int {
	if jsonMode {
		NewJSONErrorResponse(command, err).Print()
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}
