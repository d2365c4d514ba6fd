// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - configuration show/set commands.
//
// Command: config
// Examples:
//   efine config show
//   efine config set api.base_url https://fines.example.gov
//   efine config set ui.page_size 50
//   efine config path

package cli

import (
	"fmt"
	"strconv"

	"github.com/jeranaias/efine-tui/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args *Args) int {
	const command = "config"
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "show":
		return configShow(args)
	case "set":
		return configSet(args, parser)
	case "path":
		return configPath(args)
	default:
		return fail(command, args.JSON, usageErrorf("unknown config subcommand: "+parser.Subcommand()))
	}
}

func configShow(args *Args) int {
	cfg, err := config.Load()
	if err != nil {
		return fail("config show", args.JSON, err)
	}
	if args.JSON {
		NewJSONResponse("config show", cfg).Print()
		return 0
	}

	fmt.Println(statusTitleStyle.Render("efine configuration"))
	fmt.Println(statusLabelStyle.Render("api.base_url") + cfg.API.BaseURL)
	fmt.Println(statusLabelStyle.Render("api.timeout") + fmt.Sprintf("%ds", cfg.API.TimeoutSecs))
	fmt.Println(statusLabelStyle.Render("ui.theme") + cfg.UI.Theme)
	fmt.Println(statusLabelStyle.Render("ui.page_size") + strconv.Itoa(cfg.UI.PageSize))
	if dir, err := cfg.ReportDir(); err == nil {
		fmt.Println(statusLabelStyle.Render("reports.dir") + dir)
	}
	fmt.Println(statusLabelStyle.Render("reports.keep") + strconv.Itoa(cfg.Reports.Keep))
	return 0
}

func configSet(args *Args, parser *ArgParser) int {
	const command = "config set"
	key := parser.Positional(1)
	value := parser.Positional(2)
	if key == "" || value == "" {
		return fail(command, args.JSON, usageErrorf("usage: efine config set KEY VALUE"))
	}

	cfg, err := config.Load()
	if err != nil {
		return fail(command, args.JSON, err)
	}

	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.timeout":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fail(command, args.JSON, fmt.Errorf("api.timeout must be a number of seconds"))
		}
		cfg.API.TimeoutSecs = n
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.compact":
		cfg.UI.CompactMode = value == "true"
	case "ui.page_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fail(command, args.JSON, fmt.Errorf("ui.page_size must be a number"))
		}
		cfg.UI.PageSize = n
	case "reports.download_dir":
		cfg.Reports.DownloadDir = value
	case "reports.keep":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fail(command, args.JSON, fmt.Errorf("reports.keep must be a number"))
		}
		cfg.Reports.Keep = n
	default:
		return fail(command, args.JSON, usageErrorf("unknown config key: "+key))
	}

	if err := cfg.Validate(); err != nil {
		return fail(command, args.JSON, err)
	}
	if err := config.Save(cfg); err != nil {
		return fail(command, args.JSON, err)
	}

	if args.JSON {
		NewJSONResponse(command, map[string]string{"key": key, "value": value}).Print()
		return 0
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return 0
}

func configPath(args *Args) int {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return fail("config path", args.JSON, err)
	}
	if args.JSON {
		NewJSONResponse("config path", map[string]string{"path": path}).Print()
		return 0
	}
	fmt.Println(path)
	return 0
}
