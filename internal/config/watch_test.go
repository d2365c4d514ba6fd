// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".efine")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\npage_size = 25\n"), 0o600))

	loaded := make(chan *Config, 4)
	w, err := Watch(func(cfg *Config) { loaded <- cfg })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[ui]\npage_size = 42\n"), 0o600))

	select {
	case cfg := <-loaded:
		require.Equal(t, 42, cfg.UI.PageSize)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never reloaded the config")
	}
	require.Equal(t, 42, Global().UI.PageSize)
}

func TestWatch_IgnoresUnrelatedFiles(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".efine")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	loaded := make(chan *Config, 4)
	w, err := Watch(func(cfg *Config) { loaded <- cfg })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.bin"), []byte("x"), 0o600))

	select {
	case <-loaded:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(watchDebounce * 3):
	}
}

func TestWatch_MissingDirErrors(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	_, err := Watch(nil)
	require.Error(t, err)
}
