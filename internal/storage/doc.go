// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local report archive.
//
// Every report downloaded from the backend is kept in a small SQLite
// database under ~/.efine so past reports can be listed and re-exported
// without another backend round trip. The archive is advisory: losing it
// loses nothing the backend cannot regenerate.
package storage
