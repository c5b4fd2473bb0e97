// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

// Package collect holds the remote metric scripts and the parser for the
// JSON payload they emit.
package collect

import (
	_ "embed"
	"fmt"

	"github.com/PedroNoriega/agentless-hub/internal/backend"
	"github.com/PedroNoriega/agentless-hub/internal/models"
)

//go:embed scripts/linux_metrics.sh
var linuxScript string

// ScriptFor returns the remote metrics script for an OS. Windows has no
// script yet; the capability is declared but unimplemented, so collection
// against Windows hosts short-circuits with backend.ErrUnsupported.
func ScriptFor(os models.OSType) (string, error) {
	switch os {
	case models.OSLinux:
		return linuxScript, nil
	case models.OSWindows:
		return "", fmt.Errorf("%w: windows metrics script", backend.ErrUnsupported)
	default:
		return "", fmt.Errorf("no metrics script for os %q", os)
	}
}
