// Copyright 2025 Arclens
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@arclens.dev
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/arclens/ckb/internal/bootstrap"
	"github.com/arclens/ckb/internal/errors"
	"github.com/arclens/ckb/internal/ui"
)

// ProjectStatus is the per-project status for JSON output.
type ProjectStatus struct {
	Name      string `json:"name"`
	ProjectID string `json:"project_id"`
	Path      string `json:"path"`
	Files     int    `json:"files"`
	Functions int    `json:"functions"`
	Modules   int    `json:"modules"`
	CallEdges int    `json:"call_edges"`
}

// StatusResult is the full 'status' output.
type StatusResult struct {
	Connected bool            `json:"connected"`
	DataDir   string          `json:"data_dir"`
	Projects  []ProjectStatus `json:"projects"`
	Error     string          `json:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// runStatus executes the 'status' CLI command, reporting every registered
// project's graph node counts and the knowledge base's connectivity.
//
// Usage:
//
//	ckb status [--verbose]
func runStatus(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Include per-project call-edge counts")
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ckb status [options]

Reports knowledge base connectivity and per-project entity counts.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	startMetricsServer(*metricsAddr, slog.Default())

	result := &StatusResult{Timestamp: time.Now()}

	reg, err := openRegistry()
	if err != nil {
		result.Error = err.Error()
		reportStatus(result, globals)
		os.Exit(1)
	}

	backend, err := bootstrap.OpenStore(bootstrap.StoreConfig{}, slog.Default())
	if err != nil {
		result.Error = err.Error()
		reportStatus(result, globals)
		os.Exit(1)
	}
	defer backend.Close()
	result.Connected = true

	ctx := context.Background()
	for _, proj := range reg.List() {
		ps := ProjectStatus{
			Name:      proj.Name,
			ProjectID: proj.ID,
			Path:      proj.Path,
			Files:     backend.CountRows(ctx, "ck_file", "path", proj.ID),
			Functions: backend.CountRows(ctx, "ck_function", "name", proj.ID),
			Modules:   backend.CountRows(ctx, "ck_module", "name", proj.ID),
		}
		if *verbose {
			ps.CallEdges = backend.CountRows(ctx, "ck_calls", "caller_name", proj.ID)
		}
		result.Projects = append(result.Projects, ps)
	}

	reportStatus(result, globals)
}

func reportStatus(result *StatusResult, globals GlobalFlags) {
	if globals.JSON {
		printJSON(result)
		return
	}

	if result.Error != "" {
		errors.FatalError(errors.NewStorageConnectionError("cannot report status", result.Error, "check ~/.ckb permissions and registry.json", nil), false)
		return
	}

	ui.Header("ckb Knowledge Base Status")
	if len(result.Projects) == 0 {
		ui.Warning("No projects registered yet. Run 'ckb analyze <path>' to create one.")
		return
	}
	for _, p := range result.Projects {
		fmt.Printf("\n%s %s\n", ui.Label(p.Name), ui.DimText("("+p.ProjectID+")"))
		ui.StatString("Path", p.Path)
		ui.Stat("Files", p.Files)
		ui.Stat("Functions", p.Functions)
		ui.Stat("Modules", p.Modules)
		if p.CallEdges > 0 {
			ui.Stat("Calls", p.CallEdges)
		}
	}
}
