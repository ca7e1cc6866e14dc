// Copyright 2026 Arclens
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package errors provides structured error handling for the ckb CLI.
//
// This package defines UserError, a type that carries structured error information
// including what went wrong, why it happened, and how to fix it, plus a Category
// drawn from the error taxonomy: parse, storage-connection, storage-operation,
// constraint, model-load, embedding, api-connection, api-model, query,
// configuration, and service errors. Every UserError also carries a CategoryCode,
// a fine-grained diagnostic code useful in --verbose output and JSON payloads, but
// the CLI's outward exit-code contract is exactly 0 (success), 1 (fatal error),
// and 130 (interrupted) regardless of category — see FatalError.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// CLI-visible exit codes. These are the only codes ckb itself ever returns to
// the shell; CategoryCode below is diagnostic detail carried inside the error,
// not a process exit code.
const (
	ExitSuccess     = 0
	ExitFatal       = 1
	ExitInterrupted = 130
)

// Category identifies which entry of the error taxonomy produced a UserError.
type Category string

const (
	CategoryParse             Category = "parse"
	CategoryStorageConnection Category = "storage-connection"
	CategoryStorageOperation  Category = "storage-operation"
	CategoryConstraint        Category = "constraint"
	CategoryModelLoad         Category = "model-load"
	CategoryEmbedding         Category = "embedding"
	CategoryAPIConnection     Category = "api-connection"
	CategoryAPIModel          Category = "api-model"
	CategoryQuery             Category = "query"
	CategoryConfiguration     Category = "configuration"
	CategoryService           Category = "service"
)

// categoryCodes assigns a stable diagnostic number per category, shown in
// --verbose / --json output. These are NOT process exit codes.
var categoryCodes = map[Category]int{
	CategoryParse:             1,
	CategoryStorageConnection: 2,
	CategoryStorageOperation:  3,
	CategoryConstraint:        4,
	CategoryModelLoad:         5,
	CategoryEmbedding:         6,
	CategoryAPIConnection:     7,
	CategoryAPIModel:          8,
	CategoryQuery:             9,
	CategoryConfiguration:     10,
	CategoryService:           11,
}

// UserError represents an error with structured context for end users.
//
// It provides three levels of information:
//   - Message: what went wrong (user-facing error description)
//   - Cause: why it happened (diagnostic information)
//   - Fix: how to fix it (actionable suggestion)
//
// Category records which taxonomy entry produced the error; Err optionally
// wraps the underlying error for errors.Is/As compatibility.
type UserError struct {
	Message  string
	Cause    string
	Fix      string
	Category Category
	Err      error
}

// Error implements the error interface.
func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *UserError) Unwrap() error {
	return e.Err
}

// CategoryCode returns the diagnostic code for e's category (0 if unset).
func (e *UserError) CategoryCode() int {
	return categoryCodes[e.Category]
}

func newUserError(category Category, msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, Category: category, Err: err}
}

// NewParseError reports a source file that could not be opened or produced no
// usable Tree-sitter tree.
func NewParseError(msg, cause, fix string, err error) *UserError {
	return newUserError(CategoryParse, msg, cause, fix, err)
}

// NewStorageConnectionError reports the graph or vector backend being
// unreachable or misconfigured. Fatal for the owning component.
func NewStorageConnectionError(msg, cause, fix string, err error) *UserError {
	return newUserError(CategoryStorageConnection, msg, cause, fix, err)
}

// NewStorageOperationError reports a write or query that failed on an
// established connection.
func NewStorageOperationError(msg, cause, fix string, err error) *UserError {
	return newUserError(CategoryStorageOperation, msg, cause, fix, err)
}

// NewConstraintError reports legacy non-isolated data colliding with an
// isolated write, after the one-shot recovery attempt has also failed.
func NewConstraintError(msg, cause, fix string, err error) *UserError {
	return newUserError(CategoryConstraint, msg, cause, fix, err)
}

// NewModelLoadError reports the embedding model or tokenizer failing to
// initialize. Fatal at startup.
func NewModelLoadError(msg, cause, fix string, err error) *UserError {
	return newUserError(CategoryModelLoad, msg, cause, fix, err)
}

// NewEmbeddingError reports an encoder producing an unexpected count or shape.
func NewEmbeddingError(msg, cause, fix string, err error) *UserError {
	return newUserError(CategoryEmbedding, msg, cause, fix, err)
}

// NewAPIConnectionError reports a transport-layer failure to the LLM endpoint.
func NewAPIConnectionError(msg, cause, fix string, err error) *UserError {
	return newUserError(CategoryAPIConnection, msg, cause, fix, err)
}

// NewAPIModelError reports a non-2xx or malformed response from the LLM
// endpoint.
func NewAPIModelError(msg, cause, fix string, err error) *UserError {
	return newUserError(CategoryAPIModel, msg, cause, fix, err)
}

// NewQueryError reports a vector similarity or graph read returning an
// unexpected shape.
func NewQueryError(msg, cause, fix string, err error) *UserError {
	return newUserError(CategoryQuery, msg, cause, fix, err)
}

// NewConfigError reports a missing or invalid required setting. Fatal at
// initialization.
func NewConfigError(msg, cause, fix string, err error) *UserError {
	return newUserError(CategoryConfiguration, msg, cause, fix, err)
}

// NewServiceError wraps a composite failure in the QA or call-graph service,
// typically wrapping one of the other categories.
func NewServiceError(msg, cause, fix string, err error) *UserError {
	return newUserError(CategoryService, msg, cause, fix, err)
}

// Color definitions for error formatting.
var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format returns a formatted error message for terminal display.
//
// Color output respects the NO_COLOR environment variable and can be
// explicitly disabled with the noColor parameter. Empty Cause or Fix fields
// are omitted.
func (e *UserError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprintf("Error [%s]: ", e.Category))
	out.WriteString(e.Message)
	out.WriteString("\n")

	if e.Cause != "" {
		out.WriteString(colorCause.Sprint("Cause: "))
		out.WriteString(e.Cause)
		out.WriteString("\n")
	}

	if e.Fix != "" {
		out.WriteString(colorFix.Sprint("Fix:   "))
		out.WriteString(e.Fix)
		out.WriteString("\n")
	}

	return out.String()
}

// ErrorJSON represents error information in JSON format.
type ErrorJSON struct {
	Error        string `json:"error"`
	Cause        string `json:"cause,omitempty"`
	Fix          string `json:"fix,omitempty"`
	Category     string `json:"category"`
	CategoryCode int    `json:"category_code"`
	ExitCode     int    `json:"exit_code"`
}

// ToJSON converts the UserError to a JSON-serializable structure. ExitCode in
// the payload is always the CLI-visible code (1), not the category code.
func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{
		Error:        e.Message,
		Cause:        e.Cause,
		Fix:          e.Fix,
		Category:     string(e.Category),
		CategoryCode: e.CategoryCode(),
		ExitCode:     ExitFatal,
	}
}

// FatalError prints the error and exits with the CLI's exit-code contract:
// 0 is never passed here, 130 if err represents user interruption
// (context.Canceled or an equivalent signal-driven cancellation), 1 otherwise.
//
// This function never returns.
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}

	exitCode := ExitFatal
	if errors.Is(err, context.Canceled) {
		exitCode = ExitInterrupted
	}

	if ue, ok := err.(*UserError); ok {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			_ = enc.Encode(ue.ToJSON())
		} else {
			fmt.Fprint(os.Stderr, ue.Format(false))
		}
		os.Exit(exitCode)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(exitCode)
}
