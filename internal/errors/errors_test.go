// Copyright 2026 Arclens
//
// SPDX-License-Identifier: AGPL-3.0-only

package errors

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserError_Error(t *testing.T) {
	withCause := &UserError{Message: "cannot open store", Err: fmt.Errorf("file locked")}
	assert.Equal(t, "cannot open store: file locked", withCause.Error())

	bare := &UserError{Message: "invalid input"}
	assert.Equal(t, "invalid input", bare.Error())
}

func TestUserError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("underlying")
	err := &UserError{Message: "x", Err: inner}
	assert.Equal(t, inner, err.Unwrap())

	bare := &UserError{Message: "x"}
	assert.Nil(t, bare.Unwrap())
}

func TestConstructors_SetCategory(t *testing.T) {
	underlying := fmt.Errorf("boom")
	cases := []struct {
		name string
		err  *UserError
		want Category
	}{
		{"parse", NewParseError("m", "c", "f", underlying), CategoryParse},
		{"storage-connection", NewStorageConnectionError("m", "c", "f", underlying), CategoryStorageConnection},
		{"storage-operation", NewStorageOperationError("m", "c", "f", underlying), CategoryStorageOperation},
		{"constraint", NewConstraintError("m", "c", "f", underlying), CategoryConstraint},
		{"model-load", NewModelLoadError("m", "c", "f", underlying), CategoryModelLoad},
		{"embedding", NewEmbeddingError("m", "c", "f", underlying), CategoryEmbedding},
		{"api-connection", NewAPIConnectionError("m", "c", "f", underlying), CategoryAPIConnection},
		{"api-model", NewAPIModelError("m", "c", "f", underlying), CategoryAPIModel},
		{"query", NewQueryError("m", "c", "f", underlying), CategoryQuery},
		{"configuration", NewConfigError("m", "c", "f", underlying), CategoryConfiguration},
		{"service", NewServiceError("m", "c", "f", underlying), CategoryService},
	}

	seen := map[int]bool{}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.err.Category)
			assert.Equal(t, "m", tt.err.Message)
			assert.ErrorIs(t, tt.err, underlying)
			assert.False(t, seen[tt.err.CategoryCode()], "category codes must be unique")
			seen[tt.err.CategoryCode()] = true
		})
	}
}

func TestUserError_Format(t *testing.T) {
	err := &UserError{Message: "cannot open store", Cause: "locked", Fix: "retry", Category: CategoryStorageOperation}
	out := err.Format(true)
	assert.Contains(t, out, "Error [storage-operation]: cannot open store")
	assert.Contains(t, out, "Cause: locked")
	assert.Contains(t, out, "Fix:   retry")
}

func TestUserError_Format_OmitsEmptyFields(t *testing.T) {
	err := &UserError{Message: "bad input", Category: CategoryQuery}
	out := err.Format(true)
	assert.NotContains(t, out, "Cause:")
	assert.NotContains(t, out, "Fix:")
}

func TestUserError_ToJSON(t *testing.T) {
	err := NewConfigError("missing setting", "no api key", "set CKB_LLM_API_KEY", nil)
	j := err.ToJSON()
	assert.Equal(t, "missing setting", j.Error)
	assert.Equal(t, "configuration", j.Category)
	assert.Equal(t, ExitFatal, j.ExitCode)
	assert.Greater(t, j.CategoryCode, 0)
}

func TestFatalError_InterruptionMapsTo130(t *testing.T) {
	// FatalError calls os.Exit, so we only test the classification logic it
	// relies on (errors.Is against context.Canceled), not the process exit.
	err := fmt.Errorf("wrapped: %w", context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserError_Chain(t *testing.T) {
	sentinel := fmt.Errorf("sentinel")
	wrapped := fmt.Errorf("wrap: %w", sentinel)
	userErr := NewStorageOperationError("op failed", "c", "f", wrapped)
	assert.ErrorIs(t, userErr, sentinel)
	assert.True(t, strings.Contains(userErr.Error(), "op failed"))
}
