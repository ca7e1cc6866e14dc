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

package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestBackend(t *testing.T) {
	backend := SetupTestBackend(t)
	require.NotNil(t, backend)

	result := QueryFunctions(t, backend, "demo")
	require.NotNil(t, result)
	assert.Empty(t, result.Rows, "should start with no functions")
}

func TestInsertTestFunction(t *testing.T) {
	backend := SetupTestBackend(t)

	InsertTestFunction(t, backend, "demo", "HandleAuth", "auth.c", 10, 25)

	result := QueryFunctions(t, backend, "demo")
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "HandleAuth", result.Rows[0][0])
	assert.Equal(t, "auth.c", result.Rows[0][1])
}

func TestInsertTestFile(t *testing.T) {
	backend := SetupTestBackend(t)

	InsertTestFile(t, backend, "demo", "auth.c", 1234)

	result := QueryFiles(t, backend, "demo")
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "auth.c", result.Rows[0][0])
}

func TestMultipleInserts(t *testing.T) {
	backend := SetupTestBackend(t)

	InsertTestFunction(t, backend, "demo", "main", "main.c", 5, 10)
	InsertTestFunction(t, backend, "demo", "helper", "util.c", 15, 20)
	InsertTestFunction(t, backend, "demo", "process", "processor.c", 25, 35)

	result := QueryFunctions(t, backend, "demo")
	require.Len(t, result.Rows, 3)
}

func TestInsertTestCalls(t *testing.T) {
	backend := SetupTestBackend(t)

	InsertTestFile(t, backend, "demo", "main.c", 100)
	InsertTestFunction(t, backend, "demo", "main", "main.c", 1, 10)
	InsertTestFunction(t, backend, "demo", "helper", "main.c", 12, 15)

	InsertTestCalls(t, backend, "demo", "main", "main.c", "helper", 5)
}

func TestBackendIsolation(t *testing.T) {
	backend1 := SetupTestBackend(t)
	InsertTestFunction(t, backend1, "demo", "Test1", "file1.c", 1, 10)

	backend2 := SetupTestBackend(t)
	result := QueryFunctions(t, backend2, "demo")
	assert.Empty(t, result.Rows, "second backend should be isolated from first")

	result1 := QueryFunctions(t, backend1, "demo")
	assert.Len(t, result1.Rows, 1)
}

func TestProjectIsolation(t *testing.T) {
	backend := SetupTestBackend(t)

	InsertTestFunction(t, backend, "proj_a", "Foo", "a.c", 1, 5)
	InsertTestFunction(t, backend, "proj_b", "Bar", "b.c", 1, 5)

	resultA := QueryFunctions(t, backend, "proj_a")
	require.Len(t, resultA.Rows, 1)
	assert.Equal(t, "Foo", resultA.Rows[0][0])

	resultB := QueryFunctions(t, backend, "proj_b")
	require.Len(t, resultB.Rows, 1)
	assert.Equal(t, "Bar", resultB.Rows[0][0])
}
