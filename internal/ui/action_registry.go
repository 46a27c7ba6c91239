// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package ui

import (
	"slices"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/gridbind/gridbind/internal/grid"
)

// Action scopes.
const (
	// ScopeAny actions apply to every grid.
	ScopeAny = "*"

	// ScopeEdit actions apply to writable grids only.
	ScopeEdit = "edit"
)

// GridAction represents an action performed on the current cell of a grid.
type GridAction struct {
	Key         tcell.Key // Key binding
	Name        string    // Display name
	Description string    // Short description
	Dangerous   bool      // Requires confirmation
	Handler     func(g *grid.DataGrid, col int) error
}

var (
	actionRegistry = map[string][]GridAction{}
	registryMx     sync.RWMutex
)

// RegisterActions registers actions under a scope.
func RegisterActions(scope string, actions []GridAction) {
	registryMx.Lock()
	defer registryMx.Unlock()

	actionRegistry[scope] = append(actionRegistry[scope], actions...)
}

// GetActions returns the actions available on a grid.
func GetActions(g *grid.DataGrid) []GridAction {
	registryMx.RLock()
	defer registryMx.RUnlock()

	aa := slices.Clone(actionRegistry[ScopeAny])
	if g != nil && !g.ReadOnly() {
		aa = append(aa, actionRegistry[ScopeEdit]...)
	}

	return aa
}

// GetAction returns the action bound to a key on a grid.
func GetAction(g *grid.DataGrid, key tcell.Key) *GridAction {
	actions := GetActions(g)
	for i := range actions {
		if actions[i].Key == key {
			return &actions[i]
		}
	}
	return nil
}
