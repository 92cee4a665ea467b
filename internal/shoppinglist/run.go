package shoppinglist

import (
	"fmt"

	"github.com/angelmondragon/pricepal-backend/pkg/enums"
)

// run tracks one resolution through pending, parsed, resolving and merged.
type run struct {
	state enums.ShoppingListState
}

func newRun() *run {
	return &run{state: enums.ShoppingListPending}
}

func (r *run) advance(next enums.ShoppingListState) error {
	if r.state.IsTerminal() {
		return fmt.Errorf("shopping list: run already %s", r.state)
	}
	if !r.state.CanTransitionTo(next) {
		return fmt.Errorf("shopping list: invalid transition %s -> %s", r.state, next)
	}
	r.state = next
	return nil
}

// fail moves the run to failed when reachable; it leaves terminal states alone.
func (r *run) fail() {
	if r.state.CanTransitionTo(enums.ShoppingListFailed) {
		r.state = enums.ShoppingListFailed
	}
}
