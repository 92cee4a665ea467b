package enums

// ShoppingListState tracks a shopping-list resolution run.
type ShoppingListState string

const (
	ShoppingListPending   ShoppingListState = "pending"
	ShoppingListParsed    ShoppingListState = "parsed"
	ShoppingListResolving ShoppingListState = "resolving"
	ShoppingListMerged    ShoppingListState = "merged"
	ShoppingListFailed    ShoppingListState = "failed"
)

var shoppingListTransitions = map[ShoppingListState][]ShoppingListState{
	ShoppingListPending:   {ShoppingListParsed, ShoppingListFailed},
	ShoppingListParsed:    {ShoppingListResolving},
	ShoppingListResolving: {ShoppingListMerged, ShoppingListFailed},
}

// String implements fmt.Stringer.
func (s ShoppingListState) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are allowed.
func (s ShoppingListState) IsTerminal() bool {
	return s == ShoppingListMerged || s == ShoppingListFailed
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s ShoppingListState) CanTransitionTo(next ShoppingListState) bool {
	for _, candidate := range shoppingListTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}
