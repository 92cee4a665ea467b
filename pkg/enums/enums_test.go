package enums

import "testing"

func TestParseRole(t *testing.T) {
	role, err := ParseRole("branch_manager")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !role.IsTenantScoped() {
		t.Fatalf("branch managers should be tenant scoped")
	}
	if RoleCustomer.IsTenantScoped() {
		t.Fatalf("customers browse every tenant")
	}
	if _, err := ParseRole("owner"); err == nil {
		t.Fatalf("expected unknown role to fail")
	}
}

func TestParseUnitOfMeasurement(t *testing.T) {
	unit, err := ParseUnitOfMeasurement(" KG ")
	if err != nil || unit != UnitKilogram {
		t.Fatalf("expected kg, got %q err=%v", unit, err)
	}
	if _, err := ParseUnitOfMeasurement("bushel"); err == nil {
		t.Fatalf("expected unknown unit to fail")
	}
}

func TestShoppingListTransitions(t *testing.T) {
	path := []ShoppingListState{ShoppingListPending, ShoppingListParsed, ShoppingListResolving, ShoppingListMerged}
	for i := 0; i < len(path)-1; i++ {
		if !path[i].CanTransitionTo(path[i+1]) {
			t.Fatalf("expected %s -> %s to be allowed", path[i], path[i+1])
		}
	}
	if !ShoppingListPending.CanTransitionTo(ShoppingListFailed) {
		t.Fatalf("empty parse must be able to fail")
	}
	if ShoppingListMerged.CanTransitionTo(ShoppingListPending) {
		t.Fatalf("merged is terminal")
	}
	if !ShoppingListMerged.IsTerminal() || ShoppingListResolving.IsTerminal() {
		t.Fatalf("unexpected terminal states")
	}
}
