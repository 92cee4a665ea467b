package env

import "testing"

func TestGetFallsBack(t *testing.T) {
	t.Setenv("PRICEPAL_TEST_VALUE", "  ")
	if got := Get("PRICEPAL_TEST_VALUE", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}
	t.Setenv("PRICEPAL_TEST_VALUE", "console")
	if got := Get("PRICEPAL_TEST_VALUE", "json"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("PRICEPAL_TEST_FLAG", "true")
	if !GetBool("PRICEPAL_TEST_FLAG", false) {
		t.Fatalf("expected true")
	}
	t.Setenv("PRICEPAL_TEST_FLAG", "nope")
	if GetBool("PRICEPAL_TEST_FLAG", false) {
		t.Fatalf("malformed value should fall back")
	}
}
