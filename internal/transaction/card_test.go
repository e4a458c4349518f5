package transaction

import "testing"

func TestValidCardNumber(t *testing.T) {
	valid := []string{
		"4242424242424242",
		"4242 4242 4242 4242",
		"4111-1111-1111-1111",
		"5555555555554444",
	}
	for _, number := range valid {
		if !validCardNumber(number) {
			t.Errorf("expected %q to be valid", number)
		}
	}

	invalid := []string{
		"",
		"4242",
		"4242424242424243", // fails Luhn
		"42424242424242ab",
		"42424242424242424242", // too long
	}
	for _, number := range invalid {
		if validCardNumber(number) {
			t.Errorf("expected %q to be invalid", number)
		}
	}
}

func TestLastFour(t *testing.T) {
	if got := lastFour("4242 4242 4242 4242"); got != "4242" {
		t.Fatalf("expected 4242, got %q", got)
	}
	if got := lastFour("5555555555554444"); got != "4444" {
		t.Fatalf("expected 4444, got %q", got)
	}
}

func TestValidExpiry(t *testing.T) {
	for _, ok := range []string{"01/26", "12/30", "09/27"} {
		if !validExpiry(ok) {
			t.Errorf("expected %q to be valid", ok)
		}
	}
	for _, bad := range []string{"13/26", "1/26", "09/2027", "0927", ""} {
		if validExpiry(bad) {
			t.Errorf("expected %q to be invalid", bad)
		}
	}
}
