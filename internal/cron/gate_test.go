package cron

import "testing"

func TestGateAcceptsExactBearerSecret(t *testing.T) {
	gate := NewGate("s3cret")

	if !gate.IsAuthorized("Bearer s3cret") {
		t.Fatal("valid bearer token rejected")
	}
}

func TestGateRejectsBadInputs(t *testing.T) {
	gate := NewGate("s3cret")

	cases := []string{
		"",
		"s3cret",
		"Bearer ",
		"Bearer wrong",
		"Bearer s3cret ",
		"bearer s3cret",
		"Basic s3cret",
	}
	for _, header := range cases {
		if gate.IsAuthorized(header) {
			t.Fatalf("header %q accepted", header)
		}
	}
}

func TestGateWithEmptySecretRejectsEverything(t *testing.T) {
	gate := NewGate("")

	if gate.IsAuthorized("Bearer ") {
		t.Fatal("empty secret must not authorize")
	}
}
