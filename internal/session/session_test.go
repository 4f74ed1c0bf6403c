package session

import "testing"

// TestAuthenticate_Success verifies successful authentication.
func TestAuthenticate_Success(t *testing.T) {
	s := New("secret")
	if !s.Authenticate("secret") {
		t.Fatalf("expected authentication to succeed")
	}
	if !s.IsAuthenticated() {
		t.Fatalf("expected authenticated state")
	}
}

// TestAuthenticate_Fail verifies failed authentication.
func TestAuthenticate_Fail(t *testing.T) {
	s := New("secret")
	if s.Authenticate("nope") {
		t.Fatalf("expected authentication to fail")
	}
	if s.IsAuthenticated() {
		t.Fatalf("expected unauthenticated state")
	}
}

// TestLogout verifies logout clears auth state.
func TestLogout(t *testing.T) {
	s := New("secret")
	s.Authenticate("secret")
	s.Logout()
	if s.IsAuthenticated() {
		t.Fatalf("expected unauthenticated state")
	}
}

// TestPasswordModeDisabled verifies an empty password authenticates everyone.
func TestPasswordModeDisabled(t *testing.T) {
	s := New("")
	if !s.IsAuthenticated() {
		t.Fatalf("expected open session")
	}
	if !s.Authenticate("anything") {
		t.Fatalf("expected any password accepted")
	}
}

// TestSnapshot verifies snapshot content.
func TestSnapshot(t *testing.T) {
	s := New("secret")
	s.Authenticate("secret")
	snap := s.Snapshot()
	if !snap.Authenticated || !snap.PasswordMode {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
