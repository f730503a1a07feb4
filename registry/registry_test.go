// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/truthbtold/hub/testutil"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return New(testutil.SetupTestDB(t), testutil.TestCredentials)
}

func TestRegister(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	member, err := reg.Register(ctx, "Alice", "Alice@X.com", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if member.SignupOrdinal != 1 {
		t.Errorf("ordinal = %d, want 1", member.SignupOrdinal)
	}
	if member.Tier.Name != "Founding" {
		t.Errorf("tier = %q, want Founding", member.Tier.Name)
	}
	if member.Email != "alice@x.com" {
		t.Errorf("email = %q, want normalized lowercase", member.Email)
	}
	if member.ID == "" || member.JoinedAt.IsZero() {
		t.Error("member missing id or joined_at")
	}

	// Second and third registrations get the next ordinals
	bob, err := reg.Register(ctx, "Bob", "bob@x.com", "hunter22")
	if err != nil {
		t.Fatalf("Register(bob) error = %v", err)
	}
	carol, err := reg.Register(ctx, "Carol", "carol@x.com", "hunter22")
	if err != nil {
		t.Fatalf("Register(carol) error = %v", err)
	}
	if bob.SignupOrdinal != 2 || carol.SignupOrdinal != 3 {
		t.Errorf("ordinals = %d, %d, want 2, 3", bob.SignupOrdinal, carol.SignupOrdinal)
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		displayName string
		email       string
		password    string
	}{
		{"empty name", "", "a@x.com", "pw"},
		{"whitespace name", "   ", "a@x.com", "pw"},
		{"no at sign", "A", "ax.com", "pw"},
		{"no domain dot", "A", "a@xcom", "pw"},
		{"spaces in email", "A", "a b@x.com", "pw"},
		{"empty password", "A", "a@x.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Register(ctx, tt.displayName, tt.email, tt.password)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Register() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	if _, err := reg.Register(ctx, "Alice", "a@x.com", "pw1"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	// Same address, different case
	_, err := reg.Register(ctx, "Impostor", "A@X.com", "pw2")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Register() error = %v, want ErrDuplicateEmail", err)
	}

	// The failed attempt must not have consumed an ordinal
	bob, err := reg.Register(ctx, "Bob", "b@x.com", "pw3")
	if err != nil {
		t.Fatalf("Register(bob) error = %v", err)
	}
	if bob.SignupOrdinal != 2 {
		t.Errorf("ordinal after duplicate = %d, want 2 (no gap)", bob.SignupOrdinal)
	}
}

func TestAuthenticate(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	registered, err := reg.Register(ctx, "Alice", "alice@x.com", "correct-horse")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		member, err := reg.Authenticate(ctx, "ALICE@x.com", "correct-horse")
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		if member.ID != registered.ID {
			t.Errorf("authenticated wrong member: %s", member.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := reg.Authenticate(ctx, "alice@x.com", "wrong")
		if !errors.Is(err, ErrCredentialMismatch) {
			t.Errorf("Authenticate() error = %v, want ErrCredentialMismatch", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		// Indistinguishable from a wrong password
		_, err := reg.Authenticate(ctx, "nobody@x.com", "pw")
		if !errors.Is(err, ErrCredentialMismatch) {
			t.Errorf("Authenticate() error = %v, want ErrCredentialMismatch", err)
		}
	})
}

func TestFindByID(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	registered, _ := reg.Register(ctx, "Alice", "alice@x.com", "pw")

	found, err := reg.FindByID(ctx, registered.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.DisplayName != "Alice" || found.SignupOrdinal != 1 {
		t.Errorf("FindByID() = %+v", found)
	}

	if _, err := reg.FindByID(ctx, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestListAll_OrderedByOrdinal(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	names := []string{"Alice", "Bob", "Carol", "Dave"}
	for i, name := range names {
		if _, err := reg.Register(ctx, name, fmt.Sprintf("m%d@x.com", i), "pw"); err != nil {
			t.Fatalf("Register(%s) error = %v", name, err)
		}
	}

	members, err := reg.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(members) != len(names) {
		t.Fatalf("ListAll() returned %d members, want %d", len(members), len(names))
	}
	for i, m := range members {
		if m.SignupOrdinal != i+1 {
			t.Errorf("position %d has ordinal %d", i, m.SignupOrdinal)
		}
		if m.DisplayName != names[i] {
			t.Errorf("position %d = %q, want %q", i, m.DisplayName, names[i])
		}
	}
}

func TestUpdateDisplayName(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	registered, _ := reg.Register(ctx, "Alice", "alice@x.com", "pw")

	if err := reg.UpdateDisplayName(ctx, registered.ID, "Alicia"); err != nil {
		t.Fatalf("UpdateDisplayName() error = %v", err)
	}

	updated, _ := reg.FindByID(ctx, registered.ID)
	if updated.DisplayName != "Alicia" {
		t.Errorf("display name = %q, want Alicia", updated.DisplayName)
	}
	// Ordinal and tier are immutable
	if updated.SignupOrdinal != registered.SignupOrdinal || updated.Tier != registered.Tier {
		t.Error("ordinal or tier changed on profile update")
	}

	if err := reg.UpdateDisplayName(ctx, registered.ID, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("UpdateDisplayName(blank) error = %v, want ErrInvalidInput", err)
	}
	if err := reg.UpdateDisplayName(ctx, "no-such-id", "X"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateDisplayName(missing) error = %v, want ErrNotFound", err)
	}
}

func TestUpdateCredential(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	registered, _ := reg.Register(ctx, "Alice", "alice@x.com", "old-pw")

	if err := reg.UpdateCredential(ctx, registered.ID, "wrong", "new-pw"); !errors.Is(err, ErrCredentialMismatch) {
		t.Errorf("UpdateCredential(wrong current) error = %v, want ErrCredentialMismatch", err)
	}

	if err := reg.UpdateCredential(ctx, registered.ID, "old-pw", "new-pw"); err != nil {
		t.Fatalf("UpdateCredential() error = %v", err)
	}

	if _, err := reg.Authenticate(ctx, "alice@x.com", "old-pw"); !errors.Is(err, ErrCredentialMismatch) {
		t.Error("old password still accepted after change")
	}
	if _, err := reg.Authenticate(ctx, "alice@x.com", "new-pw"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

// TestConcurrentRegisters verifies the critical ordinal invariant: N
// concurrent successful registrations receive exactly the ordinals
// {1..N}, no gaps, no duplicates.
func TestConcurrentRegisters(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	numSignups := 12
	var wg sync.WaitGroup
	var failures atomic.Int32

	for i := 0; i < numSignups; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := reg.Register(ctx, fmt.Sprintf("Member%d", n), fmt.Sprintf("m%d@x.com", n), "pw")
			if err != nil {
				failures.Add(1)
				t.Errorf("Register(%d) error = %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	if failures.Load() != 0 {
		t.Fatalf("%d registrations failed", failures.Load())
	}

	members, err := reg.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(members) != numSignups {
		t.Fatalf("got %d members, want %d", len(members), numSignups)
	}

	seen := make(map[int]bool)
	for _, m := range members {
		if seen[m.SignupOrdinal] {
			t.Errorf("duplicate ordinal %d", m.SignupOrdinal)
		}
		seen[m.SignupOrdinal] = true
	}
	for n := 1; n <= numSignups; n++ {
		if !seen[n] {
			t.Errorf("missing ordinal %d", n)
		}
	}
}

// TestConcurrentDuplicateEmail verifies that racing signups on the
// same normalized email produce exactly one member.
func TestConcurrentDuplicateEmail(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	attempts := 6
	var wg sync.WaitGroup
	var successes, duplicates atomic.Int32

	emails := []string{"race@x.com", "Race@X.com", "RACE@x.com"}
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := reg.Register(ctx, "Racer", emails[n%len(emails)], "pw")
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrDuplicateEmail):
				duplicates.Add(1)
			default:
				t.Errorf("Register() unexpected error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if successes.Load() != 1 {
		t.Errorf("successes = %d, want exactly 1", successes.Load())
	}
	if duplicates.Load() != int32(attempts-1) {
		t.Errorf("duplicates = %d, want %d", duplicates.Load(), attempts-1)
	}

	members, _ := reg.ListAll(ctx)
	if len(members) != 1 {
		t.Errorf("member count = %d, want 1", len(members))
	}
}
