// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package registry implements the member registry: signup ordinal
assignment, tier derivation, identity lookups, and authentication.

# Signup Ordinals

The Nth successful registration receives ordinal N, gapless and unique,
even under concurrent signups. Register computes COUNT+1 inside a
transaction, but the guarantee comes from the UNIQUE constraints on
member.email and member.signup_ordinal: the loser of a race is rejected
by the store and retries with a recomputed ordinal. A plain
read-count-then-insert without the constraint backstop would be racy
and is deliberately not how this works.

# Tiers

Tier is a pure function of the ordinal:

	ordinal 1..13  → Founding ("First Flame")
	ordinal 14..33 → Circle ("Inner Flame")
	ordinal 34..83 → Keeper ("Keeper Flame")
	ordinal 84..   → Member ("Community")

Thresholds live in TierThresholds; the ordinal/tier pair is immutable
after registration.

# Credentials

The registry never stores or compares plaintext secrets. It forwards
them to a CredentialStore collaborator (see the auth package) and
stores only the opaque proof.

# Errors

Callers distinguish outcomes with errors.Is against the package
sentinels: ErrInvalidInput, ErrDuplicateEmail, ErrNotFound,
ErrCredentialMismatch, and ErrConflict (transient, retry).
*/
package registry
