// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballot is the write-once ballot ledger.

CastBallot checks its preconditions in a fixed order - round open,
option valid, member known - and then inserts under the UNIQUE
(round_id, member_id) constraint. The constraint, not a prior read, is
what enforces at-most-one-ballot: two concurrent casts by the same
member yield exactly one accepted ballot and one ErrAlreadyVoted.

Tally groups counts by option label and zero-fills from the round's
option list, so a freshly opened round reports every option at zero.
Tallying never resolves member_id; ballots orphaned by an admin member
deletion still count.
*/
package ballot
