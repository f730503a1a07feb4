// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voteround manages the single active voting round.

A round is an id, an ordered option list fixed at open time, and two
timestamps. State is derived, never stored:

	now < closesAt  → open
	now >= closesAt → closed

Every read recomputes state from the stored deadline, so there is no
timer goroutine, nothing to resynchronize after a restart, and any
number of concurrent readers agree with each other to within clock
skew.

Opening a round closes any prior open round by moving its deadline to
now. The prior round's ballots stay attached to the prior round id;
history is never erased by opening a new vote. CloseRoundNow ends the
open round early the same way and is idempotent.

The Manager's clock is the exported Now field, replaced in tests to
drive rounds past their deadline without sleeping.
*/
package voteround
