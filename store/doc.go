// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists the coordination state: dedication names, the
global rotation cursor, chains, and their reading logs.

All mutations that race between request handlers are written as atomic
conditional updates rather than read-then-write sequences:

  - the global cursor carries a version column; AdvanceProgress retries
    when a concurrent advance wins
  - an active claim is exclusive per (chain, psalm) via a partial
    unique index; StartReading surfaces the loss as ErrPsalmTaken
  - CompleteReading flips status inside a transaction guarded on
    status = 'reading', and rolls the chain's lap counter over with a
    compare-and-swap when the 171st unit of a lap completes

"Current lap" membership is tracked with a monotonic per-chain counter
stamped onto each reading row, so availability never requires scanning
the whole (append-only) log.
*/
package store
