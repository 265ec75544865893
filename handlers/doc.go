// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP request handlers.

Handlers are grouped by concern:

  - GlobalHandler: the shared rotation over psalms 1-150 and the
    dedication name registry
  - ChainHandler: chain creation, lookup, search, stats, and the ICS
    reminder download
  - ReadingHandler: the claim/complete state machine over a chain's
    171 units
  - StatsHandler: cross-chain aggregate counters (cached, degrade to
    zeros on storage failure)
  - TextHandler: catalog metadata and the external text provider proxy

Every handler follows the same shape: parse and validate input, call
the store, log failures with slog, respond through middleware.JSONResponse.
Participants are anonymous; the only identity is the caller-supplied
deviceId string, which is never echoed back in responses.
*/
package handlers
