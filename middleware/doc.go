// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package middleware provides request logging, CORS, cache-control and
// JSON request/response helpers shared by all handlers.
package middleware
