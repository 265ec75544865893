// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package router defines the HTTP route table using Go 1.22+ method
// and path patterns, and wires the store, analytics sink, stats cache,
// and text provider into the handlers.
package router
