// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package models defines the domain, request, and response types.
// JSON field names are camelCase; that wire contract predates this
// implementation and is relied on by shipped mobile clients.
package models
