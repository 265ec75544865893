// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sefaria is the client for the external psalm text provider.
// Psalm text is fetched per request and never persisted; upstream
// failures degrade to a static fallback line instead of an error.
package sefaria
