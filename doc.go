// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Tehillim chain API server.

The service coordinates collective recitation of the Book of Psalms:
a single global rotation shared by all participants, and any number of
named chains where anonymous devices claim, read, and complete psalms
until the whole book is finished and the chain starts over.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 3446 -d "postgres://..." -t postgres

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string

Optional settings:

  - PORT (-p): Server port (default: 3446)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - TEXT_API_BASE_URL (-text-api): psalm text provider base URL
    (default: the public Sefaria API)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (rotation, chains, readings, stats, text)
  - router: Route definitions using Go 1.22+ routing
  - store: Persistence for names, the rotation cursor, chains, readings
  - tehillim: Static catalog of the 171 addressable psalm units
  - sefaria: External text provider client
  - analytics: Completion event sink
  - cache: TTL cache for cross-chain statistics
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - ident: Row ID and chain slug generation
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
