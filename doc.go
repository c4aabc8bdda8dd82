// Package backend provides the AnimeChat API server.

// This package contains the main application entry point. The actual API
// documentation is organized into subpackages:

// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/models: Data models and database schemas
// - internal/auth: Authentication and authorization services
// - internal/jikan: Jikan (MyAnimeList) catalog client with bounded retry
// - internal/chat: Query normalization and fuzzy title resolution
// - internal/recommend: Preference profiles, candidate fetching and ranking
// - internal/database: Database connection and migrations
// - internal/cache: Redis cache for the trending feed
// - internal/middleware: HTTP middleware (logging, metrics)
// - internal/seed: Development data seeding
// - internal/kernel: Dependency wiring and shutdown ordering

// See the individual package documentation for detailed API reference.
package backend
