// Package config loads engine.Options from a .env-style file via godotenv,
// the way cmd/agsh's main loads its process environment before constructing
// its roles. The core engine package never touches the filesystem or
// environment itself; only this package and cmd/propflow do.
package config
