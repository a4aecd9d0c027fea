// Package config loads env-tagged structs with github.com/caarlos0/env/v11.
//
// Load reads an optional .env file once (github.com/joho/godotenv), parses the
// process environment into the target struct and caches the result per type,
// so every package can call Load for its own Config without re-parsing.
// Structs implementing Validator are checked after parsing. LoadFrom parses an
// explicit variable map without touching the cache.
package config
