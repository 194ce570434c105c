// Package config loads typed configuration structs from environment
// variables (with optional .env file support for local development).
// Each component declares its own Config struct with `env` tags and loads
// it independently, keeping configuration close to the code that uses it.
package config
