// Package config loads the clipfix configuration file.
//
// The file is YAML (or JSON) and is validated against an embedded JSON
// schema before it is decoded. Two layouts are accepted: a versioned
// Configuration object, and a bare sequence of recipes.
package config
