// Package config provides configuration loading, merging, and validation
// for the serving process.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Built-in defaults ([Default])
//  2. JSON or YAML config file
//  3. Environment variables
//  4. Command-line flags
//
// [ServerConfig] is itself a cfgtree configuration node; its String method
// renders the indented text form that the server logs at startup and serves
// on /config.
package config
