// Package config provides configuration loading, merging, and validation
// facilities for the sync host and its client.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry points are [GetStructuredConfig] for the host and
// [GetClientConfig] for syncctl.
package config
