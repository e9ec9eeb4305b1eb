// Package config holds all configuration for clutchscan.
//
// Configuration comes from three layers, later layers overriding earlier
// ones: built-in defaults, an optional YAML configuration file, and
// CLUTCHSCAN_* environment variables. CLI flags are applied last by the
// cmd package. The resolved Config is validated once at startup and then
// passed through the application by value injection rather than global
// state.
//
// The package also carries the built-in table of Development directory
// subcategories and the Targets include/skip filter applied to it.
package config
