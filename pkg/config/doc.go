// Package config loads FactorySettings from a YAML file, mirroring the small
// populated-then-validated Config structs used elsewhere in this module
// (log.Config, coordinator.Config).
package config
