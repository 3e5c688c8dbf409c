// Package configs embeds the configuration template written by
// `pulse config init`.
//
// Configuration hierarchy (see internal/config Load):
//  1. Hardcoded defaults
//  2. User config (~/.config/pulse/config.yaml)
//  3. Project config (.pulse.yaml)
//  4. Environment variables (PULSE_*)
//  5. Command-line flags
package configs

import _ "embed"

// ConfigTemplate is the commented .pulse.yaml template.
//
//go:embed pulse.example.yaml
var ConfigTemplate string
