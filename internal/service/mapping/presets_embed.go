package mapping

import _ "embed"

// embeddedPresets contains the curated mapping presets shipped with the
// binary. Callers can layer additional platforms via LoadPresets.
//
//go:embed presets.yaml
var embeddedPresets []byte
