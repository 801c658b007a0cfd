package env

import "github.com/thatsimonsguy/vent-panel/internal/config"

// Cfg is the loaded configuration, set once by main before anything reads it.
var Cfg *config.Config
