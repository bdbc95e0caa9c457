package settings

import "errors"

// ErrInvalidSetting is returned when a setting name cannot be parsed
var ErrInvalidSetting = errors.New("invalid setting")
