package config

import "errors"

// Sentinel errors returned by config validation. Each names the section of
// [StructuredConfig] whose final merged value violates an invariant.
var (
	ErrInvalidStorageConfigs     = errors.New("invalid storage configs: database DSN is required")
	ErrInvalidAuthConfigs        = errors.New("invalid auth configs: token sign key and positive token duration are required")
	ErrInvalidRecognitionConfigs = errors.New("invalid recognition configs: dimension must be positive, metric must be cosine, thresholds must be in (0, 1]")
	ErrInvalidAttendanceConfigs  = errors.New("invalid attendance configs: max shift duration must be positive")
	ErrInvalidServerConfigs      = errors.New("invalid server configs: HTTP address is required")
)
