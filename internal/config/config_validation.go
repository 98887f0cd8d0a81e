package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Auth.TokenSignKey == "" || cfg.Auth.TokenDuration <= 0 {
		return ErrInvalidAuthConfigs
	}

	if cfg.Recognition.Dimension <= 0 ||
		cfg.Recognition.Metric != "cosine" ||
		cfg.Recognition.Threshold <= 0 || cfg.Recognition.Threshold > 1 ||
		cfg.Recognition.DuplicateThreshold <= 0 || cfg.Recognition.DuplicateThreshold > 1 {
		return ErrInvalidRecognitionConfigs
	}

	if cfg.Attendance.MaxShiftDuration <= 0 {
		return ErrInvalidAttendanceConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}
