package config

import "time"

// Reference behavior for the matcher was tuned with cosine similarity at
// 0.6 on a [0,1]-normalized scale; the two values must change together.
const (
	defaultMetric             = "cosine"
	defaultThreshold          = 0.6
	defaultDuplicateThreshold = 0.6
	defaultDimension          = 128

	defaultTokenIssuer   = "control-ingreso"
	defaultTokenDuration = 12 * time.Hour
	defaultSessionTTL    = 10 * time.Minute

	defaultArea             = "planta"
	defaultMaxShiftDuration = 12 * time.Hour
	defaultSweepAt          = "03:00"

	defaultHTTPAddress    = "localhost:8080"
	defaultRequestTimeout = 30 * time.Second
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Auth: Auth{
			TokenIssuer:   defaultTokenIssuer,
			TokenDuration: defaultTokenDuration,
			SessionTTL:    defaultSessionTTL,
		},
		Recognition: Recognition{
			Dimension:          defaultDimension,
			Metric:             defaultMetric,
			Threshold:          defaultThreshold,
			DuplicateThreshold: defaultDuplicateThreshold,
		},
		Attendance: Attendance{
			DefaultArea:      defaultArea,
			MaxShiftDuration: defaultMaxShiftDuration,
			SweepAt:          defaultSweepAt,
		},
		Server: Server{
			HTTPAddress:    defaultHTTPAddress,
			RequestTimeout: defaultRequestTimeout,
		},
	}
}
