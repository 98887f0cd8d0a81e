package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Auth struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		SessionTTL    Duration `json:"session_ttl"`
	} `json:"auth,omitempty"`

	Recognition struct {
		Dimension          int     `json:"dimension"`
		Metric             string  `json:"metric"`
		Threshold          float64 `json:"threshold"`
		DuplicateThreshold float64 `json:"duplicate_threshold"`
	} `json:"recognition,omitempty"`

	Attendance struct {
		DefaultArea      string   `json:"default_area"`
		MaxShiftDuration Duration `json:"max_shift_duration"`
		SweepAt          string   `json:"sweep_at"`
	} `json:"attendance,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Auth: Auth{
			TokenSignKey:  jsonCfg.Auth.TokenSignKey,
			TokenIssuer:   jsonCfg.Auth.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.Auth.TokenDuration),
			SessionTTL:    time.Duration(jsonCfg.Auth.SessionTTL),
		},
		Recognition: Recognition{
			Dimension:          jsonCfg.Recognition.Dimension,
			Metric:             jsonCfg.Recognition.Metric,
			Threshold:          jsonCfg.Recognition.Threshold,
			DuplicateThreshold: jsonCfg.Recognition.DuplicateThreshold,
		},
		Attendance: Attendance{
			DefaultArea:      jsonCfg.Attendance.DefaultArea,
			MaxShiftDuration: time.Duration(jsonCfg.Attendance.MaxShiftDuration),
			SweepAt:          jsonCfg.Attendance.SweepAt,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
