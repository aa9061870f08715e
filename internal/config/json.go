package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for the JSON file source.
// Durations are accepted both as strings ("24h") and as raw nanoseconds.
type StructuredJSONConfig struct {
	Auth struct {
		TokenSignKey    string   `json:"token_sign_key"`
		TokenIssuer     string   `json:"token_issuer"`
		AccessTokenTTL  Duration `json:"access_token_ttl"`
		RefreshTokenTTL Duration `json:"refresh_token_ttl"`
		HashIterations  int      `json:"hash_iterations"`
	} `json:"auth,omitempty"`

	Lockout struct {
		Threshold int      `json:"threshold"`
		Duration  Duration `json:"duration"`
	} `json:"lockout,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Audit struct {
		WebhookURL     string   `json:"webhook_url"`
		BufferSize     int      `json:"buffer_size"`
		WebhookTimeout Duration `json:"webhook_timeout"`
	} `json:"audit,omitempty"`

	Production bool `json:"production"`
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
			TokenSignKey:    jsonCfg.Auth.TokenSignKey,
			TokenIssuer:     jsonCfg.Auth.TokenIssuer,
			AccessTokenTTL:  time.Duration(jsonCfg.Auth.AccessTokenTTL),
			RefreshTokenTTL: time.Duration(jsonCfg.Auth.RefreshTokenTTL),
			HashIterations:  jsonCfg.Auth.HashIterations,
		},
		Lockout: Lockout{
			Threshold: jsonCfg.Lockout.Threshold,
			Duration:  time.Duration(jsonCfg.Lockout.Duration),
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
		Audit: Audit{
			WebhookURL:     jsonCfg.Audit.WebhookURL,
			BufferSize:     jsonCfg.Audit.BufferSize,
			WebhookTimeout: time.Duration(jsonCfg.Audit.WebhookTimeout),
		},
		Production:   jsonCfg.Production,
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
