package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
	"github.com/care-services/api-bi/internal/config_lib"
)

type secretSource interface {
	GetSecretString(ctx context.Context, secretID string, versionStage string) (string, error)
}

var newSecretSource = func(ctx context.Context, region string) (secretSource, error) {
	return config_lib.New(ctx, region)
}

// LoadSecretManager overlays the JSON secret identified by cfg.SecretID.
func LoadSecretManager(ctx context.Context, cfg *Config) error {
	sm, err := newSecretSource(ctx, cfg.Region)
	if err != nil {
		return fmt.Errorf("crear secrets manager: %w", err)
	}

	raw, err := sm.GetSecretString(ctx, cfg.SecretID, config_lib.DefaultVersionStage)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("obtener secreto %s (%s): %w", cfg.SecretID, apiErr.ErrorCode(), err)
		}
		return fmt.Errorf("obtener secreto %s: %w", cfg.SecretID, err)
	}
	if raw == "" {
		return fmt.Errorf("secreto %s vacío", cfg.SecretID)
	}

	var secret SecretApp
	if err := json.Unmarshal([]byte(raw), &secret); err != nil {
		return fmt.Errorf("parsear secreto JSON: %w", err)
	}
	secret.apply(cfg)
	return nil
}
