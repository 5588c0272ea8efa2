// Package config_lib builds the AWS clients behind the service's connection
// secret and its export bucket.
package config_lib

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	sm "github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// DefaultVersionStage is read when no stage is given.
const DefaultVersionStage = "AWSCURRENT"

const secretTimeout = 5 * time.Second

// secretsAPI is the part of *secretsmanager.Client the Manager calls.
type secretsAPI interface {
	GetSecretValue(ctx context.Context, in *sm.GetSecretValueInput, optFns ...func(*sm.Options)) (*sm.GetSecretValueOutput, error)
}

// Manager reads the JSON secret holding the OLTP, OLAP, bucket and broker
// settings.
type Manager struct {
	client  secretsAPI
	timeout time.Duration
}

// LoadAWSConfig resolves credentials from the default chain, pinned to region
// when one is set.
func LoadAWSConfig(ctx context.Context, region string, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}
	loadOpts = append(loadOpts, optFns...)

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("no se pudo cargar config AWS: %w", err)
	}
	return cfg, nil
}

func New(ctx context.Context, region string, optFns ...func(*config.LoadOptions) error) (*Manager, error) {
	cfg, err := LoadAWSConfig(ctx, region, optFns...)
	if err != nil {
		return nil, err
	}
	return newManager(sm.NewFromConfig(cfg)), nil
}

func newManager(client secretsAPI) *Manager {
	return &Manager{client: client, timeout: secretTimeout}
}

// GetSecretString returns the payload of secretID at versionStage. A secret
// stored as binary comes back as its raw bytes, so the same JSON document
// decodes either way.
func (m *Manager) GetSecretString(ctx context.Context, secretID string, versionStage string) (string, error) {
	if secretID == "" {
		return "", errors.New("secret id vacío")
	}
	if versionStage == "" {
		versionStage = DefaultVersionStage
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	out, err := m.client.GetSecretValue(ctx, &sm.GetSecretValueInput{
		SecretId:     aws.String(secretID),
		VersionStage: aws.String(versionStage),
	})
	if err != nil {
		return "", err
	}
	if out.SecretString != nil {
		return aws.ToString(out.SecretString), nil
	}
	return string(out.SecretBinary), nil
}
