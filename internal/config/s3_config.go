package config

import (
	"context"
	"fmt"

	"github.com/care-services/api-bi/internal/config_lib"
)

// S3ConfigService returns nil when no export bucket is configured.
func S3ConfigService(ctx context.Context, s3 S3Config, region string) (*UploadService, error) {
	if !s3.Enabled() {
		return nil, nil
	}
	if s3.Region != "" {
		region = s3.Region
	}

	uploader, err := config_lib.NewS3Uploader(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("error creando cliente S3: %w", err)
	}

	return &UploadService{
		Uploader: uploader,
		Bucket:   s3.Bucket,
		Prefix:   s3.Prefix,
	}, nil
}
