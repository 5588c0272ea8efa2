package config_lib

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Uploader returns the multipart uploader used to archive exports.
func NewS3Uploader(ctx context.Context, region string) (*manager.Uploader, error) {
	cfg, err := LoadAWSConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	return manager.NewUploader(s3.NewFromConfig(cfg)), nil
}
