package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// uploader is the subset of *manager.Uploader used for archiving.
type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type ArchiveService interface {
	Archive(ctx context.Context, m Metric, body []byte) (string, error)
}

type s3Archive struct {
	uploader uploader
	bucket   string
	prefix   string
}

func NewS3Archive(u uploader, bucket, prefix string) ArchiveService {
	return &s3Archive{uploader: u, bucket: bucket, prefix: prefix}
}

// Archive uploads an export and returns its object key.
func (s *s3Archive) Archive(ctx context.Context, m Metric, body []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	key := buildObjectKey(ExportFilename(m), s.prefix)
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(ContentTypeXLSX),
	})
	if err != nil {
		return "", fmt.Errorf("error subiendo a S3: %w", err)
	}
	return key, nil
}

func buildObjectKey(filename, prefix string) string {
	ext := ".xlsx"
	base := strings.TrimSuffix(filename, ext)
	if base == "" {
		base = "export"
	}
	key := fmt.Sprintf("%s-%s%s", base, uuid.New().String(), ext)
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}
