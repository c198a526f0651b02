// Package aws archives CSV snapshots of sync runs in S3.
package aws

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/rs/zerolog/log"
)

const ExportPrefix = "exports/"

type Client struct {
	bucket   string
	region   string
	uploader *s3manager.Uploader
}

func NewClient(region, bucket string) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	log.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("AWS session created successfully")

	return &Client{
		bucket:   bucket,
		region:   region,
		uploader: s3manager.NewUploader(sess),
	}, nil
}

// ExportKey builds the object key of a run export, grouped by day.
func ExportKey(name string, at time.Time) string {
	return ExportPrefix + path.Join(at.UTC().Format("2006/01/02"), path.Base(name))
}

// UploadExport stores data as a CSV object under ExportPrefix and returns
// its URL.
func (c *Client) UploadExport(ctx context.Context, name string, data []byte) (string, error) {
	key := ExportKey(name, time.Now())

	log.Info().
		Str("bucket", c.bucket).
		Str("key", key).
		Int("content_size", len(data)).
		Msg("Starting S3 upload")

	result, err := c.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("bucket", c.bucket).
			Str("key", key).
			Msg("S3 upload failed")
		return "", fmt.Errorf("failed to upload export to S3: %w", err)
	}

	log.Info().
		Str("s3_location", result.Location).
		Str("key", key).
		Msg("Export uploaded to S3")

	return result.Location, nil
}
