// internal/source/s3.go
//
// S3-compatible object source (AWS, CEPH, MinIO, Hetzner).
//
// Notes
// -----
// • Path-style addressing, so custom endpoints work without wildcard DNS.
// • Empty access keys mean anonymous reads of a public bucket.

package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ambambokili/kili/internal/config"
)

// S3 reads one object with GetObject.
type S3 struct {
	client  *s3.Client
	bucket  string
	key     string
	timeout time.Duration
}

// NewS3 builds the client from config.  No network traffic happens here.
func NewS3(cfg config.S3, timeout time.Duration) *S3 {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(strings.TrimRight(cfg.Endpoint, "/"))
	}
	if cfg.AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		opts.Credentials = aws.AnonymousCredentials{}
	}

	return &S3{
		client:  s3.New(opts),
		bucket:  cfg.Bucket,
		key:     cfg.Key,
		timeout: timeout,
	}
}

func (s *S3) Name() string { return "s3://" + s.bucket + "/" + s.key }

func (s *S3) Fetch(ctx context.Context) ([]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := readDocument(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read body %s/%s: %w", s.bucket, s.key, err)
	}
	return data, nil
}
