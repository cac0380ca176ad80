package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/byronwade/fieldmigrate/internal/config"
	"github.com/byronwade/fieldmigrate/internal/domain"
)

// S3Reader streams export files from S3-compatible object storage. It uses
// the AWS SDK v2 with path-style addressing so non-AWS providers work.
type S3Reader struct {
	client *s3.Client
}

// NewS3Reader builds a reader from the optional S3 config block.
func NewS3Reader(cfg *config.Config) (*S3Reader, error) {
	if !cfg.HasS3Config() {
		return nil, domain.ErrValidation("S3 source requested but S3 is not configured")
	}

	opts := s3.Options{
		Region: *cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			*cfg.S3KeyID, *cfg.S3Secret, "",
		),
		UsePathStyle: true,
	}
	if cfg.S3Endpoint != nil {
		opts.BaseEndpoint = aws.String(fmt.Sprintf("https://%s", *cfg.S3Endpoint))
	}

	return &S3Reader{client: s3.New(opts)}, nil
}

// Open fetches an object by its s3:// URI.
func (r *S3Reader) Open(ctx context.Context, s3Path string) (io.ReadCloser, error) {
	bucket, key, err := parseS3Path(s3Path)
	if err != nil {
		return nil, err
	}
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", s3Path, err)
	}
	return out.Body, nil
}

// Opener returns an Opener that routes s3:// references through this reader
// and everything else to the local filesystem. A nil receiver routes
// everything locally, so callers can pass it through unconditionally.
func (r *S3Reader) Opener() Opener {
	return func(ctx context.Context, path string) (io.ReadCloser, error) {
		if strings.HasPrefix(path, "s3://") {
			if r == nil {
				return nil, domain.ErrValidation("S3 reference %q but S3 is not configured", path)
			}
			return r.Open(ctx, path)
		}
		return LocalOpener(ctx, path)
	}
}

// parseS3Path extracts bucket and key from an "s3://bucket/path/to/file" URI.
func parseS3Path(s3Path string) (bucket, key string, err error) {
	u, err := url.Parse(s3Path)
	if err != nil {
		return "", "", fmt.Errorf("parse S3 path %q: %w", s3Path, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("expected s3:// scheme, got %q in %q", u.Scheme, s3Path)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("empty key in S3 path %q", s3Path)
	}
	return bucket, key, nil
}
