package publish

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the settings for publishing to a bucket.
type S3Config struct {
	// Bucket receives the site.
	Bucket string

	// Prefix is prepended to every object key.
	Prefix string

	// Region is the bucket region.
	Region string

	// Endpoint overrides the S3 endpoint, e.g. for
	// MinIO or LocalStack.
	Endpoint string

	// PathStyle addresses the bucket in the URL path.
	PathStyle bool

	// CacheControl is set on every object when not
	// empty.
	CacheControl string
}

// ObjectPutter stores one object. *s3.Client implements
// it.
type ObjectPutter interface {
	PutObject(
		ctx context.Context,
		params *s3.PutObjectInput,
		optFns ...func(*s3.Options),
	) (*s3.PutObjectOutput, error)
}

// NewS3Client returns a client for cfg. Credentials come
// from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and the
// optional AWS_SESSION_TOKEN.
func NewS3Client(cfg S3Config) *s3.Client {
	creds := aws.NewCredentialsCache(aws.CredentialsProviderFunc(
		func(context.Context) (aws.Credentials, error) {
			return envCredentials()
		},
	))

	return s3.New(s3.Options{
		Region:       cfg.Region,
		Credentials:  creds,
		UsePathStyle: cfg.PathStyle,
		BaseEndpoint: endpointOf(cfg.Endpoint),
	})
}

// envCredentials reads static credentials from the
// environment.
func envCredentials() (aws.Credentials, error) {
	const errCtx = "reading aws credentials"

	key := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")

	if key == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf(
			"%s: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set",
			errCtx,
		)
	}

	return aws.Credentials{
		AccessKeyID:     key,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}

func endpointOf(endpoint string) *string {
	if endpoint == "" {
		return nil
	}

	return aws.String(endpoint)
}

// PublishS3 uploads every file of dir under cfg.Prefix
// and returns the object keys in upload order.
func PublishS3(
	ctx context.Context,
	putter ObjectPutter,
	cfg S3Config,
	dir string,
) ([]string, error) {
	const errCtx = "publishing to s3"

	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%s: bucket must be set", errCtx)
	}

	if err := checkManifest(dir); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	files, err := listFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	keys := make([]string, 0, len(files))

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return keys, fmt.Errorf("%s: %w", errCtx, err)
		}

		key := path.Join(cfg.Prefix, rel)

		if err := putFile(
			ctx, putter, cfg, filepath.Join(dir, filepath.FromSlash(rel)), key,
		); err != nil {
			return keys, fmt.Errorf("%s: %w", errCtx, err)
		}

		keys = append(keys, key)
	}

	slog.Info(
		"published to s3",
		"bucket", cfg.Bucket,
		"prefix", cfg.Prefix,
		"count", len(keys),
	)

	return keys, nil
}

// putFile uploads one file as key.
func putFile(
	ctx context.Context,
	putter ObjectPutter,
	cfg S3Config,
	src string,
	key string,
) (retErr error) {
	const errCtx = "uploading object"

	fi, err := os.Open(src) //nolint:gosec // path from walked source dir
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := fi.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	in := &s3.PutObjectInput{
		Bucket:      aws.String(cfg.Bucket),
		Key:         aws.String(key),
		Body:        fi,
		ContentType: aws.String(contentType(key)),
	}

	if cfg.CacheControl != "" {
		in.CacheControl = aws.String(cfg.CacheControl)
	}

	if _, err := putter.PutObject(ctx, in); err != nil {
		return fmt.Errorf("%s: %s: %w", errCtx, key, err)
	}

	slog.Debug("uploaded object", "key", key)

	return nil
}

// contentType derives the MIME type from the extension of
// name, defaulting to application/octet-stream.
func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}

	return "application/octet-stream"
}
