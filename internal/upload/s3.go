// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

// Package upload stores account attachments (resumes, profile pictures) in
// an S3-compatible bucket.
package upload

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/hireheaven/hireheaven/internal/auth"
)

// Config configures the bucket and its client.
type Config struct {
	Endpoint       string
	Region         string
	Bucket         string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
	// PublicURL is the base URL objects are served from. Defaults to Endpoint/Bucket.
	PublicURL string
	// Prefix is prepended to every object key.
	Prefix string
}

// objectAPI is the subset of *s3.Client the uploader uses.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewClient builds an S3 client for cfg. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
		awsconfig.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, oops.Code("UPLOAD_CLIENT_FAILED").Wrap(err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// S3Uploader implements auth.Uploader.
type S3Uploader struct {
	api       objectAPI
	bucket    string
	prefix    string
	publicURL string
	logger    *slog.Logger
}

// NewS3Uploader creates an uploader writing to cfg.Bucket through api.
func NewS3Uploader(api objectAPI, cfg Config, logger *slog.Logger) *S3Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return &S3Uploader{
		api:       api,
		bucket:    cfg.Bucket,
		prefix:    strings.Trim(cfg.Prefix, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

// Upload stores file under a fresh key.
func (u *S3Uploader) Upload(ctx context.Context, file auth.Attachment) (auth.StoredFile, error) {
	if file.Empty() {
		return auth.StoredFile{}, oops.Code("UPLOAD_EMPTY").Errorf("attachment has no content")
	}

	key := u.objectKey(file.Filename)
	contentType := file.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(file.Content)
	}

	_, err := u.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file.Content),
		ContentLength: aws.Int64(int64(len(file.Content))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return auth.StoredFile{}, oops.Code("UPLOAD_PUT_FAILED").
			With("bucket", u.bucket).
			With("key", key).
			Wrap(err)
	}

	u.logger.DebugContext(ctx, "attachment stored", "bucket", u.bucket, "key", key)
	return auth.StoredFile{URL: u.publicURL + "/" + key, StorageID: key}, nil
}

// Delete removes the object stored under storageID.
func (u *S3Uploader) Delete(ctx context.Context, storageID string) error {
	if storageID == "" {
		return nil
	}
	_, err := u.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(storageID),
	})
	if err != nil {
		return oops.Code("UPLOAD_DELETE_FAILED").
			With("bucket", u.bucket).
			With("key", storageID).
			Wrap(err)
	}
	return nil
}

func (u *S3Uploader) objectKey(filename string) string {
	name := uuid.NewString() + strings.ToLower(path.Ext(filename))
	if u.prefix == "" {
		return name
	}
	return u.prefix + "/" + name
}

var _ auth.Uploader = (*S3Uploader)(nil)
