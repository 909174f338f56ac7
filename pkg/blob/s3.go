/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	batcherrors "github.com/AMD-AGI/Primus-Batch/pkg/errors"
)

const (
	// uploadPartSize bounds memory per in-flight upload part.
	uploadPartSize = 16 * 1024 * 1024
)

// s3Store keeps blobs in a single bucket, one object per ref. Uploads stream
// through the SDK's multipart uploader so file size never hits memory.
type s3Store struct {
	bucket   string
	client   *s3.Client
	uploader *manager.Uploader
	timeout  time.Duration
}

func NewS3Store(ctx context.Context) (Store, error) {
	bucket := config.GetBlobS3Bucket()
	if bucket == "" {
		return nil, fmt.Errorf("the s3 bucket is empty")
	}
	ak, sk := config.GetBlobS3AccessKey(), config.GetBlobS3SecretKey()
	if ak == "" || sk == "" {
		return nil, fmt.Errorf("the s3 credentials are empty")
	}
	endpoint := config.GetBlobS3Endpoint()

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(config.GetBlobS3Region()),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(ak, sk, "")),
	)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = config.IsBlobS3PathStyle()
	})
	store := &s3Store{
		bucket: bucket,
		client: client,
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.PartSize = uploadPartSize
		}),
		timeout: time.Duration(config.GetBlobUploadTimeoutSecond()) * time.Second,
	}
	if _, err = client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return nil, fmt.Errorf("s3 bucket %s is not accessible: %w", bucket, err)
	}
	return store, nil
}

func (s *s3Store) Put(ctx context.Context, ref string, r io.Reader) error {
	if ref == "" {
		return batcherrors.NewValidationError("blob ref is empty")
	}
	ctx, cancel := withOptionalTimeout(ctx, s.timeout)
	defer cancel()
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
		Body:   r,
	})
	if err != nil {
		klog.ErrorS(err, "failed to upload blob", "ref", ref)
	}
	return err
}

func (s *s3Store) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	if ref == "" {
		return nil, batcherrors.NewValidationError("blob ref is empty")
	}
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, batcherrors.NewNotFound(fmt.Sprintf("blob %s", ref))
		}
		return nil, err
	}
	return resp.Body, nil
}

func (s *s3Store) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return batcherrors.NewValidationError("blob ref is empty")
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		klog.ErrorS(err, "failed to delete blob", "ref", ref)
	}
	return err
}

func withOptionalTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return parent, func() {}
	}
	return context.WithTimeout(parent, timeout)
}
