// Package s3store keeps the snapshot in an S3-compatible bucket as a single
// object overwritten by name. Works against AWS S3 and MinIO-style stores
// with a custom endpoint.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/salehq/activityboard/pkg/models"
	"github.com/salehq/activityboard/pkg/remote"
)

type Config struct {
	Endpoint  string // empty for AWS proper
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string // defaults to remote.DocumentName
}

type Store struct {
	client *s3.Client
	bucket string
	key    string
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Key == "" {
		cfg.Key = remote.DocumentName
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

func (s *Store) Name() string { return "s3" }

func (s *Store) FetchSnapshot(ctx context.Context) (*models.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noKey) || errors.As(err, &noBucket) {
			return nil, remote.ErrNotFound
		}
		return nil, err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	return models.DecodeSnapshot(data)
}

func (s *Store) PushSnapshot(ctx context.Context, snap *models.Snapshot, handle *remote.FileHandle) (*remote.FileHandle, error) {
	payload, err := snap.Encode()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, err
	}
	// Object storage overwrites by name: the key is the stable handle.
	return &remote.FileHandle{FileID: s.key}, nil
}
