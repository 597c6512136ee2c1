/*
Package store contains the credential store and its persistence contract.

This file implements the S3-backed Persister: the document is kept as a single
object in an S3-compatible bucket, downloaded once at startup and rewritten
wholesale after every mutation.
*/
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"minichat/internal/pkg/logx"
)

// s3OpTimeout bounds each S3 request issued by the persister.
const s3OpTimeout = 15 * time.Second

// S3Config holds the settings required to reach the bucket.
type S3Config struct {
	BucketName      string
	ObjectKey       string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Persister stores the document as a single object in an S3-compatible bucket.
type S3Persister struct {
	cfg        S3Config
	client     *s3.Client
	uploader   *manager.Uploader
	downloader *manager.Downloader
}

// NewS3Persister initializes the S3 client using a custom configuration that
// supports S3-compatible endpoints (path-style addressing, static credentials).
func NewS3Persister(cfg S3Config) (*S3Persister, error) {
	sdkCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		logx.Error(err, "Failed to load AWS SDK config")
		return nil, errors.New("failed to initialize S3 persister configuration")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &S3Persister{
		cfg:        cfg,
		client:     client,
		uploader:   manager.NewUploader(client),
		downloader: manager.NewDownloader(client),
	}, nil
}

// Load downloads and decodes the document. A missing or undecodable object
// yields the empty state so a fresh bucket starts cleanly.
func (p *S3Persister) Load() (*Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s3OpTimeout)
	defer cancel()

	buf := manager.NewWriteAtBuffer([]byte{})

	_, err := p.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: &p.cfg.BucketName,
		Key:    &p.cfg.ObjectKey,
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return NewDocument(), nil
		}
		return NewDocument(), fmt.Errorf("failed to download state object %s: %w", p.cfg.ObjectKey, err)
	}

	doc := NewDocument()
	if err := json.Unmarshal(buf.Bytes(), doc); err != nil {
		logx.Warn("State object is corrupt. Falling back to empty state.", "key", p.cfg.ObjectKey, "error", err.Error())
		return NewDocument(), nil
	}

	return doc, nil
}

// Save marshals the document and uploads it, replacing the previous object.
func (p *S3Persister) Save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state document: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s3OpTimeout)
	defer cancel()

	contentType := "application/json"

	_, err = p.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &p.cfg.BucketName,
		Key:         &p.cfg.ObjectKey,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload state object %s: %w", p.cfg.ObjectKey, err)
	}

	return nil
}
