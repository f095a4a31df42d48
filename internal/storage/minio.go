package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/arzan03/ShopFront/internal/models"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioPhotoStore stores photos as objects named "products/<id>".
type MinioPhotoStore struct {
	client *minio.Client
	bucket string
}

// NewMinioPhotoStore connects to MinIO and creates the bucket if it is missing.
func NewMinioPhotoStore(ctx context.Context, cfg MinioConfig, log logrus.FieldLogger) (*MinioPhotoStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		log.WithField("bucket", cfg.Bucket).Info("created photo bucket")
	}

	return &MinioPhotoStore{client: client, bucket: cfg.Bucket}, nil
}

func objectName(id primitive.ObjectID) string {
	return "products/" + id.Hex()
}

func (s *MinioPhotoStore) Put(ctx context.Context, id primitive.ObjectID, photo models.Photo) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName(id),
		bytes.NewReader(photo.Data), int64(len(photo.Data)),
		minio.PutObjectOptions{ContentType: photo.ContentType},
	)
	if err != nil {
		return fmt.Errorf("upload photo: %w", err)
	}
	return nil
}

func (s *MinioPhotoStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Photo, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectName(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get photo: %w", err)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNoPhoto
		}
		return nil, fmt.Errorf("stat photo: %w", err)
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoPhoto
	}
	return &models.Photo{Data: data, ContentType: info.ContentType}, nil
}

func (s *MinioPhotoStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName(id), minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("remove photo: %w", err)
	}
	return nil
}
