package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/minio/minio-go/v7"

	"github.com/krishisakhi/sakhi-session/internal/model"
)

// Internal adapter interface to enable mocking without a real MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// Wrapper to adapt *minio.Client to minioAPI.
type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (w minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := w.c.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}
func (w minioClientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}

var _ model.CredentialStore = (*Client)(nil)

// Client stores all credentials of one device in a single JSON object, so
// every write replaces the whole set in one PutObject or RemoveObject.
type Client struct {
	api    minioAPI
	bucket string
	object string

	mu sync.Mutex
}

// NewClient creates a new MinIO credential store using a real *minio.Client instance.
func NewClient(ctx context.Context, client *minio.Client, bucket, deviceID string) (*Client, error) {
	return NewClientWithAPI(ctx, minioClientWrapper{c: client}, bucket, deviceID)
}

// NewClientWithAPI allows injecting a mockable API (used in tests).
func NewClientWithAPI(ctx context.Context, api minioAPI, bucket, deviceID string) (*Client, error) {
	c := &Client{
		api:    api,
		bucket: bucket,
		object: path.Join("credentials", deviceID+".json"),
	}

	err := c.ensureBucketExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return c, nil
}

// ensureBucketExists creates the bucket if it doesn't exist
func (c *Client) ensureBucketExists(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, err := c.load(ctx)
	if err != nil {
		return "", false, err
	}
	v, ok := set[key]
	return v, ok, nil
}

func (c *Client) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, err := c.load(ctx)
	if err != nil {
		return err
	}
	set[key] = value
	return c.save(ctx, set)
}

// RemoveAll rewrites the object without the keys, or deletes it when nothing
// is left.
func (c *Client) RemoveAll(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, err := c.load(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(set, k)
	}

	if len(set) == 0 {
		err := c.api.RemoveObject(ctx, c.bucket, c.object, minio.RemoveObjectOptions{})
		if err != nil {
			return fmt.Errorf("failed to delete object: %w", err)
		}
		return nil
	}
	return c.save(ctx, set)
}

func (c *Client) load(ctx context.Context) (map[string]string, error) {
	obj, err := c.api.GetObject(ctx, c.bucket, c.object, minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	set := make(map[string]string)
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}
	return set, nil
}

func (c *Client) save(ctx context.Context, set map[string]string) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	_, err = c.api.PutObject(ctx, c.bucket, c.object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
