// Package storage provides object storage for uploaded profile images.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"

	aws3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/casdoor/oss"
	"github.com/casdoor/oss/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
)

// Config config
type Config struct {
	Provider string
	ID       string
	Secret   string
	Region   string
	Bucket   string
	Endpoint string
}

// NewStorage new storage
func NewStorage(c *Config) (oss.StorageInterface, error) {
	switch c.Provider {
	case "aws-s3":
		return NewS3(c), nil
	case "minio":
		return NewMinio(c)
	case "filesystem", "":
		folder := c.Bucket
		if folder == "" {
			folder = "uploads"
		}
		return NewFileSystem(folder), nil
	default:
		return nil, errors.New("unsupported storage type")
	}
}

// GetConfig get storage config
func GetConfig(v *viper.Viper) *Config {
	return &Config{
		Provider: v.GetString("storage.provider"),
		ID:       v.GetString("storage.id"),
		Secret:   v.GetString("storage.secret"),
		Region:   v.GetString("storage.region"),
		Bucket:   v.GetString("storage.bucket"),
		Endpoint: v.GetString("storage.endpoint"),
	}
}

// NewS3 creates new aws s3 client
func NewS3(c *Config) oss.StorageInterface {
	return s3.New(&s3.Config{
		AccessID:   c.ID,
		AccessKey:  c.Secret,
		Region:     c.Region,
		Bucket:     c.Bucket,
		Endpoint:   c.Endpoint,
		S3Endpoint: c.Endpoint,
		ACL:        aws3.BucketCannedACLPublicRead,
	})
}

// NewMinio creates new minio client
func NewMinio(c *Config) (oss.StorageInterface, error) {
	if c.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required for Minio")
	}
	if c.ID == "" || c.Secret == "" {
		return nil, fmt.Errorf("access ID and secret are required for Minio")
	}
	if c.Bucket == "" {
		return nil, fmt.Errorf("bucket is required for Minio")
	}

	region := c.Region
	if region == "" {
		region = "us-east-1"
	}

	return s3.New(&s3.Config{
		AccessID:         c.ID,
		AccessKey:        c.Secret,
		Region:           region,
		Bucket:           c.Bucket,
		Endpoint:         c.Endpoint,
		S3Endpoint:       c.Endpoint,
		ACL:              aws3.BucketCannedACLPublicRead,
		S3ForcePathStyle: true,
	}), nil
}

const objectKeyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// ObjectKey builds a collision-resistant object key for an uploaded file,
// keeping the original extension.
func ObjectKey(prefix, filename string) (string, error) {
	id, err := gonanoid.Generate(objectKeyAlphabet, 21)
	if err != nil {
		return "", err
	}
	return filepath.Join(prefix, id+filepath.Ext(filename)), nil
}
