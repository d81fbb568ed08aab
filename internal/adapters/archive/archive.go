// Package archive stores generated report files on the local filesystem or in S3.
package archive

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Driver names accepted by Open.
const (
	DriverFS = "fs"
	DriverS3 = "s3"
)

// ErrNotFound is returned by Get when no object exists under key.
var ErrNotFound = errors.New("archive object not found")

// Archive writes and reads report files by key.
type Archive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Driver() string
}

// Options selects and configures a driver.
type Options struct {
	Driver    string
	Dir       string
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
}

// Open returns the archive named by opts.Driver (default fs).
func Open(ctx context.Context, opts Options) (Archive, error) {
	switch opts.Driver {
	case "", DriverFS:
		return NewFS(opts.Dir)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    opts.Bucket,
			Region:    opts.Region,
			Endpoint:  opts.Endpoint,
			PathStyle: opts.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown archive driver %q", opts.Driver)
	}
}

// sanitizeKey rejects keys that are empty, absolute or escape the root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("empty key")
	}
	if strings.HasPrefix(key, "/") {
		return "", errors.New("invalid absolute key")
	}
	if strings.Contains(key, "..") {
		return "", errors.New("invalid key contains '..'")
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}
