// Package reports reads archived scanner reports out of object storage. Scan
// rows carry only the summary; the full report JSON lives in a bucket and is
// fetched on demand when a scan detail view asks for it.
package reports

import (
	"bytes"
	"context"
	"io"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Archive struct {
	mc *minio.Client
}

func New(endpoint, accessKey, secretKey string, useSSL bool) (*Archive, error) {
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &Archive{mc: mc}, nil
}

// Fetch returns the raw report object for a scan.
func (a *Archive) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := a.mc.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

// Put archives a report object; used by ingest tooling.
func (a *Archive) Put(ctx context.Context, bucket, key string, body []byte) error {
	_, err := a.mc.PutObject(ctx, bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}
