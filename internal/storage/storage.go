package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"

	"musicflow/internal/config"
	"musicflow/internal/utils"
)

// Client persists playlist export artifacts (json/m3u/csv renders) to
// the configured backend.
type Client struct {
	backend      Provider
	bucketExport string
}

func New(cfg *config.Config) *Client {
	var backend Provider

	if cfg.Storage.Provider == "local" {
		backend = NewLocalProvider(cfg.Storage.LocalStorage)
	} else {
		s3Config := &aws.Config{
			Credentials:      credentials.NewStaticCredentials(cfg.Storage.KeyID, cfg.Storage.AppKey, ""),
			Endpoint:         aws.String(cfg.Storage.Endpoint),
			Region:           aws.String(cfg.Storage.Region),
			S3ForcePathStyle: aws.Bool(true),
		}
		sess := session.Must(session.NewSession(s3Config))
		backend = NewS3Provider(sess)
	}

	return &Client{
		backend:      backend,
		bucketExport: cfg.Storage.BucketExport,
	}
}

// SaveExport stores one rendered playlist and returns its key. Keys
// are date-prefixed so exports of the same set never collide.
func (c *Client) SaveExport(playlistName, format, content string) (string, error) {
	name := utils.Sanitize(playlistName, "playlist")
	key := fmt.Sprintf("%s/%s.%s", time.Now().Format("2006-01-02"), name, format)

	err := c.backend.Put(c.bucketExport, key, strings.NewReader(content), contentTypeForKey(key))
	if err != nil {
		return "", err
	}
	return key, nil
}

func (c *Client) GetExport(key string) (*FileObject, error) {
	return c.backend.Get(c.bucketExport, key)
}

func (c *Client) ListExports() ([]string, error) {
	return c.backend.List(c.bucketExport, "")
}

func (c *Client) DeleteExport(key string) error {
	return c.backend.Delete(c.bucketExport, key)
}
