// Package subtitlesrc pins the subtitle-preload collaborator: fetching a
// configured SubtitlesUrl's raw content ahead of playback, so the subtitle
// component can be primed with it. Default supports http(s):// URLs directly
// and s3:// URLs through the S3 downloader flow-frame's
// pkg/videoFs.DownloadSegmentFromS3 is grounded on.
package subtitlesrc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Loader fetches the raw content a SubtitlesUrl points at.
type Loader interface {
	Load(ctx context.Context, rawURL string) ([]byte, error)
}

// Default dispatches by URL scheme.
type Default struct {
	HTTPClient *http.Client

	s3Once   sync.Once
	s3Client *s3.S3
	s3Err    error
}

// NewDefault returns a Default using http.DefaultClient for http(s):// URLs.
func NewDefault() *Default {
	return &Default{HTTPClient: http.DefaultClient}
}

// Load implements Loader.
func (d *Default) Load(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("subtitlesrc: parse url %q: %w", rawURL, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return d.loadHTTP(ctx, rawURL)
	case "s3":
		return d.loadS3(ctx, u)
	default:
		return nil, fmt.Errorf("subtitlesrc: unsupported url scheme %q", u.Scheme)
	}
}

func (d *Default) loadHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("subtitlesrc: build request for %s: %w", rawURL, err)
	}

	client := d.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subtitlesrc: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("subtitlesrc: fetch %s: status %d", rawURL, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (d *Default) loadS3(ctx context.Context, u *url.URL) ([]byte, error) {
	client, err := d.ensureS3Client()
	if err != nil {
		return nil, err
	}

	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	out, err := client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("subtitlesrc: s3 get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, out.Body); err != nil {
		return nil, fmt.Errorf("subtitlesrc: read s3 body: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *Default) ensureS3Client() (*s3.S3, error) {
	d.s3Once.Do(func() {
		sess, err := session.NewSession()
		if err != nil {
			d.s3Err = fmt.Errorf("subtitlesrc: aws session: %w", err)
			return
		}
		d.s3Client = s3.New(sess)
	})
	return d.s3Client, d.s3Err
}
