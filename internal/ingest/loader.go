// Package ingest loads the raw asset analysis feed and turns it into
// structured records. The feed is a JSON array of per-asset objects with
// transactions and daily NAV observations; malformed entries are skipped
// with a log line rather than failing the whole load.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/aristath/riskriver/internal/domain"
)

// Loader fetches the raw feed from a file path, an http(s) URL or an
// s3://bucket/key URI.
type Loader struct {
	httpClient *http.Client
	awsRegion  string
	log        zerolog.Logger
}

// NewLoader creates a new feed loader
func NewLoader(awsRegion string, log zerolog.Logger) *Loader {
	return &Loader{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		awsRegion:  awsRegion,
		log:        log.With().Str("component", "ingest").Logger(),
	}
}

// Load fetches the feed from the given source and parses it into records.
// The raw bytes are returned alongside the records so callers can key
// caches on the exact input.
func (l *Loader) Load(ctx context.Context, source string) ([]byte, []domain.RawAssetRecord, error) {
	raw, err := l.fetch(ctx, source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch feed from %s: %w", source, err)
	}

	records := Parse(raw, l.log)

	l.log.Info().
		Str("source", source).
		Int("bytes", len(raw)).
		Int("records", len(records)).
		Msg("Feed loaded")

	return raw, records, nil
}

// fetch resolves the source scheme and returns the raw bytes
func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "s3://"):
		return l.fetchS3(ctx, source)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return l.fetchHTTP(ctx, source)
	default:
		return os.ReadFile(source)
	}
}

func (l *Loader) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from feed", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// fetchS3 downloads s3://bucket/key using the shared AWS config chain
func (l *Loader) fetchS3(ctx context.Context, uri string) ([]byte, error) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid s3 URI: %s (expected s3://bucket/key)", uri)
	}
	bucket, key := parts[0], parts[1]

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(l.awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	downloader := manager.NewDownloader(s3.NewFromConfig(awsCfg))

	buf := manager.NewWriteAtBuffer(nil)
	_, err = downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", bucket, key, err)
	}

	return bytes.Clone(buf.Bytes()), nil
}
