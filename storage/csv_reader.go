package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"superhost-analysis/utils"
)

// NAValues are the raw tokens read as missing.
var NAValues = []string{"", "NA", "NaN", "N/A", "<nil>"}

// ListingsReader loads the raw listings table from a local file or a URL.
// Gzip compression is detected from the content, not the file name.
type ListingsReader struct {
	client *http.Client
	retry  *utils.RetryConfig
	logger *utils.Logger
}

// NewListingsReader creates a reader that retries downloads maxRetries times.
func NewListingsReader(maxRetries int, logger *utils.Logger) *ListingsReader {
	return &ListingsReader{
		client: &http.Client{Timeout: 5 * time.Minute},
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		logger: logger,
	}
}

// Load reads source into a table with every column typed as text.
func (r *ListingsReader) Load(ctx context.Context, source string) (dataframe.DataFrame, error) {
	var (
		raw []byte
		err error
	)
	if isURL(source) {
		raw, err = r.download(ctx, source)
	} else {
		raw, err = os.ReadFile(source)
	}
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("reader: load %s: %w", source, err)
	}
	r.logger.Info("[reader] Read %d bytes from %s", len(raw), source)

	return ReadListings(bytes.NewReader(raw))
}

// ReadListings parses plain or gzipped CSV content.
func ReadListings(rd io.Reader) (dataframe.DataFrame, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("reader: read: %w", err)
	}
	if isGzip(data) {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("reader: gzip: %w", err)
		}
		data, err = io.ReadAll(gz)
		_ = gz.Close()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("reader: gunzip: %w", err)
		}
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(NAValues),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		return df, fmt.Errorf("reader: parse csv: %w", df.Err)
	}
	return df, nil
}

func (r *ListingsReader) download(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := r.retry.Do(ctx, "download-listings", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := r.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %s", resp.Status)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	})
	return body, err
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}
