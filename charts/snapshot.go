package charts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"superhost-analysis/utils"
)

// ChromeSnapshotter captures HTML files with a headless Chrome.
type ChromeSnapshotter struct {
	bin     string
	width   int
	height  int
	wait    time.Duration
	timeout time.Duration
	retry   *utils.RetryConfig
	logger  *utils.Logger
}

// NewChromeSnapshotter creates a snapshotter for a width x height window.
// An empty bin falls back to the usual Chrome/Chromium install locations.
func NewChromeSnapshotter(bin string, width, height int, logger *utils.Logger) *ChromeSnapshotter {
	if bin == "" {
		bin = FindChromeBinary()
	}
	return &ChromeSnapshotter{
		bin:     bin,
		width:   width,
		height:  height,
		wait:    3 * time.Second,
		timeout: 60 * time.Second,
		retry: &utils.RetryConfig{
			MaxAttempts: 2,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		logger: logger,
	}
}

// Snapshot loads htmlPath and writes a full-page screenshot to pngPath.
func (s *ChromeSnapshotter) Snapshot(ctx context.Context, htmlPath, pngPath string) error {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("snapshot: resolve %s: %w", htmlPath, err)
	}
	s.logger.Info("[snapshot] Using browser binary: %q", s.bin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(s.width, s.height),
	)
	if s.bin != "" {
		opts = append(opts, chromedp.ExecPath(s.bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	var buf []byte
	err = s.retry.Do(ctx, "map-snapshot", func(ctx context.Context) error {
		browserCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
		defer cancel()

		browserCtx, cancelTimeout := context.WithTimeout(browserCtx, s.timeout)
		defer cancelTimeout()

		return chromedp.Run(browserCtx,
			chromedp.Navigate("file://"+abs),
			// tiles load asynchronously
			chromedp.Sleep(s.wait),
			chromedp.FullScreenshot(&buf, 100),
		)
	})
	if err != nil {
		return fmt.Errorf("snapshot: capture %s: %w", htmlPath, err)
	}

	if err := os.WriteFile(pngPath, buf, 0644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", pngPath, err)
	}
	s.logger.Info("[snapshot] Saved %s", pngPath)
	return nil
}

// FindChromeBinary locates a Chrome/Chromium binary, honouring CHROME_BIN.
func FindChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	for _, p := range []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
