package installer

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
)

// EnvMaxDownloadBytes overrides the download size limit.
const EnvMaxDownloadBytes = "MSM_MAX_DOWNLOAD_BYTES"

var (
	httpClient    = &http.Client{Timeout: 60 * time.Second}
	downloadSleep = time.Sleep
)

const (
	defaultMaxDownloadBytes = int64(64 * 1024 * 1024) // 64 MiB
	downloadRetryCount      = 1
	downloadRetryBackoff    = 250 * time.Millisecond
)

// downloadToFile fetches url into dest, retrying once on network errors and 5xx responses.
func downloadToFile(ctx context.Context, sys System, url string, dest *os.File) error {
	maxBytes := maxDownloadBytes(sys)
	for attempt := 0; attempt <= downloadRetryCount; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf(messages.InstallerBuildRequestFmt, url, err)
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if shouldRetryDownload(attempt, err, 0) {
				downloadSleep(downloadRetryBackoff)
				continue
			}
			if isTimeoutError(err) {
				return fmt.Errorf(messages.InstallerDownloadTimeoutFmt, url)
			}
			return fmt.Errorf(messages.InstallerDownloadFailedFmt, url, err)
		}

		if resp.StatusCode == http.StatusNotFound {
			_ = resp.Body.Close()
			return fmt.Errorf(messages.InstallerDownload404Fmt, url)
		}
		if resp.StatusCode != http.StatusOK {
			status := resp.StatusCode
			statusText := resp.Status
			_ = resp.Body.Close()
			if shouldRetryDownload(attempt, nil, status) {
				downloadSleep(downloadRetryBackoff)
				continue
			}
			return fmt.Errorf(messages.InstallerDownloadUnexpectedStatusFmt, url, statusText)
		}

		if err := dest.Truncate(0); err != nil {
			_ = resp.Body.Close()
			return fmt.Errorf(messages.InstallerTruncateTempFileFmt, err)
		}
		if _, err := dest.Seek(0, io.SeekStart); err != nil {
			_ = resp.Body.Close()
			return fmt.Errorf(messages.InstallerResetTempFileOffsetFmt, err)
		}

		n, copyErr := io.Copy(dest, io.LimitReader(resp.Body, maxBytes+1))
		_ = resp.Body.Close()
		if copyErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if shouldRetryDownload(attempt, copyErr, 0) {
				downloadSleep(downloadRetryBackoff)
				continue
			}
			return fmt.Errorf(messages.InstallerDownloadFailedFmt, url, copyErr)
		}
		if n > maxBytes {
			return fmt.Errorf(messages.InstallerDownloadTooLargeFmt, url, n, maxBytes)
		}
		return nil
	}
	return fmt.Errorf(messages.InstallerDownloadFailedFmt, url, errors.New(messages.InstallerRetryBudgetExhausted))
}

func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func shouldRetryDownload(attempt int, err error, statusCode int) bool {
	if attempt >= downloadRetryCount {
		return false
	}
	if err != nil {
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}

func maxDownloadBytes(sys System) int64 {
	raw := strings.TrimSpace(sys.Getenv(EnvMaxDownloadBytes))
	if raw == "" {
		return defaultMaxDownloadBytes
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return defaultMaxDownloadBytes
	}
	return v
}

// verifyChecksum compares the SHA-256 of path with expected (hex, case-insensitive).
func verifyChecksum(path string, expected string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf(messages.InstallerOpenFileFmt, path, err)
	}
	defer func() { _ = file.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return fmt.Errorf(messages.InstallerHashFileFmt, path, err)
	}
	actual := fmt.Sprintf("%x", hasher.Sum(nil))
	if !strings.EqualFold(actual, strings.TrimSpace(expected)) {
		return fmt.Errorf(messages.InstallerChecksumMismatchFmt, path, expected, actual)
	}
	return nil
}
