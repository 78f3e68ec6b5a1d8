package fetch

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// Download streams the remote archive into dataDir and returns the local
// path. The transfer is fully drained and the file closed before Download
// returns, so the connection is free for reuse afterwards. A stream error
// is fatal for the day-cycle; the partial file is removed.
func Download(conn Conn, remotePath, dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}

	r, err := conn.Retrieve(remotePath)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve %s: %w", remotePath, err)
	}
	defer r.Close()

	localPath := filepath.Join(dataDir, path.Base(remotePath))
	f, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to create local file %s: %w", localPath, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(localPath)
		return "", fmt.Errorf("failed to download %s: %w", remotePath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(localPath)
		return "", fmt.Errorf("failed to flush local file %s: %w", localPath, err)
	}
	return localPath, nil
}
