// Package extract unpacks a daily bulletin archive into a working directory
// and owns that directory for the lifetime of one archive.
package extract

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const archiveSuffix = ".tar.gz"

// Extract decompresses the tar.gz archive at archivePath into a sibling
// directory named after the archive with the extension stripped, removes
// the archive file and returns the directory plus the member files found
// inside it. Decompression failure is fatal and leaves nothing behind.
func Extract(archivePath string) (string, []string, error) {
	dest := strings.TrimSuffix(archivePath, archiveSuffix)

	f, err := os.Open(archivePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decompress %s: %w", archivePath, err)
	}
	defer gz.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create working directory %s: %w", dest, err)
	}

	var members []string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			os.RemoveAll(dest)
			return "", nil, fmt.Errorf("failed to read archive %s: %w", archivePath, err)
		}

		target, err := memberPath(dest, hdr.Name)
		if err != nil {
			slog.Warn("Skipping archive member outside working directory", "member", hdr.Name)
			continue
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				os.RemoveAll(dest)
				return "", nil, fmt.Errorf("failed to create directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeMember(target, tr); err != nil {
				os.RemoveAll(dest)
				return "", nil, err
			}
			members = append(members, target)
		}
	}

	if err := os.Remove(archivePath); err != nil {
		slog.Warn("Failed to remove archive after extraction", "path", archivePath, "error", err)
	}
	return dest, members, nil
}

// Cleanup removes the working directory. It runs after every member of the
// archive has been processed, whether each parse succeeded or was skipped.
func Cleanup(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		slog.Error("Failed to remove working directory", "path", dir, "error", err)
	}
}

func memberPath(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.Clean("/"+name))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive member %s escapes working directory", name)
	}
	return target, nil
}

func writeMember(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}
	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create member file %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("failed to write member file %s: %w", target, err)
	}
	return out.Close()
}
