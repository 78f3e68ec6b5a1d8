package fetch

import (
	"fmt"
	"path"

	"github.com/tenderhound/tenderhound/internal/cursor"
)

// ArchiveExt is the extension of the daily bulletin archives.
const ArchiveExt = ".tar.gz"

// Locate resolves the remote path of the archive for one calendar day by
// walking root -> year dir -> month dir -> day file. A listing that
// succeeds but misses the expected entry means no archive was published for
// that day and is not an error; a failed listing is.
func Locate(conn Conn, d cursor.Date) (string, bool, error) {
	root, err := conn.List("/")
	if err != nil {
		return "", false, fmt.Errorf("failed to list ftp root: %w", err)
	}
	yearDir, ok := findDir(root, d.Year)
	if !ok {
		return "", false, nil
	}

	yearPath := path.Join("/", yearDir)
	months, err := conn.List(yearPath)
	if err != nil {
		return "", false, fmt.Errorf("failed to list year directory %s: %w", yearPath, err)
	}
	monthDir, ok := findDir(months, d.Month+"_"+d.Year)
	if !ok {
		return "", false, nil
	}

	monthPath := path.Join(yearPath, monthDir)
	files, err := conn.List(monthPath)
	if err != nil {
		return "", false, fmt.Errorf("failed to list month directory %s: %w", monthPath, err)
	}
	fileName := d.Day + "_" + d.Month + "_" + d.Year + ArchiveExt
	for _, e := range files {
		if !e.Dir && e.Name == fileName {
			return path.Join(monthPath, e.Name), true, nil
		}
	}
	return "", false, nil
}

func findDir(entries []Entry, name string) (string, bool) {
	for _, e := range entries {
		if e.Dir && e.Name == name {
			return e.Name, true
		}
	}
	return "", false
}
