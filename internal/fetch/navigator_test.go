package fetch

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderhound/tenderhound/internal/cursor"
)

// fakeConn serves canned directory listings and file contents.
type fakeConn struct {
	listings map[string][]Entry
	files    map[string][]byte
	listErr  map[string]error
	retrErr  error
}

func (f *fakeConn) List(path string) ([]Entry, error) {
	if err := f.listErr[path]; err != nil {
		return nil, err
	}
	return f.listings[path], nil
}

func (f *fakeConn) Retrieve(path string) (io.ReadCloser, error) {
	if f.retrErr != nil {
		return nil, f.retrErr
	}
	data, ok := f.files[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeConn) Quit() error { return nil }

func bulletinConn() *fakeConn {
	return &fakeConn{
		listings: map[string][]Entry{
			"/": {
				{Name: "readme.txt", Dir: false},
				{Name: "2019", Dir: true},
			},
			"/2019": {
				{Name: "02_2019", Dir: true},
				{Name: "03_2019", Dir: true},
			},
			"/2019/03_2019": {
				{Name: "14_03_2019.tar.gz", Dir: false},
				{Name: "15_03_2019.tar.gz", Dir: false},
			},
		},
		files: map[string][]byte{
			"/2019/03_2019/14_03_2019.tar.gz": []byte("archive-bytes"),
		},
	}
}

func TestLocate_FindsDayFile(t *testing.T) {
	conn := bulletinConn()

	path, found, err := Locate(conn, cursor.Date{Year: "2019", Month: "03", Day: "14"})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/2019/03_2019/14_03_2019.tar.gz", path)
}

func TestLocate_NotFound(t *testing.T) {
	tests := []struct {
		name string
		date cursor.Date
	}{
		{"missing year directory", cursor.Date{Year: "2018", Month: "03", Day: "14"}},
		{"missing month directory", cursor.Date{Year: "2019", Month: "07", Day: "14"}},
		{"missing day file", cursor.Date{Year: "2019", Month: "03", Day: "16"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, found, err := Locate(bulletinConn(), tt.date)
			require.NoError(t, err, "absence is not an error")
			assert.False(t, found)
		})
	}
}

func TestLocate_FileNamedLikeDirectoryIsIgnored(t *testing.T) {
	conn := bulletinConn()
	// A plain file named after the year must not be mistaken for the year
	// directory.
	conn.listings["/"] = []Entry{{Name: "2019", Dir: false}}

	_, found, err := Locate(conn, cursor.Date{Year: "2019", Month: "03", Day: "14"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLocate_ListingErrorIsFatal(t *testing.T) {
	conn := bulletinConn()
	conn.listErr = map[string]error{"/2019": errors.New("connection reset")}

	_, _, err := Locate(conn, cursor.Date{Year: "2019", Month: "03", Day: "14"})
	assert.Error(t, err)
}

func TestDownload(t *testing.T) {
	conn := bulletinConn()
	dataDir := filepath.Join(t.TempDir(), "data")

	local, err := Download(conn, "/2019/03_2019/14_03_2019.tar.gz", dataDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "14_03_2019.tar.gz"), local)

	content, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, []byte("archive-bytes"), content)
}

func TestDownload_StreamErrorIsFatal(t *testing.T) {
	conn := bulletinConn()
	conn.retrErr = errors.New("transfer aborted")

	_, err := Download(conn, "/2019/03_2019/14_03_2019.tar.gz", t.TempDir())
	assert.Error(t, err)
}
