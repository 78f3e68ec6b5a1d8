// Package fetch talks to the bulletin FTP server: connection handling,
// locating the archive for a calendar day and downloading it.
package fetch

import (
	"fmt"
	"io"

	"github.com/jlaffaye/ftp"
)

// Entry is one remote directory listing entry.
type Entry struct {
	Name string
	Dir  bool
}

// Conn is an open remote connection. One transfer may be in flight at a
// time; Quit must be called before dialing the next day.
type Conn interface {
	List(path string) ([]Entry, error)
	Retrieve(path string) (io.ReadCloser, error)
	Quit() error
}

// Dialer opens a fresh Conn. The orchestrator dials once per day-cycle.
type Dialer interface {
	Dial() (Conn, error)
}

// FTPDialer dials a plain FTP server with anonymous credentials.
type FTPDialer struct {
	Addr string
}

func (d *FTPDialer) Dial() (Conn, error) {
	c, err := ftp.Dial(d.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial ftp server %s: %w", d.Addr, err)
	}
	if err := c.Login("anonymous", "anonymous"); err != nil {
		return nil, fmt.Errorf("ftp login failed: %w", err)
	}
	return &ftpConn{c: c}, nil
}

type ftpConn struct {
	c *ftp.ServerConn
}

func (f *ftpConn) List(path string) ([]Entry, error) {
	entries, err := f.c.List(path)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, Entry{
			Name: e.Name,
			Dir:  e.Type == ftp.EntryTypeFolder,
		})
	}
	return out, nil
}

func (f *ftpConn) Retrieve(path string) (io.ReadCloser, error) {
	return f.c.Retr(path)
}

func (f *ftpConn) Quit() error {
	return f.c.Quit()
}
