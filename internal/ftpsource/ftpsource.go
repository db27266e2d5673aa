// Package ftpsource lists and downloads SP3 products from the remote FTP archive.
package ftpsource

import (
	"context"
	"fmt"
	"io"
	"net"
	"path"
	"sort"
	"strings"

	"github.com/jlaffaye/ftp"

	"sp3clock/internal/config"
)

// DefaultPort is used when the configured host has none.
const DefaultPort = "21"

// Client is an open session on the product archive, positioned in the
// product directory.
type Client interface {
	// List returns the raw names in the product directory.
	List(ctx context.Context) ([]string, error)
	// Retrieve streams one file. The reader must be closed before the next call.
	Retrieve(ctx context.Context, name string) (io.ReadCloser, error)
	Close() error
}

// DialFunc opens a Client. Services take one so tests can substitute the archive.
type DialFunc func(ctx context.Context) (Client, error)

type ftpClient struct {
	conn *ftp.ServerConn
}

// Dial connects, logs in and changes into cfg.Dir.
func Dial(ctx context.Context, cfg config.FTPConfig) (Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("ftp host is required")
	}
	opts := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if cfg.Timeout() > 0 {
		opts = append(opts, ftp.DialWithTimeout(cfg.Timeout()))
	}

	conn, err := ftp.Dial(Address(cfg.Host), opts...)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Host, err)
	}

	user, pass := cfg.User, cfg.Password
	if user == "" {
		user, pass = "anonymous", "anonymous"
	}
	if err := conn.Login(user, pass); err != nil {
		_ = conn.Quit()
		return nil, fmt.Errorf("login %s: %w", cfg.Host, err)
	}
	if cfg.Dir != "" {
		if err := conn.ChangeDir(cfg.Dir); err != nil {
			_ = conn.Quit()
			return nil, fmt.Errorf("cwd %s: %w", cfg.Dir, err)
		}
	}
	return &ftpClient{conn: conn}, nil
}

// Dialer binds cfg into a DialFunc.
func Dialer(cfg config.FTPConfig) DialFunc {
	return func(ctx context.Context) (Client, error) {
		return Dial(ctx, cfg)
	}
}

func (c *ftpClient) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names, err := c.conn.NameList("")
	if err != nil {
		return nil, fmt.Errorf("nlst: %w", err)
	}
	return names, nil
}

func (c *ftpClient) Retrieve(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := c.conn.Retr(name)
	if err != nil {
		return nil, fmt.Errorf("retr %s: %w", name, err)
	}
	return resp, nil
}

func (c *ftpClient) Close() error {
	return c.conn.Quit()
}

// Address appends DefaultPort to host when it carries no port.
func Address(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, DefaultPort)
}

// FilterSP3 keeps the base names ending in .sp3 (any case), sorted and deduplicated.
func FilterSP3(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		base := path.Base(strings.TrimSpace(n))
		if !strings.EqualFold(path.Ext(base), ".sp3") {
			continue
		}
		if _, ok := seen[base]; ok {
			continue
		}
		seen[base] = struct{}{}
		out = append(out, base)
	}
	sort.Strings(out)
	return out
}
