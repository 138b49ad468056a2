// Package mirror copies snapshot directories to FTP bulk storage.
// Mirroring is optional: pipelines only touch it when a mirror
// destination is configured.
package mirror

import (
	"context"
	"net"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Options configures the FTP mirror client.
type Options struct {
	Timeout time.Duration
}

// Client mirrors local files to an FTP destination.
type Client struct {
	opts Options
}

// New creates a mirror client with the given options.
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Client{opts: opts}
}

// parseURL extracts host (with port), remote directory, and credentials
// from an FTP URL. Credentials default to anonymous.
func parseURL(rawURL string) (host, dir, user, pass string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", "", "", eris.Wrap(err, "mirror: parse url")
	}
	if u.Scheme != "ftp" {
		return "", "", "", "", eris.Errorf("mirror: expected ftp scheme, got %q", u.Scheme)
	}

	host = u.Host
	if _, _, splitErr := net.SplitHostPort(host); splitErr != nil {
		host = net.JoinHostPort(host, "21")
	}

	dir = strings.TrimSuffix(u.Path, "/")
	if dir == "" {
		return "", "", "", "", eris.New("mirror: empty path in ftp url")
	}

	user = "anonymous"
	pass = "anonymous@"
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}
	return host, dir, user, pass, nil
}

func (c *Client) connect(ctx context.Context, host, user, pass string) (*ftp.ServerConn, error) {
	conn, err := ftp.Dial(host, ftp.DialWithTimeout(c.opts.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, eris.Wrap(err, "mirror: dial")
	}
	if err := conn.Login(user, pass); err != nil {
		conn.Quit()
		return nil, eris.Wrap(err, "mirror: login")
	}
	return conn, nil
}

// EnsureDir creates the remote directory named by the FTP URL,
// including parents, if it does not already exist.
func (c *Client) EnsureDir(ctx context.Context, rawURL string) error {
	host, dir, user, pass, err := parseURL(rawURL)
	if err != nil {
		return err
	}

	conn, err := c.connect(ctx, host, user, pass)
	if err != nil {
		return err
	}
	defer conn.Quit()

	return ensureDir(conn, dir)
}

// ensureDir makes each path segment in turn. MakeDir on an existing
// directory fails, so existence is verified with a final ChangeDir.
func ensureDir(conn *ftp.ServerConn, dir string) error {
	segments := strings.Split(strings.Trim(dir, "/"), "/")
	cur := ""
	for _, seg := range segments {
		cur = cur + "/" + seg
		_ = conn.MakeDir(cur)
	}
	if err := conn.ChangeDir(dir); err != nil {
		return eris.Wrapf(err, "mirror: remote directory %s unavailable", dir)
	}
	return nil
}

// CopyDir uploads every regular file in localDir to the remote
// directory named by the FTP URL, creating it first. Subdirectories
// are not descended into; a snapshot directory is flat.
func (c *Client) CopyDir(ctx context.Context, localDir, rawURL string) error {
	host, dir, user, pass, err := parseURL(rawURL)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(localDir)
	if err != nil {
		return eris.Wrapf(err, "mirror: read %s", localDir)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	conn, err := c.connect(ctx, host, user, pass)
	if err != nil {
		return err
	}
	defer conn.Quit()

	if err := ensureDir(conn, dir); err != nil {
		return err
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "mirror: cancelled")
		}
		if err := c.storeFile(conn, filepath.Join(localDir, name), path.Join(dir, name)); err != nil {
			return err
		}
		zap.L().Info("mirror: copied file",
			zap.String("file", name),
			zap.String("dest", rawURL),
		)
	}
	return nil
}

func (c *Client) storeFile(conn *ftp.ServerConn, localPath, remotePath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return eris.Wrapf(err, "mirror: open %s", localPath)
	}
	defer f.Close()

	if err := conn.Stor(remotePath, f); err != nil {
		return eris.Wrapf(err, "mirror: store %s", remotePath)
	}
	return nil
}
