package installer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Fetch downloads url to destPath. 301 and 302 responses are followed by hand,
// at most maxRedirects times; any other non-200 status is an *HTTPError and
// leaves destPath untouched. The body is streamed, never buffered whole. If
// the transfer fails after destPath was created, the partial file is removed
// before the error is returned.
func (in *Installer) Fetch(ctx context.Context, url, destPath string) error {
	client := in.client()
	current := url

	for hops := 0; ; hops++ {
		resp, err := in.get(ctx, client, current)
		if err != nil {
			return &HTTPError{URL: current, Err: err}
		}

		switch resp.StatusCode {
		case http.StatusOK:
			err := in.writeBody(resp, current, destPath)
			resp.Body.Close()
			return err

		case http.StatusMovedPermanently, http.StatusFound:
			loc, locErr := resp.Location()
			resp.Body.Close()
			if locErr != nil {
				return &HTTPError{URL: current, StatusCode: resp.StatusCode, Status: resp.Status, Err: locErr}
			}
			if hops >= in.maxRedirects {
				return &HTTPError{URL: current, StatusCode: resp.StatusCode, Status: resp.Status, Err: errTooManyRedirects}
			}
			in.logger.Debug().Str("method", "Fetch").Str("from", current).Str("to", loc.String()).Msg("following redirect")
			current = loc.String()

		default:
			resp.Body.Close()
			return &HTTPError{URL: current, StatusCode: resp.StatusCode, Status: resp.Status}
		}
	}
}

func (in *Installer) get(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", in.userAgent())
	req.Header.Set("Accept", "application/octet-stream")
	return client.Do(req)
}

// client returns a copy of the configured client that never follows
// redirects on its own and carries the download timeout.
func (in *Installer) client() *http.Client {
	c := *in.httpClient
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	if in.timeout > 0 {
		c.Timeout = in.timeout
	}
	return &c
}

func (in *Installer) writeBody(resp *http.Response, url, destPath string) (err error) {
	f, err := in.createFile(destPath)
	if err != nil {
		return &IOError{Op: "create", Path: destPath, Err: err}
	}

	defer func() {
		if err != nil {
			os.Remove(destPath)
		}
	}()

	dst := &trackingWriter{w: f}
	var body io.Reader = resp.Body
	progress := newProgressWriter(in.out, resp.ContentLength)
	if progress != nil {
		body = io.TeeReader(resp.Body, progress)
	}

	n, copyErr := io.Copy(dst, body)
	progress.done()
	if copyErr != nil {
		f.Close()
		if dst.err != nil {
			return &IOError{Op: "write", Path: destPath, Err: dst.err}
		}
		return &HTTPError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status, Err: copyErr}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: destPath, Err: err}
	}

	in.logger.Debug().Str("method", "Fetch").Int64("bytes_copied", n).Str("path", destPath).Msg("download complete")
	return nil
}

// trackingWriter remembers the first write error so a failed io.Copy can be
// attributed to the disk rather than the network.
type trackingWriter struct {
	w   io.Writer
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil && t.err == nil {
		t.err = err
	}
	return n, err
}

// progressWriter counts bytes flowing through a TeeReader. With a known
// size it prints a percentage whenever it changes, otherwise a running
// kilobyte count.
type progressWriter struct {
	out        io.Writer
	total      int64
	downloaded int64
	last       int64
}

// newProgressWriter returns nil when there is nowhere to print.
func newProgressWriter(out io.Writer, total int64) *progressWriter {
	if out == nil {
		return nil
	}
	return &progressWriter{out: out, total: total, last: -1}
}

// Write implements the io.Writer interface. It never returns an error.
func (p *progressWriter) Write(b []byte) (int, error) {
	p.downloaded += int64(len(b))
	if p.total > 0 {
		percent := p.downloaded * 100 / p.total
		if percent != p.last {
			fmt.Fprintf(p.out, "\rDownloading... %d%%", percent)
			p.last = percent
		}
		return len(b), nil
	}

	kb := p.downloaded / 1024
	if kb != p.last {
		fmt.Fprintf(p.out, "\rDownloading... %d KB", kb)
		p.last = kb
	}
	return len(b), nil
}

func (p *progressWriter) done() {
	if p == nil {
		return
	}
	fmt.Fprintln(p.out)
}
