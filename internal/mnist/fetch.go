package mnist

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL hosts gzipped copies of the four IDX files.
const DefaultBaseURL = "https://github.com/HIPS/hypergrad/raw/master/data/mnist/"

// Fetcher downloads and unpacks the dataset into Dir.
type Fetcher struct {
	BaseURL   string
	Dir       string
	Client    *http.Client
	Overwrite bool
}

// NewFetcher returns a Fetcher for dir using DefaultBaseURL and
// http.DefaultClient.
func NewFetcher(dir string) *Fetcher {
	return &Fetcher{
		BaseURL: DefaultBaseURL,
		Dir:     dir,
		Client:  http.DefaultClient,
	}
}

// Prepare downloads the archives and decompresses them. Files already on
// disk are skipped unless Overwrite is set.
func (f *Fetcher) Prepare(ctx context.Context) error {
	if err := f.Download(ctx); err != nil {
		return err
	}
	return f.Extract(ctx)
}

// Download fetches every <name>.gz archive concurrently.
func (f *Fetcher) Download(ctx context.Context) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return errors.Wrap(err, "create data dir")
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range Files {
		archive := name + ".gz"
		dst := filepath.Join(f.Dir, archive)
		if !f.Overwrite && exists(dst) {
			continue
		}
		g.Go(func() error {
			return f.fetch(ctx, f.BaseURL+archive, dst)
		})
	}
	return g.Wait()
}

// Extract gunzips every archive concurrently.
func (f *Fetcher) Extract(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range Files {
		dst := filepath.Join(f.Dir, name)
		if !f.Overwrite && exists(dst) {
			continue
		}
		src := dst + ".gz"
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return gunzip(src, dst)
		})
	}
	return g.Wait()
}

func (f *Fetcher) fetch(ctx context.Context, url, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return errors.Wrapf(err, "request %s", url)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "download %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("download %s: %s", url, resp.Status)
	}
	return writeAtomic(dst, resp.Body)
}

func gunzip(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "open archive")
	}
	defer in.Close()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return errors.Wrapf(err, "gunzip %s", src)
	}
	defer zr.Close()

	return writeAtomic(dst, zr)
}

// writeAtomic copies r into a temporary file next to dst and renames it into
// place, so an interrupted transfer never leaves a partial dst behind.
func writeAtomic(dst string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", dst)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", dst)
	}
	return errors.Wrap(os.Rename(tmp.Name(), dst), "rename")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
