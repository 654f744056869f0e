package sensor

import (
	"context"
	"os"

	"golang.org/x/sync/singleflight"
)

// FileReader performs bounded-time file reads. Kernel pseudo-files can
// block indefinitely, and os.ReadFile cannot be cancelled, so each read runs
// in its own goroutine and the caller stops waiting when ctx ends. Callers
// asking for a path whose read is still outstanding join that read instead
// of starting another one: a hung device file pins one goroutine, not one
// per tick.
type FileReader struct {
	group    singleflight.Group
	readFile func(string) ([]byte, error)
}

// NewFileReader returns a reader backed by os.ReadFile.
func NewFileReader() *FileReader {
	return &FileReader{readFile: os.ReadFile}
}

// Read returns the content of path, or an UNAVAILABLE error if the read
// fails or ctx ends first. The returned slice is shared and must not be
// modified.
func (r *FileReader) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("read "+path, err)
	}
	ch := r.group.DoChan(path, func() (any, error) {
		return r.readFile(path)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, unavailable("read "+path, res.Err)
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, unavailable("read "+path, ctx.Err())
	}
}
