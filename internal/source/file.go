package source

import (
	"context"
	"os"

	"github.com/MikeSquared-Agency/DinnerClub/internal/ranking"
)

// File reads responses from a local CSV export.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string { return "file" }

func (f *File) Fetch(ctx context.Context) (*ranking.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, ranking.Unavailable(f.Name(), f.path, err)
	}
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, ranking.Unavailable(f.Name(), f.path, err)
	}
	defer fh.Close()

	t, err := readCSV(fh)
	if err != nil {
		return nil, ranking.Unavailable(f.Name(), f.path, err)
	}
	return t, nil
}
