// Package directory serves product metadata straight from a folder of SP3
// files. Records are derived from file names, so Create and Delete only
// touch what the directory already holds.
package directory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"sp3clock/internal/model"
	"sp3clock/internal/repository"
	"sp3clock/internal/sp3"
)

// ProductDirectory implements repository.ProductRepository over a directory.
// Product IDs and storage paths are the file names.
type ProductDirectory struct {
	dir string
}

// NewProductDirectory returns a repository reading dir.
func NewProductDirectory(dir string) *ProductDirectory {
	return &ProductDirectory{dir: dir}
}

var _ repository.ProductRepository = (*ProductDirectory)(nil)

// scan returns every file whose name carries a GPS week and day, ordered by
// date then name. Other files are ignored.
func (d *ProductDirectory) scan(ctx context.Context) ([]model.Product, error) {
	entries, err := os.ReadDir(d.dir)
	if os.IsNotExist(err) {
		return []model.Product{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.dir, err)
	}

	out := make([]model.Product, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() {
			continue
		}
		p, ok := d.product(e)
		if ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Filename < out[j].Filename
	})
	return out, nil
}

func (d *ProductDirectory) product(e os.DirEntry) (model.Product, bool) {
	week, day, ok := sp3.ParseFilenameWeek(e.Name())
	if !ok {
		return model.Product{}, false
	}
	p := model.Product{
		ID:          e.Name(),
		Filename:    e.Name(),
		StoragePath: e.Name(),
		GPSWeek:     week,
		GPSDay:      day,
		Date:        sp3.GPSDate(week, day),
	}
	if info, err := e.Info(); err == nil {
		p.Size = info.Size()
		p.CreatedAt = info.ModTime().UTC()
	}
	return p, true
}

// Create checks the file is present; the directory itself is the record.
func (d *ProductDirectory) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	return d.FindByFilename(ctx, p.Filename)
}

func (d *ProductDirectory) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return d.FindByFilename(ctx, id)
}

func (d *ProductDirectory) FindByFilename(ctx context.Context, filename string) (*model.Product, error) {
	if filename != filepath.Base(filename) {
		return nil, sql.ErrNoRows
	}
	info, err := os.Stat(filepath.Join(d.dir, filename))
	if os.IsNotExist(err) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	p, ok := d.product(fileEntry{info})
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (d *ProductDirectory) Filenames(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// List pages over the products newest first.
func (d *ProductDirectory) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Product], error) {
	all, err := d.scan(ctx)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	start := min(max(pq.Offset, 0), len(all))
	end := len(all)
	if pq.Limit > 0 {
		end = min(start+pq.Limit, len(all))
	}
	return &repository.PageResult[model.Product]{Items: all[start:end], Total: len(all)}, nil
}

func (d *ProductDirectory) ListInRange(ctx context.Context, from, to time.Time) ([]model.Product, error) {
	all, err := d.scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(all))
	for _, p := range all {
		if !p.Date.Before(from) && !p.Date.After(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Delete is a no-op: removing the file through storage removes the record.
func (d *ProductDirectory) Delete(ctx context.Context, id string) error {
	return nil
}

// fileEntry adapts a FileInfo from Stat to the DirEntry used by scan.
type fileEntry struct {
	os.FileInfo
}

func (f fileEntry) Type() os.FileMode          { return f.Mode().Type() }
func (f fileEntry) Info() (os.FileInfo, error) { return f.FileInfo, nil }
