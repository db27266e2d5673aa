package directory

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sp3clock/internal/model"
	"sp3clock/internal/repository"
)

func seed(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("data"), 0o644))
	}
	return dir
}

func TestProductDirectory_ListInRange(t *testing.T) {
	dir := seed(t, "Ref22952.sp3", "Ref22950.sp3", "REF22951.SP3", "notes.txt", "Ref22960.sp3")
	repo := NewProductDirectory(dir)

	from := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	got, err := repo.ListInRange(context.Background(), from, from.AddDate(0, 0, 2))
	require.NoError(t, err)

	names := make([]string, len(got))
	for i, p := range got {
		names[i] = p.Filename
	}
	assert.Equal(t, []string{"Ref22950.sp3", "REF22951.SP3", "Ref22952.sp3"}, names)
	assert.Equal(t, int64(4), got[0].Size)
	assert.Equal(t, 2295, got[1].GPSWeek)
	assert.Equal(t, 1, got[1].GPSDay)
}

func TestProductDirectory_Find(t *testing.T) {
	repo := NewProductDirectory(seed(t, "Ref22950.sp3", "other.sp3"))
	ctx := context.Background()

	p, err := repo.FindByID(ctx, "Ref22950.sp3")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), p.Date)

	_, err = repo.FindByFilename(ctx, "other.sp3")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = repo.FindByFilename(ctx, "Ref22951.sp3")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = repo.FindByFilename(ctx, "../Ref22950.sp3")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	created, err := repo.Create(ctx, &model.Product{Filename: "Ref22950.sp3"})
	require.NoError(t, err)
	assert.Equal(t, "Ref22950.sp3", created.ID)
}

func TestProductDirectory_List(t *testing.T) {
	repo := NewProductDirectory(seed(t, "Ref22950.sp3", "Ref22951.sp3", "Ref22952.sp3"))

	res, err := repo.List(context.Background(), repository.PageQuery{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Ref22951.sp3", res.Items[0].Filename)
	assert.Equal(t, "Ref22950.sp3", res.Items[1].Filename)

	res, err = repo.List(context.Background(), repository.PageQuery{Limit: 10, Offset: 50})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestProductDirectory_MissingDir(t *testing.T) {
	repo := NewProductDirectory(filepath.Join(t.TempDir(), "absent"))

	names, err := repo.Filenames(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)

	got, err := repo.ListInRange(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, got)
}
