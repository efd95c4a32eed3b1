package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"divcli/internal/series"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestKey(t *testing.T) {
	key := Key("SPX Index", "div_future", 2, date(2020, 1, 1), date(2020, 8, 1))
	assert.Equal(t, "SPX_Index_div_future2y_20200101_20200801.csv", key)

	key = Key("USGG30YR Index", "yield_30y", 0, date(2008, 1, 1), date(2025, 3, 1))
	assert.Equal(t, "USGG30YR_Index_yield_30y_20080101_20250301.csv", key)
}

func TestPutGetRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	in := series.New("SPX Index px_last", []series.Point{
		{Date: date(2020, 1, 2), Value: 3257.85},
		{Date: date(2020, 1, 3), Value: 3234.85},
	})
	key := Key("SPX Index", "px_last", 0, date(2020, 1, 1), date(2020, 8, 1))

	require.NoError(t, store.Put(key, in))

	out, ok, err := store.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in.Name, out.Name)
	require.Equal(t, in.Len(), out.Len())
	for i := range in.Points {
		assert.Equal(t, in.Points[i].Date, out.Points[i].Date)
		assert.InDelta(t, in.Points[i].Value, out.Points[i].Value, 1e-12)
	}
}

func TestGetMissingEntry(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	_, ok, err := store.Get("no_such_entry.csv")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.csv"), []byte("not,a\ncache,file\n"), 0644))

	_, _, err := store.Get("bad.csv")
	assert.Error(t, err)
}

func TestPutReplacesExistingEntry(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	key := "entry.csv"

	first := series.New("A", []series.Point{{Date: date(2020, 1, 2), Value: 1}})
	second := series.New("A", []series.Point{
		{Date: date(2020, 1, 2), Value: 1},
		{Date: date(2020, 1, 3), Value: 2},
	})

	require.NoError(t, store.Put(key, first))
	require.NoError(t, store.Put(key, second))

	out, ok, err := store.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, out.Len())
}
