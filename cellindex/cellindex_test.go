package cellindex_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/eak1mov/go-libtmx/cellindex"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestReadWrite(t *testing.T) {
	items := []cellindex.Item{
		{X: 1, Y: 2, Layer: 0, GID: 3},
		{X: 4, Y: 5, Layer: 1, GID: 0x80000001},
	}

	var buf bytes.Buffer
	require.NoError(t, cellindex.WriteAll(items, &buf))
	require.Equal(t, 32, buf.Len())
	require.Equal(t, []byte{1, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 3, 0, 0, 0}, buf.Bytes()[:16])

	got, err := cellindex.ReadAll(buf.Bytes())
	require.NoError(t, err)
	if diff := cmp.Diff(items, got); diff != "" {
		t.Errorf("ReadAll() mismatch (-want+got):\n%v", diff)
	}

	_, err = cellindex.ReadAll(buf.Bytes()[:20])
	require.Error(t, err)

	got, err = cellindex.ReadAll(nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestFromLayer(t *testing.T) {
	gids := []uint32{1, 0, 0, 0, 0, 7}
	want := []cellindex.Item{
		{X: 0, Y: 0, Layer: 2, GID: 1},
		{X: 2, Y: 1, Layer: 2, GID: 7},
	}
	require.Equal(t, want, cellindex.FromLayer(2, gids, 3))
	require.Nil(t, cellindex.FromLayer(2, gids, 0))
}

func TestCurve(t *testing.T) {
	testCases := []struct {
		Width, Height int
		Side          int
	}{
		{0, 0, 1},
		{1, 1, 1},
		{4, 3, 4},
		{5, 2, 8},
		{16, 16, 16},
		{17, 1, 32},
	}
	for _, tc := range testCases {
		curve, err := cellindex.NewCurve(tc.Width, tc.Height)
		require.NoError(t, err)
		require.Equal(t, tc.Side, curve.Side())
	}

	curve, err := cellindex.NewCurve(100, 60)
	require.NoError(t, err)
	rnd := rand.New(rand.NewSource(1))
	for range 1000 {
		x, y := uint32(rnd.Intn(100)), uint32(rnd.Intn(60))
		code, err := curve.Encode(x, y)
		require.NoError(t, err)
		gotX, gotY, err := curve.Decode(code)
		require.NoError(t, err)
		require.Equal(t, [2]uint32{x, y}, [2]uint32{gotX, gotY})
	}

	_, err = curve.Encode(200, 0)
	require.Error(t, err)
}

func TestSort(t *testing.T) {
	curve, err := cellindex.NewCurve(2, 2)
	require.NoError(t, err)

	items := []cellindex.Item{
		{X: 1, Y: 0, Layer: 1, GID: 2},
		{X: 1, Y: 0, Layer: 0, GID: 1},
		{X: 1, Y: 1, Layer: 0, GID: 3},
		{X: 0, Y: 1, Layer: 0, GID: 4},
		{X: 0, Y: 0, Layer: 0, GID: 5},
	}
	require.NoError(t, curve.Sort(items))

	require.Equal(t, uint32(2), items[4].GID)
	var prev uint64
	for _, item := range items[:4] {
		require.Zero(t, item.Layer)
		code, err := curve.Encode(item.X, item.Y)
		require.NoError(t, err)
		require.GreaterOrEqual(t, code, prev)
		prev = code
	}
	require.Equal(t, uint32(5), items[0].GID)
}
