package spec_test

import (
	"math/rand/v2"
	"testing"

	"github.com/eak1mov/go-libtmx/tmx/spec"
	"github.com/google/go-cmp/cmp"
)

func TestSplitCombine(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	gids := []uint32{0, 1, 42, 0x0FFFFFFF, 0x10000000, 0x1FFFFFFF, 0x80000001, 0xE0000005, 0xFFFFFFFF}
	for range 10_000 {
		gids = append(gids, rng.Uint32())
	}

	for _, layout := range []spec.Layout{spec.LayoutLegacy28, spec.LayoutTiled29} {
		for _, gid := range gids {
			id, flags := layout.Split(gid)
			if got := layout.Combine(id, flags); got != gid {
				t.Fatalf("%v: Combine(Split(%#x)) = %#x", layout, gid, got)
			}
		}
	}
}

func TestSplit(t *testing.T) {
	testCases := []struct {
		Layout spec.Layout
		GID    uint32
		ID     uint32
		Flags  spec.Flags
	}{
		{spec.LayoutLegacy28, 0, 0, spec.Flags{}},
		{spec.LayoutLegacy28, 0x80000007, 7, spec.Flags{FlipHorizontal: true}},
		{spec.LayoutLegacy28, 0x40000007, 7, spec.Flags{FlipVertical: true}},
		{spec.LayoutLegacy28, 0x20000007, 7, spec.Flags{FlipDiagonal: true}},
		{spec.LayoutLegacy28, 0x10000007, 7, spec.Flags{Rotate120: true}},
		{spec.LayoutTiled29, 0x10000007, 0x10000007, spec.Flags{}},
		{spec.LayoutTiled29, 0xE0000003, 3, spec.Flags{FlipHorizontal: true, FlipVertical: true, FlipDiagonal: true}},
	}
	for _, tc := range testCases {
		id, flags := tc.Layout.Split(tc.GID)
		if id != tc.ID {
			t.Errorf("%v: Split(%#x) id = %#x, want = %#x", tc.Layout, tc.GID, id, tc.ID)
		}
		if diff := cmp.Diff(tc.Flags, flags); diff != "" {
			t.Errorf("%v: Split(%#x) flags mismatch (-want+got):\n%v", tc.Layout, tc.GID, diff)
		}
	}
}

func TestDefaultLayout(t *testing.T) {
	id, flags := spec.Split(0x90000002)
	if id != 2 || !flags.FlipHorizontal || !flags.Rotate120 {
		t.Errorf("Split(0x90000002) = %#x, %+v", id, flags)
	}
	if got := spec.Combine(2, flags); got != 0x90000002 {
		t.Errorf("Combine = %#x, want = 0x90000002", got)
	}
	if got := spec.LayoutTiled29.Combine(0xF0000001, spec.Flags{}); got != 0x10000001 {
		t.Errorf("Combine drops bits outside mask: got %#x", got)
	}
}
