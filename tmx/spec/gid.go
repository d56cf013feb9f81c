package spec

// A global tile id (gid) packs a tileset-local tile id in its low bits and
// orientation flags in its high bits. 0 means "no tile".
const (
	FlagFlipHorizontal uint32 = 1 << 31
	FlagFlipVertical   uint32 = 1 << 30
	FlagFlipDiagonal   uint32 = 1 << 29
	FlagRotate120      uint32 = 1 << 28 // hexagonal maps only
)

// Layout selects how many low bits of a gid hold the flip-free tile id.
type Layout uint8

const (
	// LayoutLegacy28 keeps the low 28 bits (mask 0x0FFFFFFF), the behavior
	// historically shipped by this toolchain. Bit 28 is reported as Rotate120.
	LayoutLegacy28 Layout = iota

	// LayoutTiled29 keeps the low 29 bits (mask 0x1FFFFFFF) and treats only
	// the three flip bits as flags, as most Tiled readers do.
	LayoutTiled29
)

// DefaultLayout is used wherever no layout is configured explicitly.
const DefaultLayout = LayoutLegacy28

type Flags struct {
	FlipHorizontal bool
	FlipVertical   bool
	FlipDiagonal   bool
	Rotate120      bool
}

func (f Flags) Any() bool {
	return f.FlipHorizontal || f.FlipVertical || f.FlipDiagonal || f.Rotate120
}

// Mask returns the bits of a gid that hold the flip-free id.
func (l Layout) Mask() uint32 {
	if l == LayoutTiled29 {
		return 0x1FFFFFFF
	}
	return 0x0FFFFFFF
}

// Split separates gid into its flip-free id and orientation flags.
// Combine(Split(gid)) == gid for every gid in both layouts.
func (l Layout) Split(gid uint32) (uint32, Flags) {
	flags := Flags{
		FlipHorizontal: gid&FlagFlipHorizontal != 0,
		FlipVertical:   gid&FlagFlipVertical != 0,
		FlipDiagonal:   gid&FlagFlipDiagonal != 0,
	}
	if l == LayoutLegacy28 {
		flags.Rotate120 = gid&FlagRotate120 != 0
	}
	return gid & l.Mask(), flags
}

// Combine packs a flip-free id and flags into a gid. Bits of id outside
// Mask are dropped.
func (l Layout) Combine(id uint32, flags Flags) uint32 {
	gid := id & l.Mask()
	if flags.FlipHorizontal {
		gid |= FlagFlipHorizontal
	}
	if flags.FlipVertical {
		gid |= FlagFlipVertical
	}
	if flags.FlipDiagonal {
		gid |= FlagFlipDiagonal
	}
	if flags.Rotate120 && l == LayoutLegacy28 {
		gid |= FlagRotate120
	}
	return gid
}

func (l Layout) String() string {
	if l == LayoutTiled29 {
		return "tiled29"
	}
	return "legacy28"
}

func Split(gid uint32) (uint32, Flags) {
	return DefaultLayout.Split(gid)
}

func Combine(id uint32, flags Flags) uint32 {
	return DefaultLayout.Combine(id, flags)
}
