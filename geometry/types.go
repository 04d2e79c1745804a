// Package geometry is the Geometry Model: the in-memory side→track→sector
// tree every other component reads or mutates. It owns no file-format
// knowledge (that is the Container Codec's job) and no filesystem
// knowledge (that is the Filesystem Capability's job); it only enforces
// the structural invariants a disk image must hold.
package geometry

// ContainerFormat tags which on-disk container an image was decoded
// from, or is destined to be serialised as.
type ContainerFormat int

const (
	StandardDSK ContainerFormat = iota
	ExtendedDSK
	MGTRaw
)

func (f ContainerFormat) String() string {
	switch f {
	case StandardDSK:
		return "StandardDSK"
	case ExtendedDSK:
		return "ExtendedDSK"
	case MGTRaw:
		return "MGTRaw"
	default:
		return "Unknown"
	}
}

// FilesystemHint names the filesystem a FormatSpec expects to carry,
// used by presets and by auto-mount.
type FilesystemHint int

const (
	FSNone FilesystemHint = iota
	FSCPM
	FSMGT
)

// FormatSpec is the desired geometry for the Image Builder: sides,
// tracks, sectors-per-track, sector size, first sector ID, filler byte,
// gap length, and a filesystem hint. Presets (package presets) are named
// FormatSpec values.
type FormatSpec struct {
	Name          string
	Sides         int
	Tracks        int
	SectorsPerTrack int
	SectorSize    int // bytes, must be 128<<N for some N in 0..6
	FirstSectorID uint8
	FillerByte    uint8
	Gap3Length    uint8
	Filesystem    FilesystemHint
}

// SizeCode returns N such that 128<<N == SectorSize, or -1 if SectorSize
// is not a valid FDC size.
func (s FormatSpec) SizeCode() int {
	for n := 0; n <= 6; n++ {
		if 128<<n == s.SectorSize {
			return n
		}
	}
	return -1
}

// DiskImage is the top-level entity: the container format it was decoded
// from (or will be encoded as), an optional 14-byte creator/tool
// identifier, and an ordered sequence of Disks, one per side.
//
// Signature and DeclaredTrackSize preserve the exact header bytes a
// Standard/Extended DSK was decoded from, so re-encoding a decoded
// image reproduces the original file byte-for-byte instead of a
// canonical-but-different one; both are zero-value (and ignored by
// the builder) for images that did not come from a decode.
//
// Invariant: all Disks share the same side count and have track indices
// from 0 upward, contiguous (enforced by construction; no API exposes a
// sparse track sequence).
type DiskImage struct {
	Format            ContainerFormat
	Creator           string // up to 14 bytes; truncated/padded on encode
	Signature         string // the 34-byte DSK header signature, verbatim; "" means use the canonical one
	DeclaredTrackSize int    // Standard DSK's single declared per-track size; 0 means compute the minimum
	Disks             []*Disk
}

// Disk represents one physical side: an ordered sequence of Tracks
// indexed by cylinder number (track index == position in sequence).
type Disk struct {
	Side   int
	Tracks []*Track
}

// Track is a physical track on a side. Sectors are kept in physical
// order (as encountered during a revolution), NOT sorted by R — multiple
// sectors sharing an R value, or appearing out of numeric order, are
// both legitimate and load-bearing for protection detection.
//
// A Track may be empty (unformatted); in Extended DSK this corresponds
// to a declared track length of 0.
type Track struct {
	Cylinder        int
	Side            int
	SizeCode        int // N: 0=128 .. 6=8192 bytes
	SectorsPerTrack int // nominal, from the format; may differ from len(Sectors)
	Gap3Length      uint8
	FillerByte      uint8
	Sectors         []*Sector
}

// Empty reports whether the track carries no recorded sectors.
func (t *Track) Empty() bool { return len(t.Sectors) == 0 }

// Sector is the atomic unit: its CHRN address as actually recorded in
// the sector's ID field (which may legitimately differ from the
// containing Track's cylinder/side — protections exploit this), its FDC
// status registers, and its data payload.
//
// CopyCount > 1 marks a weak sector (Extended DSK V5): Data then holds
// CopyCount successive nominal-sized copies back to back.
type Sector struct {
	C, H, R, N uint8
	ST1        ST1
	ST2        ST2
	Data       []byte
	CopyCount  int
}

// NominalSize is 128<<N, the size the sector's own N code declares.
func (s *Sector) NominalSize() int { return 128 << int(s.N) }

// ActualSize is len(Data): may exceed NominalSize (weak/long sectors in
// Extended DSK) or be 0.
func (s *Sector) ActualSize() int { return len(s.Data) }
