package geometry

import "github.com/paleotronic/diskimg/diskimgerr"

// NewEmpty builds a DiskImage with the given number of sides and tracks,
// each track carrying no sectors yet (caller/builder populates them).
// This is the constructor the Image Builder (package builder) delegates
// to.
func NewEmpty(format ContainerFormat, sides, tracks int) *DiskImage {
	img := &DiskImage{Format: format, Disks: make([]*Disk, sides)}
	for s := 0; s < sides; s++ {
		disk := &Disk{Side: s, Tracks: make([]*Track, tracks)}
		for t := 0; t < tracks; t++ {
			disk.Tracks[t] = &Track{Cylinder: t, Side: s}
		}
		img.Disks[s] = disk
	}
	return img
}

// Disk returns the Disk for the given side, or an OutOfRange error.
func (img *DiskImage) Disk(side int) (*Disk, error) {
	if side < 0 || side >= len(img.Disks) {
		return nil, diskimgerr.Newf(diskimgerr.OutOfRange, "side %d out of range [0,%d)", side, len(img.Disks))
	}
	return img.Disks[side], nil
}

// Track returns the Track at the given side/cylinder, or an OutOfRange
// error.
func (img *DiskImage) Track(side, track int) (*Track, error) {
	d, err := img.Disk(side)
	if err != nil {
		return nil, err
	}
	if track < 0 || track >= len(d.Tracks) {
		return nil, diskimgerr.Newf(diskimgerr.OutOfRange, "track %d out of range [0,%d) on side %d", track, len(d.Tracks), side)
	}
	return d.Tracks[track], nil
}

// FindSector returns the first Sector in physical order on the given
// track whose R equals sectorID. Lookup by (C,H,R,N) may be ambiguous
// when copies of a sector share the same R under weak-sector
// duplication, so only R is matched and the first physical occurrence
// wins.
func (t *Track) FindSector(sectorID uint8) (*Sector, error) {
	for _, s := range t.Sectors {
		if s.R == sectorID {
			return s, nil
		}
	}
	return nil, diskimgerr.Newf(diskimgerr.SectorNotFound, "no sector with R=0x%02X on track %d side %d", sectorID, t.Cylinder, t.Side)
}

// ReadSector reads the data of the first sector in physical order on
// (side, track) whose R == sectorID.
func (img *DiskImage) ReadSector(side, track int, sectorID uint8) ([]byte, error) {
	t, err := img.Track(side, track)
	if err != nil {
		return nil, err
	}
	s, err := t.FindSector(sectorID)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(s.Data))
	copy(out, s.Data)
	return out, nil
}

// WriteSector overwrites the data of the first sector in physical order
// on (side, track) whose R == sectorID. For StandardDSK images, a
// payload length mismatch against the sector's declared nominal size is
// a DataLengthMismatch error; ExtendedDSK accepts any length and updates
// the sector's actual length in place.
func (img *DiskImage) WriteSector(side, track int, sectorID uint8, data []byte) error {
	t, err := img.Track(side, track)
	if err != nil {
		return err
	}
	s, err := t.FindSector(sectorID)
	if err != nil {
		return err
	}
	if img.Format == StandardDSK && len(data) != s.NominalSize() {
		return diskimgerr.Newf(diskimgerr.DataLengthMismatch,
			"write to (side %d, track %d, sector 0x%02X): payload length %d != declared size %d",
			side, track, sectorID, len(data), s.NominalSize())
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.Data = buf
	return nil
}

// TotalCapacityKB sums, over every track, nominal sectors-per-track
// times nominal sector size.
func (img *DiskImage) TotalCapacityKB() int {
	total := 0
	for _, d := range img.Disks {
		for _, t := range d.Tracks {
			total += t.SectorsPerTrack * (128 << t.SizeCode)
		}
	}
	return total / 1024
}

// Tracks iterates every track across every disk, side-major in the
// order Disks/Tracks are stored; callers needing the container's
// on-disk ordering use the container package directly.
func (img *DiskImage) Tracks() []*Track {
	var out []*Track
	for _, d := range img.Disks {
		out = append(out, d.Tracks...)
	}
	return out
}

// SectorStatus classifies a sector's payload: whether it carries no
// data, a uniform filler/odd-filler byte, or real content. Used by
// protection.IsUniform as a "looks blank" signal and by the builder's
// tests to check freshly built sectors.
type SectorStatus int

const (
	Unformatted SectorStatus = iota
	FormattedFiller
	FormattedOddFiller
	FormattedInUse
)

// Status classifies s against fillerByte: the byte a freshly built, not
// yet written track was filled with.
func (s *Sector) Status(fillerByte byte) SectorStatus {
	if len(s.Data) == 0 {
		return Unformatted
	}
	allFiller := true
	for _, b := range s.Data {
		if b != fillerByte {
			allFiller = false
			break
		}
	}
	if allFiller {
		return FormattedFiller
	}
	first := s.Data[0]
	allUniform := true
	for _, b := range s.Data {
		if b != first {
			allUniform = false
			break
		}
	}
	if allUniform {
		return FormattedOddFiller
	}
	return FormattedInUse
}
