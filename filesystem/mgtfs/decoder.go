package mgtfs

import (
	"encoding/binary"

	"github.com/paleotronic/diskimg/diskimgerr"
	"github.com/paleotronic/diskimg/filesystem"
	"github.com/paleotronic/diskimg/geometry"
)

// ByteOrder selects the endianness a variant uses for the directory
// entry's sectors-used field. The design
// treats it as variant-selected, never guessed.
var (
	DiscipleByteOrder binary.ByteOrder = binary.BigEndian
	SAMByteOrder       binary.ByteOrder = binary.LittleEndian
)

// FS is a mounted MGT filesystem (DISCiPLE/+D or SAM Coupé).
type FS struct {
	img       *geometry.DiskImage
	variant   filesystem.Variant
	byteOrder binary.ByteOrder
}

// Mount binds variant to img. variant must be filesystem.DiscipleMgt or
// filesystem.SamMgt.
func Mount(img *geometry.DiskImage, variant filesystem.Variant) *FS {
	order := DiscipleByteOrder
	if variant == filesystem.SamMgt {
		order = SAMByteOrder
	}
	return &FS{img: img, variant: variant, byteOrder: order}
}

// CanMount implements filesystem.Filesystem: the image must carry the
// fixed MGT geometry (2 sides, 80 tracks, 10 sectors/track) that
// package container's MGT raw decoder always produces.
func (f *FS) CanMount(img *geometry.DiskImage) bool {
	if len(img.Disks) != 2 {
		return false
	}
	for _, d := range img.Disks {
		if len(d.Tracks) != 80 {
			return false
		}
		for _, t := range d.Tracks {
			if t.SectorsPerTrack != 10 {
				return false
			}
		}
	}
	return true
}

func (f *FS) Info() (filesystem.Info, error) {
	entries, err := readDirectory(f.img, f.byteOrder)
	if err != nil {
		return filesystem.Info{}, err
	}
	used := 0
	for _, e := range entries {
		if !e.Type.IsErased() {
			used++
		}
	}
	return filesystem.Info{
		FSType:         f.variant.String(),
		TotalBlocks:    2 * 80 * 10,
		BlockSize:      512,
		FreeBlocks:     2*80*10 - used,
		ReservedTracks: 1,
	}, nil
}

func (f *FS) ReadDir() ([]filesystem.Entry, error) {
	entries, err := readDirectory(f.img, f.byteOrder)
	if err != nil {
		return nil, err
	}
	var out []filesystem.Entry
	for _, e := range entries {
		if e.Type.IsErased() || e.Name == "" {
			continue
		}
		out = append(out, filesystem.Entry{
			Name:         e.Name,
			Size:         declaredLength(e),
			LocationHint: e.Type.String(),
		})
	}
	return out, nil
}

// declaredLength reads the type-specific length field when the header
// carries one and returns -1 otherwise. ReadFile then returns the full
// reconstructed payload; ReadDir reports the -1 as the entry's Size.
func declaredLength(e DirEntry) int {
	switch e.Type {
	case TypeBasic, TypeNumArray, TypeStrArray, TypeCode:
		// Conventional Sinclair header layout: length at header offset
		// 2..3 (little-endian) within the 46-byte type-specific block.
		if len(e.TypeHeader) >= 4 {
			return int(binary.LittleEndian.Uint16(e.TypeHeader[2:4]))
		}
	}
	return -1
}

func (f *FS) ReadFile(name string) ([]byte, error) {
	entries, err := readDirectory(f.img, f.byteOrder)
	if err != nil {
		return nil, err
	}
	var found *DirEntry
	for i := range entries {
		if entries[i].Name == name && !entries[i].Type.IsErased() {
			found = &entries[i]
			break
		}
	}
	if found == nil {
		return nil, diskimgerr.Newf(diskimgerr.FileNotFound, "%s not found", name)
	}

	payload, err := f.reconstruct(found.StartSide, found.StartTrack, found.StartSector)
	if err != nil {
		return nil, err
	}

	if n := declaredLength(*found); n >= 0 && n <= len(payload) {
		return payload[:n], nil
	}
	return payload, nil
}

// reconstruct implements chain-pointer file
// reconstruction: each data sector holds 510 bytes of payload followed
// by a 2-byte (track, sector) pointer to the next sector, terminated by
// (0,0).
func (f *FS) reconstruct(side, track, sector int) ([]byte, error) {
	var out []byte
	seen := map[[3]int]bool{}

	for {
		if track == 0 && sector == 0 {
			break
		}
		key := [3]int{side, track, sector}
		if seen[key] {
			return nil, diskimgerr.New(diskimgerr.CorruptDirectory, "MGT sector chain loops")
		}
		seen[key] = true

		data, err := f.img.ReadSector(side, track, uint8(sector))
		if err != nil {
			return nil, diskimgerr.Wrap(diskimgerr.CorruptDirectory, err, "reading MGT data sector")
		}
		if len(data) < 512 {
			return nil, diskimgerr.New(diskimgerr.CorruptDirectory, "MGT data sector shorter than 512 bytes")
		}

		out = append(out, data[:510]...)

		nextTrackByte := data[510]
		nextSector := int(data[511])
		if nextTrackByte&0x80 != 0 {
			side = 1
			track = int(nextTrackByte &^ 0x80)
		} else {
			side = 0
			track = int(nextTrackByte)
		}
		sector = nextSector
	}

	return out, nil
}
