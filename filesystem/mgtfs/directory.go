package mgtfs

import (
	"encoding/binary"
	"strings"

	"github.com/paleotronic/diskimg/diskimgerr"
	"github.com/paleotronic/diskimg/geometry"
)

const (
	dirEntrySize     = 256
	entriesPerSector = 512 / dirEntrySize // 2
	bitmapOffset     = 15
	bitmapLength     = 195
)

// DirEntry is a parsed 256-byte MGT directory entry.
type DirEntry struct {
	Type         FileType
	Name         string
	SectorsUsed  uint16
	StartSide    int
	StartTrack   int
	StartSector  int
	SectorBitmap [bitmapLength]byte
	TypeHeader   [46]byte
}

// parseDirEntry decodes one 256-byte slice. sectorCountOrder selects
// the endianness of the sectors-used field: DISCiPLE/+D uses
// big-endian, SAM uses little-endian, and the caller (the mounted
// Variant) must say which; it is never guessed.
func parseDirEntry(raw []byte, sectorCountOrder binary.ByteOrder) (DirEntry, error) {
	if len(raw) != dirEntrySize {
		return DirEntry{}, diskimgerr.Newf(diskimgerr.CorruptDirectory, "MGT directory entry must be %d bytes, got %d", dirEntrySize, len(raw))
	}

	e := DirEntry{Type: FileType(raw[0])}
	e.Name = strings.TrimRight(string(raw[1:11]), " ")
	e.SectorsUsed = sectorCountOrder.Uint16(raw[11:13])

	track := raw[13]
	if track&0x80 != 0 {
		e.StartSide = 1
		e.StartTrack = int(track &^ 0x80)
	} else {
		e.StartSide = 0
		e.StartTrack = int(track)
	}
	e.StartSector = int(raw[14])

	copy(e.SectorBitmap[:], raw[bitmapOffset:bitmapOffset+bitmapLength])
	copy(e.TypeHeader[:], raw[210:256])

	return e, nil
}

// readDirectory reads the directory entries from track 0, sectors 1..4
// on side 0 followed by sectors 1..4 on side 1 — 16 entries of 256
// bytes each, two per 512-byte sector.
func readDirectory(img *geometry.DiskImage, sectorCountOrder binary.ByteOrder) ([]DirEntry, error) {
	var entries []DirEntry
	for side := 0; side < 2; side++ {
		for sector := 1; sector <= 4; sector++ {
			data, err := img.ReadSector(side, 0, uint8(sector))
			if err != nil {
				return nil, diskimgerr.Wrap(diskimgerr.CorruptDirectory, err, "reading MGT directory sector")
			}
			for i := 0; i < entriesPerSector; i++ {
				off := i * dirEntrySize
				if off+dirEntrySize > len(data) {
					continue
				}
				e, err := parseDirEntry(data[off:off+dirEntrySize], sectorCountOrder)
				if err != nil {
					return nil, err
				}
				entries = append(entries, e)
			}
		}
	}
	return entries, nil
}
