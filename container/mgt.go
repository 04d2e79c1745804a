package container

import (
	"github.com/paleotronic/diskimg/diskimgerr"
	"github.com/paleotronic/diskimg/geometry"
)

const (
	mgtSides           = 2
	mgtTracksPerSide   = 80
	mgtSectorsPerTrack = 10
	mgtSectorSize      = 512
)

// decodeMGTRaw parses the headerless, fixed-geometry MGT container:
// 819,200 bytes = 2 sides * 80 tracks * 10 sectors * 512 bytes. CHRN is
// synthesised (C=track, H=side, R=1..10, N=2); ST1=ST2=0.
func decodeMGTRaw(data []byte) (*geometry.DiskImage, error) {
	if len(data) != mgtRawSize {
		return nil, diskimgerr.Newf(diskimgerr.CorruptContainer, "MGT raw image must be exactly %d bytes, got %d", mgtRawSize, len(data))
	}

	img := &geometry.DiskImage{Format: geometry.MGTRaw, Disks: make([]*geometry.Disk, mgtSides)}
	offset := 0
	for side := 0; side < mgtSides; side++ {
		disk := &geometry.Disk{Side: side, Tracks: make([]*geometry.Track, mgtTracksPerSide)}
		for cyl := 0; cyl < mgtTracksPerSide; cyl++ {
			track := &geometry.Track{
				Cylinder: cyl, Side: side, SizeCode: 2, SectorsPerTrack: mgtSectorsPerTrack,
			}
			for r := 1; r <= mgtSectorsPerTrack; r++ {
				payload := append([]byte(nil), data[offset:offset+mgtSectorSize]...)
				offset += mgtSectorSize
				track.Sectors = append(track.Sectors, &geometry.Sector{
					C: uint8(cyl), H: uint8(side), R: uint8(r), N: 2, Data: payload, CopyCount: 1,
				})
			}
			disk.Tracks[cyl] = track
		}
		img.Disks[side] = disk
	}

	return img, nil
}

// encodeMGTRaw serialises img as an 819,200-byte MGT raw container.
// Sectors are always emitted in physical order 1..10 per track on
// write, regardless of how they happen to be ordered in memory.
func encodeMGTRaw(img *geometry.DiskImage) ([]byte, error) {
	if len(img.Disks) != mgtSides {
		return nil, diskimgerr.Newf(diskimgerr.InvalidParameters, "MGT raw requires exactly %d sides, got %d", mgtSides, len(img.Disks))
	}
	out := make([]byte, 0, mgtRawSize)
	for side := 0; side < mgtSides; side++ {
		if len(img.Disks[side].Tracks) != mgtTracksPerSide {
			return nil, diskimgerr.Newf(diskimgerr.InvalidParameters, "MGT raw requires exactly %d tracks per side", mgtTracksPerSide)
		}
		for cyl := 0; cyl < mgtTracksPerSide; cyl++ {
			t := img.Disks[side].Tracks[cyl]
			for r := uint8(1); r <= mgtSectorsPerTrack; r++ {
				s, err := t.FindSector(r)
				if err != nil {
					return nil, diskimgerr.Newf(diskimgerr.InvalidParameters, "track %d side %d missing sector R=%d", cyl, side, r)
				}
				buf := make([]byte, mgtSectorSize)
				copy(buf, s.Data)
				out = append(out, buf...)
			}
		}
	}
	return out, nil
}
