package cpm

import (
	"fmt"

	"github.com/paleotronic/diskimg/diskimgerr"
	"github.com/paleotronic/diskimg/filesystem"
	"github.com/paleotronic/diskimg/geometry"
)

// FS is a mounted CP/M filesystem: a Disk (side 0 of the image — every
// CP/M variant here is single-sided) plus the DPB that governs it.
type FS struct {
	img     *geometry.DiskImage
	side    int
	dpb     DPB
	variant Variant
}

// Mount binds a DPB to side 0 of img, validating nothing eagerly:
// decoders take immutable views and do no work until asked.
func Mount(img *geometry.DiskImage, variant Variant) *FS {
	return &FS{img: img, side: 0, dpb: DPBFor(variant), variant: variant}
}

// MountCustom binds an explicit, caller-supplied DPB (as produced by
// InferVariant's boot-byte-0x03 path) instead of one of the named
// Variant presets.
func MountCustom(img *geometry.DiskImage, dpb DPB) *FS {
	return &FS{img: img, side: 0, dpb: dpb, variant: VariantCustom}
}

// CanMount implements filesystem.Filesystem: a disk can mount as CP/M
// when physical sector 0 of track 0 (at the variant's first sector ID)
// is readable. Real discrimination between variants happens in
// InferVariant, not here.
func (f *FS) CanMount(img *geometry.DiskImage) bool {
	_, err := img.ReadSector(0, 0, f.dpb.FirstSectorID)
	return err == nil
}

// Info implements filesystem.Filesystem.
func (f *FS) Info() (filesystem.Info, error) {
	entries, err := f.readDirectoryRaw()
	if err != nil {
		return filesystem.Info{}, err
	}
	used := map[int]bool{}
	groups := groupExtents(entries)
	for _, extents := range groups {
		for _, blk := range extents {
			for _, b := range blockPointers(blk, f.dpb) {
				used[b] = true
			}
		}
	}
	return filesystem.Info{
		FSType:         f.variant.ToFSVariant().String(),
		TotalBlocks:    f.dpb.BlockCount,
		BlockSize:      f.dpb.BlockSize,
		FreeBlocks:     f.dpb.BlockCount - len(used),
		ReservedTracks: f.dpb.ReservedTracks,
	}, nil
}

// readDirectoryRaw reads and parses the directory area's (DRM+1)
// entries, applying a corruption threshold: entries whose user number
// is outside 0x00..0x1F and not 0xE5 are corruption only if they
// exceed 5% of entries; a single such entry is merely skipped.
func (f *FS) readDirectoryRaw() ([]DirEntry, error) {
	entriesPerSector := 512 / dirEntrySize
	var entries []DirEntry
	bad := 0

	for i := 0; i < f.dpb.DirEntryCount; i++ {
		sectorIdx := i / entriesPerSector
		offsetInSector := (i % entriesPerSector) * dirEntrySize

		logicalSector := sectorIdx
		track := f.dpb.ReservedTracks + logicalSector/f.dpb.SectorsPerTrack
		logicalInTrack := logicalSector % f.dpb.SectorsPerTrack
		r := f.dpb.PhysicalSectorID(logicalInTrack)

		data, err := f.img.ReadSector(f.side, track, r)
		if err != nil {
			return nil, diskimgerr.Wrap(diskimgerr.CorruptDirectory, err, "reading directory sector")
		}
		if offsetInSector+dirEntrySize > len(data) {
			continue
		}

		e, err := parseDirEntry(data[offsetInSector:offsetInSector+dirEntrySize], f.dpb.Wide)
		if err != nil {
			return nil, diskimgerr.Wrap(diskimgerr.CorruptDirectory, err, "parsing directory entry")
		}

		if !e.IsDeleted() && !e.IsSpecial() && !e.IsLive() {
			bad++
			continue
		}

		entries = append(entries, e)
	}

	if f.dpb.DirEntryCount > 0 && bad*100 > f.dpb.DirEntryCount*5 {
		return nil, diskimgerr.Newf(diskimgerr.CorruptDirectory, "%d of %d directory entries have an invalid user number", bad, f.dpb.DirEntryCount)
	}

	return entries, nil
}

// ReadDir implements filesystem.Filesystem.
func (f *FS) ReadDir() ([]filesystem.Entry, error) {
	raw, err := f.readDirectoryRaw()
	if err != nil {
		return nil, err
	}
	groups := groupExtents(raw)

	var out []filesystem.Entry
	for _, extents := range groups {
		first := extents[0]
		out = append(out, filesystem.Entry{
			Name: first.Filename(),
			Size: FileSize(extents),
			Attributes: filesystem.Attributes{
				ReadOnly: first.ReadOnly, System: first.System, Archive: first.Archive,
			},
			LocationHint: fmt.Sprintf("user %d", first.UserNumber),
		})
	}
	return out, nil
}

// ReadFile implements filesystem.Filesystem: assembles a file's bytes
// from its sorted extents and their allocation blocks.
func (f *FS) ReadFile(name string) ([]byte, error) {
	raw, err := f.readDirectoryRaw()
	if err != nil {
		return nil, err
	}
	groups := groupExtents(raw)

	var extents []DirEntry
	for _, g := range groups {
		if g[0].Filename() == name {
			extents = g
			break
		}
	}
	if extents == nil {
		return nil, diskimgerr.Newf(diskimgerr.FileNotFound, "%s not found", name)
	}

	var out []byte
	for i, e := range extents {
		blocks := blockPointers(e, f.dpb)
		recordsRemaining := int(e.RC)
		for _, blk := range blocks {
			if recordsRemaining <= 0 {
				break
			}
			data, err := f.readBlock(blk)
			if err != nil {
				if i == len(extents)-1 {
					return nil, diskimgerr.Wrap(diskimgerr.CorruptDirectory, err, "reading block for last extent of "+name)
				}
				return nil, diskimgerr.Wrap(diskimgerr.CorruptDirectory, err, "reading block for "+name)
			}
			take := recordsRemaining * 128
			if take > len(data) {
				take = len(data)
			}
			out = append(out, data[:take]...)
			recordsRemaining -= f.dpb.RecordsPerBlock()
		}
	}
	return out, nil
}

// blockPointers extracts the non-zero allocation block numbers from a
// directory entry, honouring the DPB's pointer width.
func blockPointers(e DirEntry, dpb DPB) []int {
	var out []int
	if dpb.Wide {
		for _, b := range e.Blocks16 {
			if b != 0 {
				out = append(out, int(b))
			}
		}
	} else {
		for _, b := range e.Blocks8 {
			if b != 0 {
				out = append(out, int(b))
			}
		}
	}
	return out
}

// readBlock reads one allocation block's worth of bytes, mapping it to
// physical sectors via the DPB's skew table.
func (f *FS) readBlock(blockNum int) ([]byte, error) {
	recordsPerBlock := f.dpb.RecordsPerBlock()
	firstRecord := blockNum * recordsPerBlock

	var out []byte
	for i := 0; i < recordsPerBlock; i++ {
		record := firstRecord + i
		track := f.dpb.ReservedTracks + record/f.dpb.RecordsPerTrack()
		logicalInTrack := (record % f.dpb.RecordsPerTrack()) / (512 / 128)
		r := f.dpb.PhysicalSectorID(logicalInTrack)

		data, err := f.img.ReadSector(f.side, track, r)
		if err != nil {
			return nil, err
		}
		recOffset := (record % (512 / 128)) * 128
		if recOffset+128 > len(data) {
			return nil, diskimgerr.New(diskimgerr.CorruptDirectory, "allocation record extends beyond sector")
		}
		out = append(out, data[recOffset:recOffset+128]...)
	}
	return out, nil
}
