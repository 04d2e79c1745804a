package cpm

import (
	"github.com/paleotronic/diskimg/diskimgerr"
	"github.com/paleotronic/diskimg/geometry"
)

// InferVariant implements auto-variant inference: read physical
// sector 0 of track 0 after applying each candidate's first sector ID.
// The Amstrad extended boot format byte at offset 0 discriminates
// {0x00 System, 0x01 Data, 0x02 IBM, 0x03 custom}; when that read
// fails or the boot byte is none of those, fall through to +3 (first
// ID 0x01), then PCW, then Einstein, validating by parsing the
// directory and requiring >=95% of entries to have a live/special user
// number.
//
// The second return value is non-nil only for the 0x03 custom case,
// in which case it carries the boot-sector-derived DPB to mount with
// (via MountCustom) instead of one of the named Variant presets.
func InferVariant(img *geometry.DiskImage) (Variant, *DPB, error) {
	if boot, err := img.ReadSector(0, 0, 0x41); err == nil && len(boot) > 0 {
		switch boot[0] {
		case 0x00:
			return VariantAmstradSystem, nil, nil
		}
	}
	if boot, err := img.ReadSector(0, 0, 0xC1); err == nil && len(boot) > 0 {
		switch boot[0] {
		case 0x01:
			return VariantAmstradData, nil, nil
		}
	}
	if boot, err := img.ReadSector(0, 0, 0x01); err == nil && len(boot) > 0 {
		switch boot[0] {
		case 0x02:
			return VariantAmstradIBM, nil, nil
		case 0x03:
			dpb, err := parseCustomDPB(boot)
			if err != nil {
				return 0, nil, err
			}
			return VariantCustom, &dpb, nil
		}
	}

	for _, v := range []Variant{VariantPlus3, VariantPCW, VariantEinstein} {
		fs := Mount(img, v)
		entries, err := fs.readDirectoryRaw()
		if err != nil {
			continue
		}
		if directoryLooksValid(entries) {
			return v, nil, nil
		}
	}

	return 0, nil, diskimgerr.New(diskimgerr.UnsupportedVariant, "no CP/M variant's directory validated against this image")
}

// parseCustomDPB decodes the boot-byte-0x03 "custom" DPB override
// fields at boot offsets 1..9: sectors per track, reserved tracks,
// block shift (BlockSize = 128<<BSH), block count and directory entry
// count (both little-endian uint16), a 16-bit-block-pointer flag, and
// the first sector ID. No skew table is assumed for a custom format.
func parseCustomDPB(boot []byte) (DPB, error) {
	if len(boot) < 10 {
		return DPB{}, diskimgerr.New(diskimgerr.CorruptContainer, "custom DPB boot sector shorter than 10 bytes")
	}
	return DPB{
		SectorsPerTrack: int(boot[1]),
		ReservedTracks:  int(boot[2]),
		BlockSize:       128 << int(boot[3]),
		BlockCount:      int(boot[4]) | int(boot[5])<<8,
		DirEntryCount:   int(boot[6]) | int(boot[7])<<8,
		Wide:            boot[8] != 0,
		FirstSectorID:   boot[9],
	}, nil
}

// directoryLooksValid requires at least 95% of entries to have a user
// number in 0x00..0x1F or be the deleted marker 0xE5 — the
// fall-through validation rule for variants with no distinguishing
// boot byte.
func directoryLooksValid(entries []DirEntry) bool {
	if len(entries) == 0 {
		return false
	}
	valid := 0
	for _, e := range entries {
		if e.IsLive() || e.IsSpecial() || e.IsDeleted() {
			valid++
		}
	}
	return valid*100 >= len(entries)*95
}
