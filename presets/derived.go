package presets

import "github.com/paleotronic/diskimg/geometry"

// DPBDefaults carries the CP/M Disk Parameter Block fields a FormatSpec
// implies, derived rather than stored: block size, block count, usable
// capacity, and records per track all fall out of the same geometry
// descriptor. Package filesystem/cpm does not read these values; its
// DPBFor keeps its own per-variant table with the same reserved-track
// counts.
type DPBDefaults struct {
	ReservedTracks int
	BlockSize      int // BLS: 1024, 2048, or 4096
	DirectoryBlocks int
}

// Defaults returns the conventional DPB starting point for a CP/M
// preset: a 1024-byte block with 2 directory blocks on a single-sided
// 40-track/9-sector/512-byte disk, but a reserved-track count that
// varies by preset — Amstrad System reserves 2 tracks for its boot
// loader, Amstrad Data reserves none (it carries no boot code), +3/PCW
// reserve 1, Einstein reserves 2, and Amstrad IBM-format conventionally
// reserves 1. The four presets with no CP/M filesystem (IBM PC 360K/
// 720K, MGT +D/DISCiPLE, SAM Coupe) report 0; callers should consult
// FormatSpec.Filesystem before
// relying on a non-CP/M preset's DPB defaults.
func Defaults(n Name) DPBDefaults {
	reserved := 0
	switch n {
	case AmstradCPCSystem:
		reserved = 2
	case AmstradCPCData:
		reserved = 0
	case AmstradCPCIBM:
		reserved = 1
	case ZXSpectrumPlus3:
		reserved = 1
	case AmstradPCW:
		reserved = 1
	case TatungEinstein:
		reserved = 2
	}
	return DPBDefaults{ReservedTracks: reserved, BlockSize: 1024, DirectoryBlocks: 2}
}

// UsableCapacityBytes is the disk's raw capacity minus the reserved
// boot tracks, in bytes — the space available to the block allocator.
func UsableCapacityBytes(spec geometry.FormatSpec, reservedTracks int) int {
	totalTracks := spec.Tracks - reservedTracks
	if totalTracks < 0 {
		totalTracks = 0
	}
	return totalTracks * spec.SectorsPerTrack * spec.SectorSize
}

// BlockCount is the number of allocation blocks of blockSize that fit in
// the disk's usable capacity (DPB's DSM+1).
func BlockCount(spec geometry.FormatSpec, reservedTracks, blockSize int) int {
	if blockSize <= 0 {
		return 0
	}
	return UsableCapacityBytes(spec, reservedTracks) / blockSize
}

// RecordsPerTrack is the number of 128-byte CP/M logical records one
// physical track holds.
func RecordsPerTrack(spec geometry.FormatSpec) int {
	return spec.SectorsPerTrack * (spec.SectorSize / 128)
}

// TotalCapacityKB mirrors geometry.DiskImage.TotalCapacityKB for a spec
// that has not yet been materialised into an image.
func TotalCapacityKB(spec geometry.FormatSpec) int {
	return spec.Sides * spec.Tracks * spec.SectorsPerTrack * spec.SectorSize / 1024
}
