// Package cpm is the CP/M Decoder (Component E): DPB-driven directory
// parsing, extent assembly, block→sector mapping, and auto-variant
// inference for the Amstrad/+3/PCW/Einstein CP/M variants. Directory
// entries follow the classic 32-byte layout (binary.Read, deleted/
// unused status handling); extents are assembled by grouping live
// entries by (user, name) and sorting each group by (S2, EX).
package cpm

import "github.com/paleotronic/diskimg/filesystem"

// DPB is the CP/M Disk Parameter Block: the geometry and allocation
// descriptor CP/M names by field.
type DPB struct {
	ReservedTracks  int
	SectorsPerTrack int
	BlockSize       int // BLS: 1024, 2048, or 4096
	BlockCount      int // DSM+1
	DirEntryCount   int // DRM+1
	Wide            bool // block pointer width: false=8-bit (DSM<256), true=16-bit
	Skew            []int // logical-sector -> physical-sector-offset permutation; nil = identity
	FirstSectorID   uint8
}

// Variant is a named CP/M DPB preset, mapped 1:1 onto
// filesystem.Variant's CP/M members. VariantCustom has no fixed DPB of
// its own: it is produced only by InferVariant's boot-byte-0x03 path
// and mounted via MountCustom with an explicit, boot-sector-derived
// DPB.
type Variant int

const (
	VariantAmstradSystem Variant = iota
	VariantAmstradData
	VariantAmstradIBM
	VariantPlus3
	VariantPCW
	VariantEinstein
	VariantCustom
)

// amstradSkew is the rotating 9-sector skew table Amstrad CPC CP/M
// formats use to optimise sequential read latency; +3/PCW/Einstein use
// an identity (no-skew) table.
var amstradSkew = []int{0, 3, 6, 1, 4, 7, 2, 5, 8}

// DPBFor returns the conventional DPB for a named CP/M variant: BLS
// 1024, DRM+1 = 64 entries, 8-bit block pointers for all of these
// single-sided 40-track/9-sector/512 formats. Reserved-track counts
// differ per variant (Amstrad System reserves 2 tracks for the boot
// loader, Amstrad Data reserves none since it carries no boot code,
// +3/PCW reserve 1, Einstein reserves 2, and IBM-format CP/M
// conventionally reserves 1); DSM+1 is derived from
// (40-reserved)*9*512/1024.
func DPBFor(v Variant) DPB {
	base := DPB{
		SectorsPerTrack: 9,
		BlockSize:       1024,
		DirEntryCount:   64,
		Wide:            false,
	}

	switch v {
	case VariantAmstradSystem:
		base.FirstSectorID = 0x41
		base.Skew = amstradSkew
		base.ReservedTracks = 2
	case VariantAmstradData:
		base.FirstSectorID = 0xC1
		base.Skew = amstradSkew
		base.ReservedTracks = 0
	case VariantAmstradIBM:
		base.FirstSectorID = 0x01
		base.ReservedTracks = 1
	case VariantPlus3:
		base.FirstSectorID = 0x01
		base.ReservedTracks = 1
	case VariantPCW:
		base.FirstSectorID = 0x01
		base.ReservedTracks = 1
	case VariantEinstein:
		base.FirstSectorID = 0x01
		base.ReservedTracks = 2
	}

	base.BlockCount = (40 - base.ReservedTracks) * base.SectorsPerTrack * 512 / base.BlockSize
	return base
}

// ToFSVariant maps a cpm.Variant onto the filesystem package's Variant
// enum, used when reporting which variant a mount selected.
func (v Variant) ToFSVariant() filesystem.Variant {
	switch v {
	case VariantAmstradSystem:
		return filesystem.AmstradCpmSystem
	case VariantAmstradData:
		return filesystem.AmstradCpmData
	case VariantAmstradIBM:
		return filesystem.AmstradCpmIBM
	case VariantPlus3:
		return filesystem.Plus3Cpm
	case VariantPCW:
		return filesystem.PcwCpm
	case VariantEinstein:
		return filesystem.EinsteinCpm
	default:
		return filesystem.AutoDetect
	}
}

// PhysicalSectorID maps a zero-based logical sector index within a
// track to the physical sector ID (R) via the DPB's skew table and
// first sector ID.
func (d DPB) PhysicalSectorID(logicalIndex int) uint8 {
	if len(d.Skew) == 0 {
		return d.FirstSectorID + uint8(logicalIndex)
	}
	offset := d.Skew[logicalIndex%len(d.Skew)]
	return d.FirstSectorID + uint8(offset)
}

// RecordsPerBlock is BLS/128, the number of 128-byte CP/M logical
// records one allocation block holds.
func (d DPB) RecordsPerBlock() int { return d.BlockSize / 128 }

// RecordsPerTrack is the track-level counterpart of RecordsPerBlock,
// used to locate a logical record's (reserved-tracks offset +
// logical-sector index).
func (d DPB) RecordsPerTrack() int { return d.SectorsPerTrack * (512 / 128) }
