// Package filesystem is the Filesystem Capability: a uniform surface
// over CP/M and MGT filesystem variants, grounded on paleotronic-diskm8's
// disk/int.go CatalogEntry/DiskImage capability-interface pattern,
// generalised from its Apple II format set to a variant set covering
// AmstradCpmSystem, AmstradCpmData, AmstradCpmIBM, Plus3Cpm, PcwCpm,
// EinsteinCpm, DiscipleMgt, and SamMgt.
package filesystem

import (
	"strings"

	"github.com/paleotronic/diskimg/geometry"
)

// Info summarises a mounted filesystem.
type Info struct {
	FSType        string
	TotalBlocks   int
	BlockSize     int
	FreeBlocks    int
	ReservedTracks int
}

// Entry is one directory listing entry. LocationHint is
// decoder-specific (the CP/M decoder gives the user number, e.g.
// "user 0"; the MGT decoder gives the file type name, e.g. "CODE") and
// is informational only.
type Entry struct {
	Name         string
	Size         int
	Attributes   Attributes
	LocationHint string
}

// Attributes are the filesystem-agnostic flags a directory entry may
// carry; CP/M maps R/O, System, Archive onto these, MGT leaves them
// zero (MGT has no analogous attribute bits).
type Attributes struct {
	ReadOnly bool
	System   bool
	Archive  bool
}

// Filesystem is the capability every variant decoder (package
// filesystem/cpm, filesystem/mgtfs) implements.
type Filesystem interface {
	Info() (Info, error)
	ReadDir() ([]Entry, error)
	ReadFile(name string) ([]byte, error)
	CanMount(img *geometry.DiskImage) bool
}

// Variant names a concrete filesystem dispatch target.
type Variant int

const (
	AutoDetect Variant = iota
	AmstradCpmSystem
	AmstradCpmData
	AmstradCpmIBM
	Plus3Cpm
	PcwCpm
	EinsteinCpm
	DiscipleMgt
	SamMgt
)

func (v Variant) String() string {
	switch v {
	case AmstradCpmSystem:
		return "AmstradCpmSystem"
	case AmstradCpmData:
		return "AmstradCpmData"
	case AmstradCpmIBM:
		return "AmstradCpmIBM"
	case Plus3Cpm:
		return "Plus3Cpm"
	case PcwCpm:
		return "PcwCpm"
	case EinsteinCpm:
		return "EinsteinCpm"
	case DiscipleMgt:
		return "DiscipleMgt"
	case SamMgt:
		return "SamMgt"
	default:
		return "AutoDetect"
	}
}

// ParseVariant maps the short command-line spellings of each variant
// (used by cmd/diskimg and cmd/diskimg/shell) onto a Variant. An empty
// string or "auto" both mean AutoDetect.
func ParseVariant(s string) (Variant, bool) {
	switch strings.ToLower(s) {
	case "", "auto":
		return AutoDetect, true
	case "cpm-system":
		return AmstradCpmSystem, true
	case "cpm-data":
		return AmstradCpmData, true
	case "cpm-ibm":
		return AmstradCpmIBM, true
	case "plus3":
		return Plus3Cpm, true
	case "pcw":
		return PcwCpm, true
	case "einstein":
		return EinsteinCpm, true
	case "disciple":
		return DiscipleMgt, true
	case "sam":
		return SamMgt, true
	default:
		return AutoDetect, false
	}
}
