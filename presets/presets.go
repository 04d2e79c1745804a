// Package presets is the Format Presets component: named geometries for
// the machines this library targets. Grounded on paleotronic-diskm8's
// disk/diskimage.go DiskFormat switch-table pattern (ID/BPD()/TPD()/
// SPT() methods over named constants), generalised from Apple II
// formats to the Amstrad/Spectrum/MGT set names.
package presets

import "github.com/paleotronic/diskimg/geometry"

// Name identifies one of the enumerated format presets.
type Name int

const (
	AmstradCPCSystem Name = iota
	AmstradCPCData
	AmstradCPCIBM
	ZXSpectrumPlus3
	AmstradPCW
	TatungEinstein
	IBMPC360K
	IBMPC720K
	MGTDiscipleplus3
	SAMCoupe
)

func (n Name) String() string {
	switch n {
	case AmstradCPCSystem:
		return "Amstrad CPC System"
	case AmstradCPCData:
		return "Amstrad CPC Data"
	case AmstradCPCIBM:
		return "Amstrad CPC IBM"
	case ZXSpectrumPlus3:
		return "ZX Spectrum +3"
	case AmstradPCW:
		return "Amstrad PCW"
	case TatungEinstein:
		return "Tatung Einstein"
	case IBMPC360K:
		return "IBM PC 360K"
	case IBMPC720K:
		return "IBM PC 720K"
	case MGTDiscipleplus3:
		return "MGT +D/DISCiPLE"
	case SAMCoupe:
		return "SAM Coupe"
	default:
		return "Unknown"
	}
}

// Spec returns the FormatSpec for a named preset.
func Spec(n Name) geometry.FormatSpec {
	switch n {
	case AmstradCPCSystem:
		return geometry.FormatSpec{Name: n.String(), Sides: 1, Tracks: 40, SectorsPerTrack: 9, SectorSize: 512, FirstSectorID: 0x41, FillerByte: 0xE5, Gap3Length: 0x4E, Filesystem: geometry.FSCPM}
	case AmstradCPCData:
		return geometry.FormatSpec{Name: n.String(), Sides: 1, Tracks: 40, SectorsPerTrack: 9, SectorSize: 512, FirstSectorID: 0xC1, FillerByte: 0xE5, Gap3Length: 0x4E, Filesystem: geometry.FSCPM}
	case AmstradCPCIBM:
		return geometry.FormatSpec{Name: n.String(), Sides: 1, Tracks: 40, SectorsPerTrack: 9, SectorSize: 512, FirstSectorID: 0x01, FillerByte: 0xE5, Gap3Length: 0x4E, Filesystem: geometry.FSCPM}
	case ZXSpectrumPlus3:
		return geometry.FormatSpec{Name: n.String(), Sides: 1, Tracks: 40, SectorsPerTrack: 9, SectorSize: 512, FirstSectorID: 0x01, FillerByte: 0xE5, Gap3Length: 0x4E, Filesystem: geometry.FSCPM}
	case AmstradPCW:
		return geometry.FormatSpec{Name: n.String(), Sides: 1, Tracks: 40, SectorsPerTrack: 9, SectorSize: 512, FirstSectorID: 0x01, FillerByte: 0xE5, Gap3Length: 0x4E, Filesystem: geometry.FSCPM}
	case TatungEinstein:
		return geometry.FormatSpec{Name: n.String(), Sides: 1, Tracks: 40, SectorsPerTrack: 9, SectorSize: 512, FirstSectorID: 0x01, FillerByte: 0xE5, Gap3Length: 0x4E, Filesystem: geometry.FSCPM}
	case IBMPC360K:
		return geometry.FormatSpec{Name: n.String(), Sides: 2, Tracks: 40, SectorsPerTrack: 9, SectorSize: 512, FirstSectorID: 0x01, FillerByte: 0xF6, Gap3Length: 0x2A, Filesystem: geometry.FSNone}
	case IBMPC720K:
		return geometry.FormatSpec{Name: n.String(), Sides: 2, Tracks: 80, SectorsPerTrack: 9, SectorSize: 512, FirstSectorID: 0x01, FillerByte: 0xF6, Gap3Length: 0x2A, Filesystem: geometry.FSNone}
	case MGTDiscipleplus3:
		return geometry.FormatSpec{Name: n.String(), Sides: 2, Tracks: 80, SectorsPerTrack: 10, SectorSize: 512, FirstSectorID: 0x01, FillerByte: 0xE5, Gap3Length: 0x4E, Filesystem: geometry.FSMGT}
	case SAMCoupe:
		return geometry.FormatSpec{Name: n.String(), Sides: 2, Tracks: 80, SectorsPerTrack: 10, SectorSize: 512, FirstSectorID: 0x01, FillerByte: 0xE5, Gap3Length: 0x4E, Filesystem: geometry.FSMGT}
	default:
		return geometry.FormatSpec{}
	}
}

// All returns every preset in table order, used by tests and by
// cmd/diskimg's -list-presets and -build flags.
func All() []Name {
	return []Name{
		AmstradCPCSystem, AmstradCPCData, AmstradCPCIBM, ZXSpectrumPlus3,
		AmstradPCW, TatungEinstein, IBMPC360K, IBMPC720K, MGTDiscipleplus3, SAMCoupe,
	}
}
