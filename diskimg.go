// Package diskimg is the top-level library surface: image lifecycle
// (open/save), geometry access, filesystem mount, and protection
// detection, composed from the component packages
// (geometry, container, presets, filesystem/cpm, filesystem/mgtfs,
// protection, builder) that do the actual work.
package diskimg

import (
	"github.com/paleotronic/diskimg/container"
	"github.com/paleotronic/diskimg/diskimgerr"
	"github.com/paleotronic/diskimg/filesystem"
	"github.com/paleotronic/diskimg/filesystem/cpm"
	"github.com/paleotronic/diskimg/filesystem/mgtfs"
	"github.com/paleotronic/diskimg/geometry"
	"github.com/paleotronic/diskimg/loggy"
	"github.com/paleotronic/diskimg/protection"
)

// Re-exported types so callers need only import this package for the
// common path.
type (
	DiskImage = geometry.DiskImage
	Disk      = geometry.Disk
	Track     = geometry.Track
	Sector    = geometry.Sector
)

// OpenPath opens and decodes a disk image file, auto-detecting its
// container format.
func OpenPath(path string) (*DiskImage, error) {
	return container.OpenPath(path, loggy.Get("container"))
}

// OpenBytes decodes an in-memory disk image, auto-detecting its
// container format.
func OpenBytes(data []byte) (*DiskImage, error) {
	return container.OpenBytes(data, "", loggy.Get("container"))
}

// SavePath serialises img and writes it to path.
func SavePath(img *DiskImage, path string) error { return container.SavePath(img, path) }

// SaveBytes serialises img per its own Format.
func SaveBytes(img *DiskImage) ([]byte, error) { return container.SaveBytes(img) }

// Mount selects and binds a Filesystem capability to img. variant
// filesystem.AutoDetect triggers CP/M auto-variant inference first,
// falling back to MGT when the image carries MGT geometry.
func Mount(img *DiskImage, variant filesystem.Variant) (filesystem.Filesystem, error) {
	switch variant {
	case filesystem.AmstradCpmSystem:
		return cpm.Mount(img, cpm.VariantAmstradSystem), nil
	case filesystem.AmstradCpmData:
		return cpm.Mount(img, cpm.VariantAmstradData), nil
	case filesystem.AmstradCpmIBM:
		return cpm.Mount(img, cpm.VariantAmstradIBM), nil
	case filesystem.Plus3Cpm:
		return cpm.Mount(img, cpm.VariantPlus3), nil
	case filesystem.PcwCpm:
		return cpm.Mount(img, cpm.VariantPCW), nil
	case filesystem.EinsteinCpm:
		return cpm.Mount(img, cpm.VariantEinstein), nil
	case filesystem.DiscipleMgt:
		return mgtfs.Mount(img, filesystem.DiscipleMgt), nil
	case filesystem.SamMgt:
		return mgtfs.Mount(img, filesystem.SamMgt), nil
	case filesystem.AutoDetect:
		if v, dpb, err := cpm.InferVariant(img); err == nil {
			if dpb != nil {
				return cpm.MountCustom(img, *dpb), nil
			}
			return cpm.Mount(img, v), nil
		}
		if mgtMountable(img) {
			return mgtfs.Mount(img, filesystem.DiscipleMgt), nil
		}
		return nil, diskimgerr.New(diskimgerr.UnsupportedVariant, "no filesystem variant mounted for this image")
	default:
		return nil, diskimgerr.New(diskimgerr.UnsupportedVariant, "unknown filesystem variant")
	}
}

func mgtMountable(img *DiskImage) bool {
	fs := mgtfs.Mount(img, filesystem.DiscipleMgt)
	return fs.CanMount(img)
}

// Detect runs the Protection Detector over one side of an image.
func Detect(disk *Disk) *protection.Result { return protection.Detect(disk) }
