// Package container is the Container Codec: parsing and serialising
// Standard DSK, Extended DSK, and MGT raw bytes into/out of the
// Geometry Model (package geometry), including format auto-detection.
// Grounded primarily on damieng-magneato's edsk.go (header/TIB parse
// loop, lenient short-read handling) and paleotronic-diskm8's Identify()
// cascading-heuristic style.
package container

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/paleotronic/diskimg/diskimgerr"
	"github.com/paleotronic/diskimg/geometry"
	"github.com/paleotronic/diskimg/loggy"
)

// OpenPath reads path, auto-detects its container format, and decodes
// it into a geometry.DiskImage. log may be nil.
func OpenPath(path string, log *loggy.Logger) (*geometry.DiskImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, diskimgerr.Wrap(diskimgerr.IO, err, "reading "+path)
	}
	return OpenBytes(data, filepath.Ext(path), log)
}

// OpenBytes auto-detects data's container format and decodes it.
// extHint is an optional filename extension tie-breaker, unused unless
// a future format overlaps in signature.
func OpenBytes(data []byte, extHint string, log *loggy.Logger) (*geometry.DiskImage, error) {
	format, err := Detect(data, extHint)
	if err != nil {
		return nil, err
	}
	switch format {
	case geometry.StandardDSK:
		return decodeStandardDSK(data, log)
	case geometry.ExtendedDSK:
		return decodeExtendedDSK(data, log)
	case geometry.MGTRaw:
		return decodeMGTRaw(data)
	default:
		return nil, diskimgerr.New(diskimgerr.UnknownFormat, "unrecognised container format")
	}
}

// SaveBytes serialises img according to img.Format.
func SaveBytes(img *geometry.DiskImage) ([]byte, error) {
	switch img.Format {
	case geometry.StandardDSK:
		return encodeStandardDSK(img)
	case geometry.ExtendedDSK:
		return encodeExtendedDSK(img)
	case geometry.MGTRaw:
		return encodeMGTRaw(img)
	default:
		return nil, diskimgerr.New(diskimgerr.InvalidParameters, "image has no recognised container format set")
	}
}

// SavePath serialises img and writes it to path.
func SavePath(img *geometry.DiskImage, path string) error {
	data, err := SaveBytes(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return diskimgerr.Wrap(diskimgerr.IO, err, "writing "+path)
	}
	return nil
}

// SupportedExtensions lists the filename extensions this library
// accepts on input; content sniffing via Detect always takes
// precedence.
var SupportedExtensions = []string{".dsk", ".mgt", ".img"}

// HasSupportedExtension reports whether ext (as returned by
// filepath.Ext, including the leading dot) is one diskimg recognises.
func HasSupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
