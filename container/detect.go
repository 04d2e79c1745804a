package container

import (
	"bytes"

	"github.com/paleotronic/diskimg/diskimgerr"
	"github.com/paleotronic/diskimg/geometry"
)

const mgtRawSize = 819200 // 2 sides * 80 tracks * 10 sectors * 512 bytes

// Detect implements auto-detection order: Extended DSK
// (by signature, when the file is at least one header block long), then
// Standard DSK (by signature), then MGT raw (by exact length); anything
// else is UnknownFormat. The filename extension, if given, is consulted
// only as a tie-breaker when the content itself is ambiguous — in
// practice the three signatures/lengths never overlap, so it is accepted
// but unused here; grounded on paleotronic-diskm8's Identify() cascade
// of format checks in priority order.
func Detect(data []byte, filenameExt string) (geometry.ContainerFormat, error) {
	if len(data) >= diskInfoBlockSize && bytes.HasPrefix(data, []byte(extendedSignaturePrefix)) {
		return geometry.ExtendedDSK, nil
	}
	if len(data) >= 8 && bytes.HasPrefix(data, []byte(standardSignaturePrefix)) {
		return geometry.StandardDSK, nil
	}
	if len(data) == mgtRawSize {
		return geometry.MGTRaw, nil
	}
	return 0, diskimgerr.New(diskimgerr.UnknownFormat, "content matches neither DSK signature nor the fixed MGT raw length")
}
