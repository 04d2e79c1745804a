package container

import (
	"bytes"
	"encoding/binary"

	"github.com/paleotronic/diskimg/diskimgerr"
	"github.com/paleotronic/diskimg/geometry"
	"github.com/paleotronic/diskimg/loggy"
)

// decodeStandardDSK parses a Standard DSK file: 256-byte header, then
// tracks in track-major-then-side order ((track 0 side 0), (track 0
// side 1), (track 1 side 0), ...), each exactly header.TrackSize bytes
// starting with its own Track Information Block.
func decodeStandardDSK(data []byte, log *loggy.Logger) (*geometry.DiskImage, error) {
	if len(data) < diskInfoBlockSize {
		return nil, diskimgerr.AtOffset(diskimgerr.CorruptContainer, 0, "file shorter than the 256-byte Disk Information Block")
	}

	var hdr diskHeaderRaw
	if err := binary.Read(bytes.NewReader(data[:diskInfoBlockSize]), binary.LittleEndian, &hdr); err != nil {
		return nil, diskimgerr.Wrap(diskimgerr.CorruptContainer, err, "parsing Disk Information Block")
	}
	if !bytes.HasPrefix(hdr.Signature[:], []byte(standardSignaturePrefix)) {
		return nil, diskimgerr.AtOffset(diskimgerr.CorruptContainer, 0, "signature does not begin with \"MV - CPC\"")
	}

	tracks := int(hdr.Tracks)
	sides := int(hdr.Sides)
	trackSize := int(hdr.TrackSize)

	img := &geometry.DiskImage{
		Format:            geometry.StandardDSK,
		Creator:           trimNulPadded(hdr.Creator[:]),
		Signature:         string(hdr.Signature[:]),
		DeclaredTrackSize: trackSize,
		Disks:             make([]*geometry.Disk, sides),
	}
	for s := 0; s < sides; s++ {
		img.Disks[s] = &geometry.Disk{Side: s, Tracks: make([]*geometry.Track, tracks)}
	}

	offset := diskInfoBlockSize
	for tr := 0; tr < tracks; tr++ {
		for sd := 0; sd < sides; sd++ {
			if offset+trackSize > len(data) {
				return nil, diskimgerr.AtOffset(diskimgerr.CorruptContainer, int64(offset), "file truncated before declared track data")
			}
			trackBytes := data[offset : offset+trackSize]
			offset += trackSize

			t, err := decodeTrack(trackBytes, geometry.StandardDSK, log)
			if err != nil {
				return nil, err
			}
			img.Disks[sd].Tracks[tr] = t
		}
	}

	if offset < len(data) {
		log.Warnf("%d trailing bytes beyond the declared track table were ignored", len(data)-offset)
	}

	return img, nil
}

// encodeStandardDSK serialises img back into Standard DSK bytes.
// Per-track payload is padded to the single declared TrackSize with
// each track's own filler byte, and the reserved header region
// (0x34..0xFF) is written zero.
func encodeStandardDSK(img *geometry.DiskImage) ([]byte, error) {
	sides := len(img.Disks)
	if sides == 0 {
		return nil, diskimgerr.New(diskimgerr.InvalidParameters, "image has no disks")
	}
	tracks := len(img.Disks[0].Tracks)

	minTrackSize := 0
	for _, d := range img.Disks {
		for _, t := range d.Tracks {
			if sz := trackInfoBlockSize + sumSectorLengths(t); sz > minTrackSize {
				minTrackSize = sz
			}
		}
	}
	// Round up to the next multiple of 256, matching how real Standard
	// DSK track sizes are always header-block-aligned.
	if minTrackSize%256 != 0 {
		minTrackSize += 256 - minTrackSize%256
	}

	// Reuse the originally decoded TrackSize when it's large enough to
	// still hold every track, so a decode-then-encode round trip
	// reproduces the source file's size exactly instead of the minimal
	// one this library would have chosen from scratch.
	trackSize := minTrackSize
	if img.DeclaredTrackSize >= minTrackSize {
		trackSize = img.DeclaredTrackSize
	}

	var hdr diskHeaderRaw
	if img.Signature != "" {
		copy(hdr.Signature[:], img.Signature)
	} else {
		copy(hdr.Signature[:], "MV - CPC xxDskImage\r\nDisk-Info\r\n")
	}
	copy(hdr.Creator[:], img.Creator)
	hdr.Tracks = uint8(tracks)
	hdr.Sides = uint8(sides)
	hdr.TrackSize = uint16(trackSize)

	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, &hdr)

	for tr := 0; tr < tracks; tr++ {
		for sd := 0; sd < sides; sd++ {
			t := img.Disks[sd].Tracks[tr]
			body := encodeTrack(t, geometry.StandardDSK)
			if len(body) > trackSize {
				return nil, diskimgerr.Newf(diskimgerr.InvalidParameters, "track %d side %d exceeds the uniform Standard DSK track size", tr, sd)
			}
			padded := make([]byte, trackSize)
			copy(padded, body)
			filler := t.FillerByte
			for i := len(body); i < trackSize; i++ {
				padded[i] = filler
			}
			buf.Write(padded)
		}
	}

	return buf.Bytes(), nil
}

func sumSectorLengths(t *geometry.Track) int {
	total := 0
	for _, s := range t.Sectors {
		total += len(s.Data)
	}
	return total
}

func trimNulPadded(b []byte) string {
	i := bytes.IndexByte(b, 0)
	if i == -1 {
		return string(b)
	}
	return string(b[:i])
}

func padASCII(dst []byte, s string) {
	copy(dst, s)
}
