package container

import (
	"bytes"
	"encoding/binary"

	"github.com/paleotronic/diskimg/diskimgerr"
	"github.com/paleotronic/diskimg/geometry"
	"github.com/paleotronic/diskimg/loggy"
)

// decodeExtendedDSK parses an Extended DSK file. The per-track size
// table at header offset 0x34 is indexed side-major inside each track
// (byte i is for side i%sides, track i/sides); a table value of 0
// marks an unformatted track occupying no file space.
func decodeExtendedDSK(data []byte, log *loggy.Logger) (*geometry.DiskImage, error) {
	if len(data) < diskInfoBlockSize {
		return nil, diskimgerr.AtOffset(diskimgerr.CorruptContainer, 0, "file shorter than the 256-byte Disk Information Block")
	}

	var hdr diskHeaderRaw
	if err := binary.Read(bytes.NewReader(data[:diskInfoBlockSize]), binary.LittleEndian, &hdr); err != nil {
		return nil, diskimgerr.Wrap(diskimgerr.CorruptContainer, err, "parsing Disk Information Block")
	}
	if !bytes.HasPrefix(hdr.Signature[:], []byte(extendedSignaturePrefix)) {
		return nil, diskimgerr.AtOffset(diskimgerr.CorruptContainer, 0, "signature does not begin with \"EXTENDED\"")
	}

	tracks := int(hdr.Tracks)
	sides := int(hdr.Sides)
	total := tracks * sides

	img := &geometry.DiskImage{
		Format:    geometry.ExtendedDSK,
		Creator:   trimNulPadded(hdr.Creator[:]),
		Signature: string(hdr.Signature[:]),
		Disks:     make([]*geometry.Disk, sides),
	}
	for s := 0; s < sides; s++ {
		img.Disks[s] = &geometry.Disk{Side: s, Tracks: make([]*geometry.Track, tracks)}
	}

	offset := diskInfoBlockSize
	for i := 0; i < total; i++ {
		side := i % sides
		track := i / sides

		if i >= len(hdr.TrackSizeTable) {
			return nil, diskimgerr.AtOffset(diskimgerr.CorruptContainer, int64(0x34+i), "track size table shorter than tracks*sides entries")
		}
		trackSize := int(hdr.TrackSizeTable[i]) * 256

		if trackSize == 0 {
			img.Disks[side].Tracks[track] = &geometry.Track{Cylinder: track, Side: side}
			continue
		}

		if offset+trackSize > len(data) {
			return nil, diskimgerr.AtOffset(diskimgerr.CorruptContainer, int64(offset), "file truncated before declared track data")
		}
		trackBytes := data[offset : offset+trackSize]
		offset += trackSize

		t, err := decodeTrack(trackBytes, geometry.ExtendedDSK, log)
		if err != nil {
			return nil, err
		}
		img.Disks[side].Tracks[track] = t
	}

	if offset < len(data) {
		log.Warnf("%d trailing bytes beyond the declared track table were ignored", len(data)-offset)
	}

	return img, nil
}

// encodeExtendedDSK serialises img into Extended DSK bytes. Each track
// is packed tightly (no inter-track padding) at the length its own
// sector payloads require, rounded up to the next 256-byte unit for the
// size table; a track with no sectors is marked unformatted (table
// byte 0) and contributes no bytes to the file body. A decoded image's
// original 34-byte signature is reused verbatim when present, so a
// decode-then-encode round trip does not rewrite it to the canonical
// literal.
func encodeExtendedDSK(img *geometry.DiskImage) ([]byte, error) {
	sides := len(img.Disks)
	if sides == 0 {
		return nil, diskimgerr.New(diskimgerr.InvalidParameters, "image has no disks")
	}
	tracks := len(img.Disks[0].Tracks)
	total := tracks * sides
	if total > len(diskHeaderRaw{}.TrackSizeTable) {
		return nil, diskimgerr.Newf(diskimgerr.InvalidParameters, "tracks*sides (%d) exceeds the 204-entry track size table", total)
	}

	var hdr diskHeaderRaw
	if img.Signature != "" {
		copy(hdr.Signature[:], img.Signature)
	} else {
		copy(hdr.Signature[:], "EXTENDED CPC DSK File\r\nDisk-Info\r\n")
	}
	copy(hdr.Creator[:], img.Creator)
	hdr.Tracks = uint8(tracks)
	hdr.Sides = uint8(sides)

	bodies := make([][]byte, total)
	for i := 0; i < total; i++ {
		side := i % sides
		track := i / sides
		t := img.Disks[side].Tracks[track]

		if t.Empty() {
			hdr.TrackSizeTable[i] = 0
			continue
		}

		body := encodeTrack(t, geometry.ExtendedDSK)
		rounded := len(body)
		if rounded%256 != 0 {
			rounded += 256 - rounded%256
		}
		padded := make([]byte, rounded)
		copy(padded, body)
		bodies[i] = padded
		hdr.TrackSizeTable[i] = byte(rounded / 256)
	}

	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, &hdr)
	for _, b := range bodies {
		buf.Write(b)
	}

	return buf.Bytes(), nil
}
