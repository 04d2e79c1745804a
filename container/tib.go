package container

import (
	"bytes"
	"encoding/binary"

	"github.com/paleotronic/diskimg/diskimgerr"
	"github.com/paleotronic/diskimg/geometry"
	"github.com/paleotronic/diskimg/loggy"
)

// decodeTrack parses one Track Information Block plus its sector data
// out of trackBytes (exactly one track's worth of file content) and
// returns the populated geometry.Track. format controls how sector
// payload length is derived from the SIL's DataLength field: Standard
// DSK sectors are always 128<<N and padded with fillerByte within the
// track; Extended DSK sectors take their actual length from
// DataLength when it is nonzero, falling back to 128<<N.
func decodeTrack(trackBytes []byte, format geometry.ContainerFormat, log *loggy.Logger) (*geometry.Track, error) {
	if len(trackBytes) < trackInfoBlockSize {
		return nil, diskimgerr.New(diskimgerr.CorruptContainer, "track shorter than the 256-byte Track Information Block")
	}

	var tib trackInfoRaw
	if err := binary.Read(bytes.NewReader(trackBytes[:trackInfoBlockSize]), binary.LittleEndian, &tib); err != nil {
		return nil, diskimgerr.Wrap(diskimgerr.CorruptContainer, err, "parsing Track Information Block")
	}

	if !bytes.HasPrefix(tib.Signature[:], []byte(trackInfoMarker)) {
		return nil, diskimgerr.New(diskimgerr.CorruptContainer, "Track Information Block missing \"Track-Info\\r\\n\" marker")
	}

	track := &geometry.Track{
		Cylinder:        int(tib.Cylinder),
		Side:            int(tib.Side),
		SizeCode:        int(tib.SizeCode),
		SectorsPerTrack: int(tib.NumSectors),
		Gap3Length:      tib.Gap3Length,
		FillerByte:      tib.FillerByte,
	}

	offset := trackInfoBlockSize
	for i := 0; i < int(tib.NumSectors) && i < maxSectorsPerTIB; i++ {
		sib := tib.SIL[i]
		nominal := 128 << int(sib.N)

		actual := nominal
		if format == geometry.ExtendedDSK && sib.DataLength != 0 {
			actual = int(sib.DataLength)
		}

		var data []byte
		if offset+actual <= len(trackBytes) {
			data = append([]byte(nil), trackBytes[offset:offset+actual]...)
		} else if offset < len(trackBytes) {
			// Lenient: trailing data shorter than declared. Pad with the
			// track's filler byte and note it on the warning channel
			// rather than failing.
			data = make([]byte, actual)
			copy(data, trackBytes[offset:])
			for j := len(trackBytes) - offset; j < actual; j++ {
				data[j] = tib.FillerByte
			}
			log.Warnf("track %d side %d sector R=0x%02X: declared %d bytes but only %d available, padded with filler",
				tib.Cylinder, tib.Side, sib.R, actual, len(trackBytes)-offset)
		} else {
			data = make([]byte, actual)
			for j := range data {
				data[j] = tib.FillerByte
			}
			log.Warnf("track %d side %d sector R=0x%02X: no data available, filled with filler byte",
				tib.Cylinder, tib.Side, sib.R)
		}
		offset += actual

		copyCount := 1
		if actual > nominal && nominal > 0 {
			copyCount = actual / nominal
		}

		track.Sectors = append(track.Sectors, &geometry.Sector{
			C: sib.C, H: sib.H, R: sib.R, N: sib.N,
			ST1: geometry.ST1(sib.FDCStatus1), ST2: geometry.ST2(sib.FDCStatus2),
			Data: data, CopyCount: copyCount,
		})
	}

	return track, nil
}

// encodeTrack serialises a Track back into its Track Information Block
// plus sector payloads. format controls whether the SIL's DataLength
// field is written as the actual per-sector length (Extended DSK) or
// left reserved/zero (Standard DSK, where it is implied by N).
func encodeTrack(t *geometry.Track, format geometry.ContainerFormat) []byte {
	var tib trackInfoRaw
	copy(tib.Signature[:], trackInfoMarker)
	tib.Cylinder = uint8(t.Cylinder)
	tib.Side = uint8(t.Side)
	tib.SizeCode = uint8(t.SizeCode)
	tib.NumSectors = uint8(len(t.Sectors))
	tib.Gap3Length = t.Gap3Length
	tib.FillerByte = t.FillerByte

	for i, s := range t.Sectors {
		if i >= maxSectorsPerTIB {
			break
		}
		sib := sectorInfoRaw{C: s.C, H: s.H, R: s.R, N: s.N, FDCStatus1: uint8(s.ST1), FDCStatus2: uint8(s.ST2)}
		if format == geometry.ExtendedDSK {
			sib.DataLength = uint16(len(s.Data))
		}
		tib.SIL[i] = sib
	}

	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, &tib)
	out := buf.Bytes()

	for _, s := range t.Sectors {
		out = append(out, s.Data...)
	}
	return out
}
