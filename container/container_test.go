package container

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/paleotronic/diskimg/builder"
	"github.com/paleotronic/diskimg/geometry"
	"github.com/paleotronic/diskimg/loggy"
	"github.com/paleotronic/diskimg/presets"
)

func TestDetectStandardExtendedAndMGT(t *testing.T) {
	std, err := OpenBytes(mustBuildBytes(t, presets.AmstradCPCSystem, geometry.StandardDSK), "", nil)
	if err != nil {
		t.Fatalf("OpenBytes(standard): %v", err)
	}
	if std.Format != geometry.StandardDSK {
		t.Errorf("got %v, want StandardDSK", std.Format)
	}

	ext, err := OpenBytes(mustBuildBytes(t, presets.AmstradCPCSystem, geometry.ExtendedDSK), "", nil)
	if err != nil {
		t.Fatalf("OpenBytes(extended): %v", err)
	}
	if ext.Format != geometry.ExtendedDSK {
		t.Errorf("got %v, want ExtendedDSK", ext.Format)
	}

	mgtBytes := make([]byte, mgtRawSize)
	mgt, err := OpenBytes(mgtBytes, "", nil)
	if err != nil {
		t.Fatalf("OpenBytes(mgt): %v", err)
	}
	if mgt.Format != geometry.MGTRaw {
		t.Errorf("got %v, want MGTRaw", mgt.Format)
	}

	if _, err := Detect([]byte("not a disk image"), ""); err == nil {
		t.Errorf("garbage input should not match any format")
	}
}

func TestStandardDSKRoundTrip(t *testing.T) {
	img, err := builder.FromPreset(presets.AmstradCPCSystem).Format(geometry.StandardDSK).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	img.Disks[0].Tracks[3].Sectors[0].Data[0] = 0xAB

	encoded, err := encodeStandardDSK(img)
	if err != nil {
		t.Fatalf("encodeStandardDSK: %v", err)
	}
	decoded, err := decodeStandardDSK(encoded, loggy.Get("container_test"))
	if err != nil {
		t.Fatalf("decodeStandardDSK: %v", err)
	}

	if len(decoded.Disks) != len(img.Disks) {
		t.Fatalf("got %d disks, want %d", len(decoded.Disks), len(img.Disks))
	}
	got := decoded.Disks[0].Tracks[3].Sectors[0].Data[0]
	if got != 0xAB {
		t.Errorf("round-tripped payload byte = 0x%02X, want 0xAB", got)
	}
}

func TestStandardDSKRoundTripPreservesSignatureAndTrackSize(t *testing.T) {
	var hdr diskHeaderRaw
	copy(hdr.Signature[:], "MV - CPCEMU Disk-File\r\nDisk-Info\r\n")
	copy(hdr.Creator[:], "diskm8 test")
	hdr.Tracks = 1
	hdr.Sides = 1
	hdr.TrackSize = 512 // non-minimal: the lone empty track needs only 256

	headerBuf := &bytes.Buffer{}
	if err := binary.Write(headerBuf, binary.LittleEndian, &hdr); err != nil {
		t.Fatalf("binary.Write(header): %v", err)
	}

	trackBody := encodeTrack(&geometry.Track{FillerByte: 0xE5}, geometry.StandardDSK)
	padded := make([]byte, 512)
	copy(padded, trackBody)
	for i := len(trackBody); i < 512; i++ {
		padded[i] = 0xE5
	}

	raw := append(headerBuf.Bytes(), padded...)

	decoded, err := decodeStandardDSK(raw, loggy.Get("container_test"))
	if err != nil {
		t.Fatalf("decodeStandardDSK: %v", err)
	}
	if decoded.DeclaredTrackSize != 512 {
		t.Errorf("got DeclaredTrackSize=%d, want 512", decoded.DeclaredTrackSize)
	}

	encoded, err := encodeStandardDSK(decoded)
	if err != nil {
		t.Fatalf("encodeStandardDSK: %v", err)
	}
	if !bytes.Equal(raw, encoded) {
		t.Errorf("round trip is not byte-identical:\n got  %q\n want %q", encoded, raw)
	}
}

func TestExtendedDSKRoundTripPreservesWeakSectorCopyCount(t *testing.T) {
	img, err := builder.FromPreset(presets.AmstradCPCSystem).Format(geometry.ExtendedDSK).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	weak := img.Disks[0].Tracks[0].Sectors[0]
	weak.CopyCount = 2
	weak.Data = append(weak.Data, weak.Data...) // two back-to-back nominal copies

	encoded, err := encodeExtendedDSK(img)
	if err != nil {
		t.Fatalf("encodeExtendedDSK: %v", err)
	}
	decoded, err := decodeExtendedDSK(encoded, loggy.Get("container_test"))
	if err != nil {
		t.Fatalf("decodeExtendedDSK: %v", err)
	}

	got := decoded.Disks[0].Tracks[0].Sectors[0]
	if got.CopyCount != 2 {
		t.Errorf("got CopyCount=%d, want 2", got.CopyCount)
	}
	if len(got.Data) != 1024 {
		t.Errorf("got %d data bytes, want 1024 (2x512)", len(got.Data))
	}
}

func TestExtendedDSKRoundTripPreservesSignature(t *testing.T) {
	var hdr diskHeaderRaw
	copy(hdr.Signature[:], "EXTENDED CPC DSK File (Disk-Info)\r\n")
	copy(hdr.Creator[:], "diskm8 test")
	hdr.Tracks = 1
	hdr.Sides = 1

	// One formatted sector: a track with no sectors is unformatted and is
	// written as table byte 0 with no body, so it cannot carry a TIB.
	trackBody := encodeTrack(&geometry.Track{
		FillerByte: 0xE5,
		Sectors:    []*geometry.Sector{{R: 0xC1, N: 2, Data: bytes.Repeat([]byte{0xE5}, 512), CopyCount: 1}},
	}, geometry.ExtendedDSK)
	rounded := len(trackBody)
	if rounded%256 != 0 {
		rounded += 256 - rounded%256
	}
	padded := make([]byte, rounded)
	copy(padded, trackBody)
	hdr.TrackSizeTable[0] = byte(rounded / 256)

	headerBuf := &bytes.Buffer{}
	if err := binary.Write(headerBuf, binary.LittleEndian, &hdr); err != nil {
		t.Fatalf("binary.Write(header): %v", err)
	}
	raw := append(headerBuf.Bytes(), padded...)

	decoded, err := decodeExtendedDSK(raw, loggy.Get("container_test"))
	if err != nil {
		t.Fatalf("decodeExtendedDSK: %v", err)
	}
	encoded, err := encodeExtendedDSK(decoded)
	if err != nil {
		t.Fatalf("encodeExtendedDSK: %v", err)
	}
	if !bytes.Equal(raw, encoded) {
		t.Errorf("round trip is not byte-identical:\n got  %q\n want %q", encoded, raw)
	}
}

func TestExtendedDSKUnformattedTrackRoundTrips(t *testing.T) {
	img, err := builder.FromPreset(presets.AmstradCPCSystem).Format(geometry.ExtendedDSK).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	img.Disks[0].Tracks[5].Sectors = nil

	encoded, err := encodeExtendedDSK(img)
	if err != nil {
		t.Fatalf("encodeExtendedDSK: %v", err)
	}
	decoded, err := decodeExtendedDSK(encoded, loggy.Get("container_test"))
	if err != nil {
		t.Fatalf("decodeExtendedDSK: %v", err)
	}
	if !decoded.Disks[0].Tracks[5].Empty() {
		t.Errorf("unformatted track should decode back to empty")
	}
}

func TestMGTRawRoundTrip(t *testing.T) {
	raw := make([]byte, mgtRawSize)
	for i := range raw {
		raw[i] = byte(i)
	}

	img, err := decodeMGTRaw(raw)
	if err != nil {
		t.Fatalf("decodeMGTRaw: %v", err)
	}
	out, err := encodeMGTRaw(img)
	if err != nil {
		t.Fatalf("encodeMGTRaw: %v", err)
	}
	if !bytes.Equal(raw, out) {
		t.Errorf("MGT raw round trip is not byte-identical")
	}
}

func TestMGTRawRejectsWrongLength(t *testing.T) {
	if _, err := decodeMGTRaw(make([]byte, mgtRawSize-1)); err == nil {
		t.Errorf("wrong-length MGT input should fail to decode")
	}
}

func mustBuildBytes(t *testing.T, preset presets.Name, format geometry.ContainerFormat) []byte {
	t.Helper()
	img, err := builder.FromPreset(preset).Format(format).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := SaveBytes(img)
	if err != nil {
		t.Fatalf("SaveBytes: %v", err)
	}
	return data
}
