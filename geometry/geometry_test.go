package geometry

import (
	"errors"
	"testing"

	"github.com/paleotronic/diskimg/diskimgerr"
)

func newTestImage() *DiskImage {
	img := NewEmpty(StandardDSK, 1, 2)
	for _, t := range img.Disks[0].Tracks {
		t.SizeCode = 2 // 512 bytes
		t.SectorsPerTrack = 2
		t.Sectors = []*Sector{
			{C: uint8(t.Cylinder), H: 0, R: 0xC1, N: 2, Data: make([]byte, 512), CopyCount: 1},
			{C: uint8(t.Cylinder), H: 0, R: 0xC2, N: 2, Data: make([]byte, 512), CopyCount: 1},
		}
	}
	return img
}

func TestNewEmptyShape(t *testing.T) {
	img := NewEmpty(ExtendedDSK, 2, 40)
	if len(img.Disks) != 2 {
		t.Fatalf("got %d disks, want 2", len(img.Disks))
	}
	for _, d := range img.Disks {
		if len(d.Tracks) != 40 {
			t.Fatalf("got %d tracks, want 40", len(d.Tracks))
		}
		for i, tr := range d.Tracks {
			if tr.Cylinder != i {
				t.Errorf("track %d has Cylinder=%d", i, tr.Cylinder)
			}
			if !tr.Empty() {
				t.Errorf("track %d should start empty", i)
			}
		}
	}
}

func TestDiskAndTrackOutOfRange(t *testing.T) {
	img := newTestImage()

	if _, err := img.Disk(5); !errors.Is(err, diskimgerr.Sentinel(diskimgerr.OutOfRange)) {
		t.Errorf("Disk(5): want OutOfRange, got %v", err)
	}
	if _, err := img.Track(0, 99); !errors.Is(err, diskimgerr.Sentinel(diskimgerr.OutOfRange)) {
		t.Errorf("Track(0,99): want OutOfRange, got %v", err)
	}
}

func TestReadWriteSectorRoundtrip(t *testing.T) {
	img := newTestImage()

	payload := make([]byte, 512)
	for i := range payload {
		payload[i] = byte(i)
	}
	if err := img.WriteSector(0, 0, 0xC1, payload); err != nil {
		t.Fatalf("WriteSector: %v", err)
	}

	got, err := img.ReadSector(0, 0, 0xC1)
	if err != nil {
		t.Fatalf("ReadSector: %v", err)
	}
	if len(got) != len(payload) || got[1] != payload[1] {
		t.Errorf("roundtrip mismatch: got %v want %v", got[:4], payload[:4])
	}
}

func TestWriteSectorLengthMismatchOnStandardDSK(t *testing.T) {
	img := newTestImage()
	err := img.WriteSector(0, 0, 0xC1, make([]byte, 10))
	if !errors.Is(err, diskimgerr.Sentinel(diskimgerr.DataLengthMismatch)) {
		t.Fatalf("want DataLengthMismatch, got %v", err)
	}
}

func TestFindSectorFirstOccurrenceWins(t *testing.T) {
	tr := &Track{Cylinder: 0, Side: 0}
	tr.Sectors = []*Sector{
		{R: 0x41, Data: []byte("first")},
		{R: 0x41, Data: []byte("second")},
	}
	s, err := tr.FindSector(0x41)
	if err != nil {
		t.Fatalf("FindSector: %v", err)
	}
	if string(s.Data) != "first" {
		t.Errorf("got %q, want the first physical occurrence", s.Data)
	}
}

func TestSectorStatus(t *testing.T) {
	filler := byte(0xE5)

	unformatted := &Sector{}
	if unformatted.Status(filler) != Unformatted {
		t.Errorf("empty sector should be Unformatted")
	}

	blank := &Sector{Data: []byte{filler, filler, filler}}
	if blank.Status(filler) != FormattedFiller {
		t.Errorf("all-filler sector should be FormattedFiller")
	}

	odd := &Sector{Data: []byte{0x00, 0x00, 0x00}}
	if odd.Status(filler) != FormattedOddFiller {
		t.Errorf("uniform non-filler sector should be FormattedOddFiller")
	}

	real := &Sector{Data: []byte{0x01, 0x02, 0x03}}
	if real.Status(filler) != FormattedInUse {
		t.Errorf("varying payload should be FormattedInUse")
	}
}

func TestTotalCapacityKB(t *testing.T) {
	img := newTestImage()
	// 2 tracks * 2 sectors * 512 bytes == 2048 bytes == 2KB
	if got := img.TotalCapacityKB(); got != 2 {
		t.Errorf("got %dKB, want 2KB", got)
	}
}

func TestTracksFlattensSideMajor(t *testing.T) {
	img := NewEmpty(StandardDSK, 2, 3)
	flat := img.Tracks()
	if len(flat) != 6 {
		t.Fatalf("got %d tracks, want 6", len(flat))
	}
	if flat[0].Side != 0 || flat[3].Side != 1 {
		t.Errorf("Tracks() is not side-major: %+v", flat)
	}
}

func TestST1AndST2HasError(t *testing.T) {
	if !ST1(ST1_DE).HasError() {
		t.Error("ST1_DE should report HasError")
	}
	if !ST1(ST1_ND).HasError() {
		t.Error("ST1_ND should report HasError")
	}
	if ST1(ST1_MA).HasError() {
		t.Error("ST1_MA alone should not report HasError")
	}

	if !ST2(ST2_DD).HasError() {
		t.Error("ST2_DD should report HasError")
	}
	if ST2(ST2_CM).HasError() {
		t.Error("ST2_CM (deleted, not erroneous) should not report HasError")
	}
}
