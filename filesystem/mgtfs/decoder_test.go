package mgtfs

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/paleotronic/diskimg/filesystem"
)

func writeDirEntry(t *testing.T, img interface {
	WriteSector(side, track int, sectorID uint8, data []byte) error
	ReadSector(side, track int, sectorID uint8) ([]byte, error)
}, side, track, sectorID, slot int, entry []byte) {
	t.Helper()
	sector, err := img.ReadSector(side, track, uint8(sectorID))
	if err != nil {
		t.Fatalf("ReadSector: %v", err)
	}
	copy(sector[slot*dirEntrySize:(slot+1)*dirEntrySize], entry)
	if err := img.WriteSector(side, track, uint8(sectorID), sector); err != nil {
		t.Fatalf("WriteSector: %v", err)
	}
}

func TestCanMountRequiresMGTGeometry(t *testing.T) {
	img := buildMGTImage(t)
	fs := Mount(img, filesystem.DiscipleMgt)
	if !fs.CanMount(img) {
		t.Errorf("a 2-side/80-track image should mount")
	}
}

func TestMountSelectsByteOrderFromVariant(t *testing.T) {
	disciple := Mount(buildMGTImage(t), filesystem.DiscipleMgt)
	sam := Mount(buildMGTImage(t), filesystem.SamMgt)
	if disciple.byteOrder != DiscipleByteOrder {
		t.Errorf("DiscipleMgt should use DiscipleByteOrder")
	}
	if sam.byteOrder != SAMByteOrder {
		t.Errorf("SamMgt should use SAMByteOrder")
	}
}

func TestReadDirAndReadFileReconstructsChainedSectors(t *testing.T) {
	img := buildMGTImage(t)

	entry := mgtDirEntryBytes(TypeBasic, "HELLO", 1, DiscipleByteOrder, 0, 1, 1)
	// Length field inside the 46-byte type header, little-endian at
	// offset 2..3 (TypeHeader starts at raw offset 210).
	binary.LittleEndian.PutUint16(entry[212:214], 10)
	writeDirEntry(t, img, 0, 0, 1, 0, entry)

	payload := make([]byte, 512)
	copy(payload, []byte("Hello MGT!"))
	// Chain terminator: track=0, sector=0.
	payload[510] = 0
	payload[511] = 0
	if err := img.WriteSector(0, 1, 1, payload); err != nil {
		t.Fatalf("WriteSector(data): %v", err)
	}

	fs := Mount(img, filesystem.DiscipleMgt)

	entries, err := fs.ReadDir()
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	found := false
	for _, e := range entries {
		if e.Name == "HELLO" {
			found = true
			if e.Size != 10 {
				t.Errorf("got Size=%d, want 10 (declared length)", e.Size)
			}
		}
	}
	if !found {
		t.Fatalf("HELLO not found in ReadDir() output: %+v", entries)
	}

	data, err := fs.ReadFile("HELLO")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(data, []byte("Hello MGT!")) {
		t.Errorf("got %q, want %q", data, "Hello MGT!")
	}

	if _, err := fs.ReadFile("NOSUCH"); err == nil {
		t.Errorf("expected FileNotFound for a missing file")
	}
}

func TestReconstructDetectsSectorChainLoop(t *testing.T) {
	img := buildMGTImage(t)

	// Sector (track 1, sector 1) points to itself instead of
	// terminating — a corrupt chain.
	payload := make([]byte, 512)
	payload[510] = 1
	payload[511] = 1
	if err := img.WriteSector(0, 1, 1, payload); err != nil {
		t.Fatalf("WriteSector: %v", err)
	}

	fs := Mount(img, filesystem.DiscipleMgt)
	if _, err := fs.reconstruct(0, 1, 1); err == nil {
		t.Errorf("expected an error for a looping sector chain")
	}
}
