package cpm

import (
	"testing"

	"github.com/paleotronic/diskimg/builder"
	"github.com/paleotronic/diskimg/presets"
)

func TestInferVariantAmstradSystemByBootByte(t *testing.T) {
	img, err := builder.FromPreset(presets.AmstradCPCSystem).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// FirstSectorID for AmstradCPCSystem is 0x41; boot byte 0x00 marks
	// the extended-format System disk.
	sector, err := img.ReadSector(0, 0, 0x41)
	if err != nil {
		t.Fatalf("ReadSector: %v", err)
	}
	sector[0] = 0x00
	if err := img.WriteSector(0, 0, 0x41, sector); err != nil {
		t.Fatalf("WriteSector: %v", err)
	}

	v, dpb, err := InferVariant(img)
	if err != nil {
		t.Fatalf("InferVariant: %v", err)
	}
	if dpb != nil {
		t.Errorf("got a custom DPB override, want nil for a named variant")
	}
	if v != VariantAmstradSystem {
		t.Errorf("got %v, want VariantAmstradSystem", v)
	}
}

func TestInferVariantFallsThroughToPlus3StyleDirectoryValidation(t *testing.T) {
	img := buildPlus3Image(t)

	v, dpb, err := InferVariant(img)
	if err != nil {
		t.Fatalf("InferVariant: %v", err)
	}
	if dpb != nil {
		t.Errorf("got a custom DPB override, want nil for a named variant")
	}
	// Plus3 and PCW share an identical DPB (Einstein differs in
	// reserved-track count); InferVariant tries them in +3, PCW,
	// Einstein order and the first to validate wins.
	if v != VariantPlus3 {
		t.Errorf("got %v, want VariantPlus3", v)
	}
}

func TestInferVariantHandlesIBMAndCustomBootBytes(t *testing.T) {
	img := buildPlus3Image(t)

	sector, err := img.ReadSector(0, 0, 0x01)
	if err != nil {
		t.Fatalf("ReadSector: %v", err)
	}
	sector[0] = 0x02
	if err := img.WriteSector(0, 0, 0x01, sector); err != nil {
		t.Fatalf("WriteSector: %v", err)
	}

	v, dpb, err := InferVariant(img)
	if err != nil {
		t.Fatalf("InferVariant: %v", err)
	}
	if v != VariantAmstradIBM || dpb != nil {
		t.Errorf("got (%v, %v), want (VariantAmstradIBM, nil)", v, dpb)
	}

	sector[0] = 0x03
	sector[1] = 9                      // SectorsPerTrack
	sector[2] = 1                      // ReservedTracks
	sector[3] = 3                      // BSH: BlockSize = 128<<3 = 1024
	sector[4], sector[5] = 175, 0      // BlockCount = 175
	sector[6], sector[7] = 64, 0       // DirEntryCount = 64
	sector[8] = 0                      // 8-bit block pointers
	sector[9] = 0x01                   // FirstSectorID
	if err := img.WriteSector(0, 0, 0x01, sector); err != nil {
		t.Fatalf("WriteSector: %v", err)
	}

	v, dpb, err = InferVariant(img)
	if err != nil {
		t.Fatalf("InferVariant: %v", err)
	}
	if v != VariantCustom || dpb == nil {
		t.Fatalf("got (%v, %v), want (VariantCustom, non-nil)", v, dpb)
	}
	if dpb.SectorsPerTrack != 9 || dpb.ReservedTracks != 1 || dpb.BlockSize != 1024 ||
		dpb.BlockCount != 175 || dpb.DirEntryCount != 64 || dpb.Wide || dpb.FirstSectorID != 0x01 {
		t.Errorf("got %+v, want the values encoded at boot offsets 1..9", dpb)
	}
}

func TestDirectoryLooksValidThreshold(t *testing.T) {
	allLive := make([]DirEntry, 20)
	for i := range allLive {
		allLive[i] = DirEntry{UserNumber: 0}
	}
	if !directoryLooksValid(allLive) {
		t.Errorf("an all-live directory should validate")
	}

	mostlyBad := make([]DirEntry, 20)
	for i := range mostlyBad {
		mostlyBad[i] = DirEntry{UserNumber: 0x55} // outside 0x00-0x1F, not 0xE5
	}
	if directoryLooksValid(mostlyBad) {
		t.Errorf("a mostly-garbage directory should not validate")
	}

	if directoryLooksValid(nil) {
		t.Errorf("an empty directory should not validate")
	}
}
