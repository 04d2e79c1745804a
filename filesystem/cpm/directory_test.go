package cpm

import "testing"

func buildRawEntry(user byte, name, ext string, ex, s1, s2, rc byte, blocks [16]byte) []byte {
	raw := make([]byte, dirEntrySize)
	raw[0] = user
	copy(raw[1:9], padName(name))
	copy(raw[9:12], padName(ext))
	raw[12] = ex
	raw[13] = s1
	raw[14] = s2
	raw[15] = rc
	copy(raw[16:32], blocks[:])
	return raw
}

func padName(s string) []byte {
	out := make([]byte, 8)
	for i := range out {
		out[i] = ' '
	}
	copy(out, s)
	return out
}

func TestParseDirEntryStripsHighBitAndAttributes(t *testing.T) {
	raw := buildRawEntry(0, "HELLO", "TXT", 0, 0, 0, 4, [16]byte{1})
	raw[9] |= 0x80  // read-only attribute bit on Ext[0]
	raw[10] |= 0x80 // system attribute bit on Ext[1]

	e, err := parseDirEntry(raw, false)
	if err != nil {
		t.Fatalf("parseDirEntry: %v", err)
	}
	if e.Name != "HELLO" || e.Ext != "TXT" {
		t.Errorf("got name=%q ext=%q", e.Name, e.Ext)
	}
	if !e.ReadOnly || !e.System || e.Archive {
		t.Errorf("attribute bits not decoded: RO=%v Sys=%v Arc=%v", e.ReadOnly, e.System, e.Archive)
	}
	if e.Filename() != "HELLO.TXT" {
		t.Errorf("got Filename()=%q", e.Filename())
	}
}

func TestParseDirEntryRejectsWrongLength(t *testing.T) {
	if _, err := parseDirEntry(make([]byte, 31), false); err == nil {
		t.Errorf("expected an error for a non-32-byte entry")
	}
}

func TestDirEntryStatusClassification(t *testing.T) {
	live := DirEntry{UserNumber: 0x00}
	deleted := DirEntry{UserNumber: 0xE5}
	special := DirEntry{UserNumber: 0x11}

	if !live.IsLive() || live.IsDeleted() || live.IsSpecial() {
		t.Errorf("user 0x00 should classify as live only")
	}
	if !deleted.IsDeleted() || deleted.IsLive() {
		t.Errorf("user 0xE5 should classify as deleted only")
	}
	if !special.IsSpecial() || special.IsLive() {
		t.Errorf("user 0x11 should classify as special only")
	}
}

func TestGroupExtentsOrdersByS2ThenEX(t *testing.T) {
	entries := []DirEntry{
		{UserNumber: 0, Name: "BIG", Ext: "DAT", EX: 2, S2: 0, RC: 128},
		{UserNumber: 0, Name: "BIG", Ext: "DAT", EX: 0, S2: 0, RC: 128},
		{UserNumber: 0, Name: "BIG", Ext: "DAT", EX: 1, S2: 0, RC: 128},
		{UserNumber: 0xE5}, // deleted, excluded from grouping
	}
	groups := groupExtents(entries)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	for _, g := range groups {
		if len(g) != 3 {
			t.Fatalf("got %d extents, want 3", len(g))
		}
		for i, e := range g {
			if int(e.EX) != i {
				t.Errorf("extent %d out of order: EX=%d", i, e.EX)
			}
		}
	}
}

func TestFileSizeSumsRecordsAcrossExtents(t *testing.T) {
	extents := []DirEntry{
		{RC: 128}, // a full extent: 128*128 = 16384 bytes
		{RC: 10},  // 10*128 = 1280 bytes
	}
	if got := FileSize(extents); got != 16384+1280 {
		t.Errorf("got %d, want %d", got, 16384+1280)
	}
}
