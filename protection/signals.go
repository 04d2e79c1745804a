// Package protection is the Protection Detector (Component G): an
// ordered list of pure predicates over a geometry.Disk, evaluated
// first-match-wins, reworked into Go as an ordered []Detector walked
// top to bottom — the same "ordered list of values, each a pure
// predicate" shape paleotronic-diskm8's diskimage.go Identify()
// cascade already uses for format detection.
package protection

import "github.com/paleotronic/diskimg/geometry"

// FindPattern reports whether any sector on track contains pattern
// anywhere in its payload.
func FindPattern(t *geometry.Track, pattern []byte) bool {
	for _, s := range t.Sectors {
		if containsBytes(s.Data, pattern) {
			return true
		}
	}
	return false
}

// FindPatternInDisk searches every track of disk for pattern.
func FindPatternInDisk(d *geometry.Disk, pattern []byte) bool {
	for _, t := range d.Tracks {
		if FindPattern(t, pattern) {
			return true
		}
	}
	return false
}

func containsBytes(haystack, needle []byte) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// SectorCountAnomaly reports whether a track's sector count departs
// from the normal 9 (CPC/+3/PCW/Einstein) or 10 (MGT). An empty
// (unformatted) track is not counted as anomalous.
func SectorCountAnomaly(t *geometry.Track) bool {
	n := len(t.Sectors)
	return n >= 10 && n != 10 || (n != 9 && n != 10 && n != 0)
}

// UnusualCHRN reports whether t carries sector ID bytes that don't
// match the physical track, N-codes >= 6, or duplicate R values.
func UnusualCHRN(t *geometry.Track) bool {
	seenR := map[uint8]int{}
	for _, s := range t.Sectors {
		if int(s.C) != t.Cylinder {
			return true
		}
		if s.N >= 6 {
			return true
		}
		seenR[s.R]++
	}
	for _, count := range seenR {
		if count > 1 {
			return true
		}
	}
	return false
}

// FDCErrorOnTrack reports whether any sector on t has one of the
// named error-indicating ST1/ST2 bits set.
func FDCErrorOnTrack(t *geometry.Track) bool {
	for _, s := range t.Sectors {
		if s.ST1.HasError() || s.ST2.HasError() {
			return true
		}
	}
	return false
}

// FDCErrorSector returns the first sector on t carrying an ST1/ST2
// error bit, used to build a detector's Reason string.
func FDCErrorSector(t *geometry.Track) *geometry.Sector {
	for _, s := range t.Sectors {
		if s.ST1.HasError() || s.ST2.HasError() {
			return s
		}
	}
	return nil
}

// HasTrack41Plus reports whether disk carries a formatted track beyond
// index 40 on 40-track media.
func HasTrack41Plus(d *geometry.Disk) bool {
	for i, t := range d.Tracks {
		if i >= 41 && !t.Empty() {
			return true
		}
	}
	return false
}

// track returns disk's track at index, or nil if out of range.
func track(d *geometry.Disk, index int) *geometry.Track {
	if index < 0 || index >= len(d.Tracks) {
		return nil
	}
	return d.Tracks[index]
}

// IsUniform reports whether no sector on t carries varying content,
// via geometry.Sector.Status: each sector is empty or filled with one
// repeated byte, which need not be the same byte across sectors. No
// detector in Catalogue calls it.
func IsUniform(t *geometry.Track, fillerByte byte) bool {
	for _, s := range t.Sectors {
		if s.Status(fillerByte) == geometry.FormattedInUse {
			return false
		}
	}
	return true
}

// LargestTrackSize returns the byte length of the largest track on
// disk (sum of its sector payloads). No detector in Catalogue calls it.
func LargestTrackSize(d *geometry.Disk) int {
	max := 0
	for _, t := range d.Tracks {
		size := 0
		for _, s := range t.Sectors {
			size += len(s.Data)
		}
		if size > max {
			max = size
		}
	}
	return max
}
