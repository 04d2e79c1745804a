// Package builder is the Image Builder: fluent configuration producing
// a validated, fully populated Geometry Model. Grounded on
// paleotronic-diskm8's NewDSKWrapper/NewDSKWrapperBin constructors for
// "validate inputs, populate a zeroed structure with sane defaults,"
// generalised into a chained-setter + validate-on-Build shape.
package builder

import (
	"github.com/paleotronic/diskimg/diskimgerr"
	"github.com/paleotronic/diskimg/geometry"
	"github.com/paleotronic/diskimg/presets"
)

// Builder accumulates FormatSpec fields via fluent setters; Build()
// validates and materialises a geometry.DiskImage.
type Builder struct {
	spec   geometry.FormatSpec
	format geometry.ContainerFormat
}

// New starts a Builder with the conventional defaults for a newly
// built image: filler 0xE5, GAP#3 0x4E.
func New() *Builder {
	return &Builder{
		spec:   geometry.FormatSpec{FillerByte: 0xE5, Gap3Length: 0x4E},
		format: geometry.StandardDSK,
	}
}

// FromPreset seeds the Builder from a named preset (package presets);
// subsequent setters may still override individual fields.
func FromPreset(name presets.Name) *Builder {
	b := New()
	b.spec = presets.Spec(name)
	return b
}

func (b *Builder) Format(f geometry.ContainerFormat) *Builder   { b.format = f; return b }
func (b *Builder) Sides(n int) *Builder                          { b.spec.Sides = n; return b }
func (b *Builder) Tracks(n int) *Builder                         { b.spec.Tracks = n; return b }
func (b *Builder) SectorsPerTrack(n int) *Builder                { b.spec.SectorsPerTrack = n; return b }
func (b *Builder) SectorSize(n int) *Builder                     { b.spec.SectorSize = n; return b }
func (b *Builder) FirstSectorID(id uint8) *Builder                { b.spec.FirstSectorID = id; return b }
func (b *Builder) FillerByte(fb uint8) *Builder                   { b.spec.FillerByte = fb; return b }
func (b *Builder) Gap3Length(g uint8) *Builder                    { b.spec.Gap3Length = g; return b }
func (b *Builder) Filesystem(fs geometry.FilesystemHint) *Builder { b.spec.Filesystem = fs; return b }

// Build validates the accumulated geometry (tracks in [1,84], sides
// in {1,2}, sectors-per-track in [1,29], size code in [0,6], first
// sector ID fits in 8 bits by construction) and produces a Geometry
// Model fully populated with filler-byte payloads and ST1=ST2=0.
func (b *Builder) Build() (*geometry.DiskImage, error) {
	s := b.spec

	if s.Tracks < 1 || s.Tracks > 84 {
		return nil, diskimgerr.Newf(diskimgerr.InvalidParameters, "tracks must be in [1,84], got %d", s.Tracks)
	}
	if s.Sides != 1 && s.Sides != 2 {
		return nil, diskimgerr.Newf(diskimgerr.InvalidParameters, "sides must be 1 or 2, got %d", s.Sides)
	}
	if s.SectorsPerTrack < 1 || s.SectorsPerTrack > 29 {
		return nil, diskimgerr.Newf(diskimgerr.InvalidParameters, "sectors-per-track must be in [1,29], got %d", s.SectorsPerTrack)
	}
	sizeCode := s.SizeCode()
	if sizeCode < 0 || sizeCode > 6 {
		return nil, diskimgerr.Newf(diskimgerr.InvalidParameters, "sector size %d is not a valid 128<<N FDC size in [0,6]", s.SectorSize)
	}

	img := geometry.NewEmpty(b.format, s.Sides, s.Tracks)

	for _, d := range img.Disks {
		for _, t := range d.Tracks {
			t.SizeCode = sizeCode
			t.SectorsPerTrack = s.SectorsPerTrack
			t.Gap3Length = s.Gap3Length
			t.FillerByte = s.FillerByte

			for i := 0; i < s.SectorsPerTrack; i++ {
				r := s.FirstSectorID + uint8(i)
				data := make([]byte, s.SectorSize)
				for j := range data {
					data[j] = s.FillerByte
				}
				t.Sectors = append(t.Sectors, &geometry.Sector{
					C: uint8(t.Cylinder), H: uint8(t.Side), R: r, N: uint8(sizeCode),
					Data: data, CopyCount: 1,
				})
			}
		}
	}

	return img, nil
}
