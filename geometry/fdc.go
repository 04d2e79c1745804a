package geometry

// ST1 and ST2 are the NEC uPD765/Intel 8272-family FDC result registers
// recorded per sector. Named-bit accessors go beyond bare bit-number
// references, so detectors in package protection read named flags
// instead of magic bit numbers.
type ST1 uint8

const (
	ST1_MA ST1 = 1 << 0 // missing address mark
	ST1_NW ST1 = 1 << 1 // not writable
	ST1_ND ST1 = 1 << 2 // no data
	ST1_OR ST1 = 1 << 4 // overrun
	ST1_DE ST1 = 1 << 5 // data error (CRC error in data or ID field)
	ST1_EN ST1 = 1 << 7 // end of cylinder
)

func (s ST1) Has(bit ST1) bool { return s&bit != 0 }

// HasError reports either of the error-indicating bits for ST1:
// bit 5 (CRC error in data) or bit 2 (no data).
func (s ST1) HasError() bool { return s.Has(ST1_DE) || s.Has(ST1_ND) }

type ST2 uint8

const (
	ST2_MD ST2 = 1 << 0 // missing address mark in data field
	ST2_BC ST2 = 1 << 1 // bad cylinder
	ST2_WC ST2 = 1 << 4 // wrong cylinder
	ST2_DD ST2 = 1 << 5 // CRC error in data field
	ST2_CM ST2 = 1 << 6 // deleted data mark (control mark)
)

func (s ST2) Has(bit ST2) bool { return s&bit != 0 }

// HasError reports the error-indicating bits for ST2: bit 5 (CRC
// error in data field) or bit 0 (missing address mark in data field).
// The deleted-data-mark bit (CM) is deliberately excluded: a
// deliberately deleted sector is not an erroneous one.
func (s ST2) HasError() bool { return s.Has(ST2_DD) || s.Has(ST2_MD) }
