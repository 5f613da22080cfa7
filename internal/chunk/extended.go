package chunk

import (
	"encoding/binary"
	"math"
	"math/bits"
)

// DecodeExtended converts an IEEE 754 80-bit extended float (big-endian, as
// stored in the AIFF COMM chunk) to float64.
func DecodeExtended(b [10]byte) float64 {
	sign := b[0] >> 7
	exp := int(binary.BigEndian.Uint16(b[0:2]) & 0x7fff)
	mant := binary.BigEndian.Uint64(b[2:10])
	if exp == 0 && mant == 0 {
		return 0
	}
	if exp == 0x7fff {
		return math.Inf(1)
	}
	f := math.Ldexp(float64(mant), exp-16383-63)
	if sign == 1 {
		f = -f
	}
	return f
}

// EncodeExtended converts a non-negative integral sample rate to the 80-bit
// extended representation.
func EncodeExtended(v uint64) [10]byte {
	var b [10]byte
	if v == 0 {
		return b
	}
	shift := bits.LeadingZeros64(v)
	mant := v << shift
	exp := uint16(16383 + 63 - shift)
	binary.BigEndian.PutUint16(b[0:2], exp)
	binary.BigEndian.PutUint64(b[2:10], mant)
	return b
}
