package probe

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/backmassage/deckprep/internal/chunk"
)

// readAIFF parses the FORM "COMM" chunk (AIFF and AIFF-C):
//
//	0 numChannels     i16
//	2 numSampleFrames u32
//	6 sampleSize      i16
//	8 sampleRate      80-bit extended
func readAIFF(r io.ReaderAt, f *chunk.File) (AudioFormat, error) {
	if f.Magic != chunk.MagicFORM || (f.Form != chunk.FormAIFF && f.Form != chunk.FormAIFC) {
		return AudioFormat{}, fmt.Errorf("not a FORM/AIFF file (%s/%s)", f.Magic, f.Form)
	}
	c, ok := f.Find("COMM")
	if !ok {
		return AudioFormat{}, errors.New(`missing "COMM" chunk`)
	}
	if c.Size < 18 {
		return AudioFormat{}, fmt.Errorf(`"COMM" chunk too short (%d bytes)`, c.Size)
	}
	data, err := f.ReadData(r, c)
	if err != nil {
		return AudioFormat{}, err
	}

	var ext [10]byte
	copy(ext[:], data[8:18])
	rate := chunk.DecodeExtended(ext)
	if math.IsInf(rate, 0) || rate > math.MaxInt32 {
		return AudioFormat{}, fmt.Errorf("sample rate out of range (%g)", rate)
	}

	return AudioFormat{
		Channels:   int(int16(binary.BigEndian.Uint16(data[0:2]))),
		SampleRate: int(math.Round(rate)),
		BitDepth:   int(int16(binary.BigEndian.Uint16(data[6:8]))),
	}, nil
}
