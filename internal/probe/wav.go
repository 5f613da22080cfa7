package probe

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/backmassage/deckprep/internal/chunk"
)

// readWAV parses the RIFF "fmt " chunk:
//
//	0  formatTag      u16
//	2  channels       u16
//	4  sampleRate     u32
//	8  byteRate       u32
//	12 blockAlign     u16
//	14 bitsPerSample  u16
func readWAV(r io.ReaderAt, f *chunk.File) (AudioFormat, error) {
	if f.Magic != chunk.MagicRIFF || f.Form != chunk.FormWAVE {
		return AudioFormat{}, fmt.Errorf("not a RIFF/WAVE file (%s/%s)", f.Magic, f.Form)
	}
	c, ok := f.Find("fmt ")
	if !ok {
		return AudioFormat{}, errors.New(`missing "fmt " chunk`)
	}
	if c.Size < 16 {
		return AudioFormat{}, fmt.Errorf(`"fmt " chunk too short (%d bytes)`, c.Size)
	}
	data, err := f.ReadData(r, c)
	if err != nil {
		return AudioFormat{}, err
	}
	return AudioFormat{
		Channels:   int(binary.LittleEndian.Uint16(data[2:4])),
		SampleRate: int(binary.LittleEndian.Uint32(data[4:8])),
		BitDepth:   int(binary.LittleEndian.Uint16(data[14:16])),
	}, nil
}
