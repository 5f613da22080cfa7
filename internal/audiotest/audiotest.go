// Package audiotest writes small, header-valid WAV and AIFF files for tests.
// The audio payload is silence; only the header chunks matter to the code
// under test.
package audiotest

import (
	"bytes"
	"encoding/binary"
	"os"
	"testing"

	"github.com/backmassage/deckprep/internal/chunk"
)

// Spec describes a fixture file.
type Spec struct {
	SampleRate int
	BitDepth   int
	Channels   int // Default 2.
	Frames     int // Default 16.

	// Info holds RIFF LIST/INFO entries for WAV fixtures (e.g. "INAM").
	Info map[string]string
	// ID3 is stored verbatim as the "ID3 " chunk of AIFF fixtures.
	ID3 []byte
}

func (s Spec) channels() int {
	if s.Channels <= 0 {
		return 2
	}
	return s.Channels
}

func (s Spec) frames() int {
	if s.Frames <= 0 {
		return 16
	}
	return s.Frames
}

func (s Spec) payload() []byte {
	bytesPerSample := (s.BitDepth + 7) / 8
	return make([]byte, s.frames()*s.channels()*bytesPerSample)
}

// WAVBytes returns a RIFF/WAVE file described by s.
func WAVBytes(s Spec) []byte {
	ch := s.channels()
	blockAlign := ch * ((s.BitDepth + 7) / 8)
	fmtData := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtData[0:2], 1) // PCM
	binary.LittleEndian.PutUint16(fmtData[2:4], uint16(ch))
	binary.LittleEndian.PutUint32(fmtData[4:8], uint32(s.SampleRate))
	binary.LittleEndian.PutUint32(fmtData[8:12], uint32(s.SampleRate*blockAlign))
	binary.LittleEndian.PutUint16(fmtData[12:14], uint16(blockAlign))
	binary.LittleEndian.PutUint16(fmtData[14:16], uint16(s.BitDepth))

	chunks := []chunk.Raw{{ID: "fmt ", Data: fmtData}}
	if len(s.Info) > 0 {
		chunks = append(chunks, chunk.Raw{ID: "LIST", Data: infoList(s.Info)})
	}
	chunks = append(chunks, chunk.Raw{ID: "data", Data: s.payload()})

	var buf bytes.Buffer
	_ = chunk.Write(&buf, chunk.MagicRIFF, chunk.FormWAVE, binary.LittleEndian, chunks...)
	return buf.Bytes()
}

func infoList(info map[string]string) []byte {
	var buf bytes.Buffer
	buf.WriteString("INFO")
	for _, id := range []string{"INAM", "IART", "IPRD", "IGNR", "ICRD", "ICMT"} {
		v, ok := info[id]
		if !ok {
			continue
		}
		text := append([]byte(v), 0)
		var hdr [8]byte
		copy(hdr[0:4], id)
		binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(text)))
		buf.Write(hdr[:])
		buf.Write(text)
		if len(text)&1 == 1 {
			buf.WriteByte(0)
		}
	}
	return buf.Bytes()
}

// AIFFBytes returns a FORM/AIFF file described by s.
func AIFFBytes(s Spec) []byte {
	comm := make([]byte, 18)
	binary.BigEndian.PutUint16(comm[0:2], uint16(s.channels()))
	binary.BigEndian.PutUint32(comm[2:6], uint32(s.frames()))
	binary.BigEndian.PutUint16(comm[6:8], uint16(s.BitDepth))
	rate := chunk.EncodeExtended(uint64(s.SampleRate))
	copy(comm[8:18], rate[:])

	ssnd := append(make([]byte, 8), s.payload()...)

	chunks := []chunk.Raw{{ID: "COMM", Data: comm}, {ID: "SSND", Data: ssnd}}
	if len(s.ID3) > 0 {
		chunks = append(chunks, chunk.Raw{ID: "ID3 ", Data: s.ID3})
	}

	var buf bytes.Buffer
	_ = chunk.Write(&buf, chunk.MagicFORM, chunk.FormAIFF, binary.BigEndian, chunks...)
	return buf.Bytes()
}

// WriteWAV writes a WAV fixture to path, failing the test on error.
func WriteWAV(tb testing.TB, path string, s Spec) {
	tb.Helper()
	if err := os.WriteFile(path, WAVBytes(s), 0o644); err != nil {
		tb.Fatal(err)
	}
}

// WriteAIFF writes an AIFF fixture to path, failing the test on error.
func WriteAIFF(tb testing.TB, path string, s Spec) {
	tb.Helper()
	if err := os.WriteFile(path, AIFFBytes(s), 0o644); err != nil {
		tb.Fatal(err)
	}
}
