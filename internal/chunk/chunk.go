// Package chunk scans and rewrites RIFF (WAV) and IFF/FORM (AIFF) chunk
// files. Scanning reads only the 8-byte chunk headers and seeks over chunk
// bodies, so inspecting a multi-gigabyte file costs a handful of reads.
package chunk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Outer container magics and form types.
const (
	MagicRIFF = "RIFF"
	MagicFORM = "FORM"

	FormWAVE = "WAVE"
	FormAIFF = "AIFF"
	FormAIFC = "AIFC"
)

// ErrNotChunkFile is returned when the 12-byte outer header is not a RIFF or
// FORM header.
var ErrNotChunkFile = errors.New("not a RIFF or FORM chunk file")

// Chunk locates one chunk inside a file. Offset points at the chunk body,
// just past the 8-byte header.
type Chunk struct {
	ID     string
	Offset int64
	Size   uint32

	// Truncated is set when the declared size runs past end of file.
	Truncated bool
}

// padded returns the body size including the pad byte for odd sizes.
func (c Chunk) padded() int64 {
	return int64(c.Size) + int64(c.Size&1)
}

// File is the scanned chunk layout of a RIFF or FORM file.
type File struct {
	Magic  string // "RIFF" or "FORM".
	Form   string // "WAVE", "AIFF" or "AIFC".
	Order  binary.ByteOrder
	Chunks []Chunk
}

// Scan reads the outer header and every chunk header of r.
func Scan(r io.ReadSeeker) (*File, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", ErrNotChunkFile)
	}
	f := &File{Magic: string(hdr[0:4]), Form: string(hdr[8:12])}
	switch f.Magic {
	case MagicRIFF:
		f.Order = binary.LittleEndian
	case MagicFORM:
		f.Order = binary.BigEndian
	default:
		return nil, ErrNotChunkFile
	}

	pos := int64(12)
	for pos+8 <= size {
		var ch [8]byte
		if _, err := io.ReadFull(r, ch[:]); err != nil {
			return nil, fmt.Errorf("read chunk header at %d: %w", pos, err)
		}
		c := Chunk{
			ID:     string(ch[0:4]),
			Offset: pos + 8,
			Size:   f.Order.Uint32(ch[4:8]),
		}
		if c.Offset+int64(c.Size) > size {
			c.Truncated = true
			f.Chunks = append(f.Chunks, c)
			break
		}
		f.Chunks = append(f.Chunks, c)
		pos = c.Offset + c.padded()
		if _, err := r.Seek(pos, io.SeekStart); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Find returns the first chunk whose ID matches one of ids.
func (f *File) Find(ids ...string) (Chunk, bool) {
	for _, c := range f.Chunks {
		for _, id := range ids {
			if c.ID == id {
				return c, true
			}
		}
	}
	return Chunk{}, false
}

// ReadData reads the body of c (without the pad byte).
func (f *File) ReadData(r io.ReaderAt, c Chunk) ([]byte, error) {
	if c.Truncated {
		return nil, fmt.Errorf("chunk %q is truncated", c.ID)
	}
	buf := make([]byte, c.Size)
	if _, err := r.ReadAt(buf, c.Offset); err != nil {
		return nil, fmt.Errorf("read chunk %q: %w", c.ID, err)
	}
	return buf, nil
}

// Raw is a chunk held in memory, used when writing.
type Raw struct {
	ID   string
	Data []byte
}

// Rewrite copies f (read from src) to w, dropping every chunk whose ID is in
// drop and appending extra at the end. The outer size field is recomputed.
func Rewrite(w io.Writer, src io.ReaderAt, f *File, drop []string, extra ...Raw) error {
	dropped := make(map[string]bool, len(drop))
	for _, id := range drop {
		dropped[id] = true
	}

	var kept []Chunk
	total := int64(4) // form type
	for _, c := range f.Chunks {
		if dropped[c.ID] {
			continue
		}
		if c.Truncated {
			return fmt.Errorf("cannot rewrite truncated chunk %q", c.ID)
		}
		kept = append(kept, c)
		total += 8 + c.padded()
	}
	for _, e := range extra {
		total += 8 + int64(len(e.Data)) + int64(len(e.Data)&1)
	}
	if total > math.MaxUint32 {
		return fmt.Errorf("rewritten file too large (%d bytes)", total)
	}

	if err := writeHeader(w, f.Magic, f.Form, f.Order, uint32(total)); err != nil {
		return err
	}
	for _, c := range kept {
		if err := writeChunkHeader(w, c.ID, c.Size, f.Order); err != nil {
			return err
		}
		if _, err := io.Copy(w, io.NewSectionReader(src, c.Offset, c.padded())); err != nil {
			return fmt.Errorf("copy chunk %q: %w", c.ID, err)
		}
	}
	for _, e := range extra {
		if err := writeRaw(w, e, f.Order); err != nil {
			return err
		}
	}
	return nil
}

// Write builds a complete chunk file from in-memory chunks.
func Write(w io.Writer, magic, form string, order binary.ByteOrder, chunks ...Raw) error {
	total := int64(4)
	for _, c := range chunks {
		total += 8 + int64(len(c.Data)) + int64(len(c.Data)&1)
	}
	if total > math.MaxUint32 {
		return fmt.Errorf("file too large (%d bytes)", total)
	}
	if err := writeHeader(w, magic, form, order, uint32(total)); err != nil {
		return err
	}
	for _, c := range chunks {
		if err := writeRaw(w, c, order); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(w io.Writer, magic, form string, order binary.ByteOrder, size uint32) error {
	if len(magic) != 4 || len(form) != 4 {
		return fmt.Errorf("invalid header %q/%q", magic, form)
	}
	var hdr [12]byte
	copy(hdr[0:4], magic)
	order.PutUint32(hdr[4:8], size)
	copy(hdr[8:12], form)
	_, err := w.Write(hdr[:])
	return err
}

func writeChunkHeader(w io.Writer, id string, size uint32, order binary.ByteOrder) error {
	if len(id) != 4 {
		return fmt.Errorf("invalid chunk id %q", id)
	}
	var hdr [8]byte
	copy(hdr[0:4], id)
	order.PutUint32(hdr[4:8], size)
	_, err := w.Write(hdr[:])
	return err
}

func writeRaw(w io.Writer, c Raw, order binary.ByteOrder) error {
	if err := writeChunkHeader(w, c.ID, uint32(len(c.Data)), order); err != nil {
		return err
	}
	if _, err := w.Write(c.Data); err != nil {
		return err
	}
	if len(c.Data)&1 == 1 {
		_, err := w.Write([]byte{0})
		return err
	}
	return nil
}
