package tags

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/backmassage/deckprep/internal/chunk"
	"github.com/backmassage/deckprep/internal/probe"
)

// RIFF INFO sub-chunk IDs mapped to user keys.
var infoKeys = map[string]string{
	"INAM": KeyTitle,
	"IART": KeyArtist,
	"IPRD": KeyAlbum,
	"IGNR": KeyGenre,
	"ICRD": KeyYear,
	"ICMT": KeyComment,
	"ITRK": KeyTrackNumber,
}

// wavStore is the limited WAV store: readable, never writable.
type wavStore struct {
	values
	path string
}

func loadWAV(path string, af probe.AudioFormat) (*wavStore, error) {
	s := &wavStore{values: newValues(af), path: path}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	layout, err := chunk.Scan(f)
	if err != nil {
		return nil, err
	}
	for _, c := range layout.Chunks {
		if c.ID != "LIST" || c.Truncated || c.Size < 4 {
			continue
		}
		data, err := layout.ReadData(f, c)
		if err != nil {
			return nil, err
		}
		if string(data[0:4]) == "INFO" {
			s.parseInfo(data[4:])
		}
	}
	return s, nil
}

func (s *wavStore) parseInfo(data []byte) {
	for len(data) >= 8 {
		id := string(data[0:4])
		n := uint64(binary.LittleEndian.Uint32(data[4:8]))
		data = data[8:]
		if n > uint64(len(data)) {
			return
		}
		size := int(n)
		if key, ok := infoKeys[id]; ok {
			text := string(bytes.TrimRight(data[:size], "\x00 "))
			s.put(key, TextValue(text))
		}
		size += size & 1
		if size > len(data) {
			return
		}
		data = data[size:]
	}
}

func (s *wavStore) Set(key string, _ Value) error {
	return fmt.Errorf("set %s on %s: %w", key, s.path, ErrReadOnly)
}

func (s *wavStore) Save() error {
	return fmt.Errorf("save %s: %w", s.path, ErrReadOnly)
}
