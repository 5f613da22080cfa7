// Package tags exposes an audio file's metadata as a TagSet: an ordered
// key/value view with one implementation per container.
//
// Keys starting with "#" are computed from the audio header and read-only.
// All other keys are user keys. WAV files expose their RIFF INFO entries
// read-only; AIFF files carry a full ID3v2 tag (including artwork) in their
// "ID3 " chunk and can be edited and saved.
package tags

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/backmassage/deckprep/internal/probe"
)

// Computed keys.
const (
	KeySampleRate    = "#sample_rate"
	KeyBitsPerSample = "#bits_per_sample"
	KeyChannels      = "#channels"
)

// User keys.
const (
	KeyTitle       = "title"
	KeyArtist      = "artist"
	KeyAlbum       = "album"
	KeyAlbumArtist = "albumartist"
	KeyComposer    = "composer"
	KeyGenre       = "genre"
	KeyYear        = "year"
	KeyTrackNumber = "tracknumber"
	KeyTotalTracks = "totaltracks"
	KeyDiscNumber  = "discnumber"
	KeyTotalDiscs  = "totaldiscs"
	KeyComment     = "comment"
	KeyLyrics      = "lyrics"
	KeyArtwork     = "artwork"
)

// UserKeys lists every user key in canonical order.
var UserKeys = []string{
	KeyTitle, KeyArtist, KeyAlbum, KeyAlbumArtist, KeyComposer, KeyGenre,
	KeyYear, KeyTrackNumber, KeyTotalTracks, KeyDiscNumber, KeyTotalDiscs,
	KeyComment, KeyLyrics, KeyArtwork,
}

var (
	// ErrReadOnly is returned by stores whose container cannot be edited.
	ErrReadOnly = errors.New("tag store is read-only")
	// ErrComputedKey is returned when setting a "#" key.
	ErrComputedKey = errors.New("computed keys are read-only")
	// ErrUnknownKey is returned when setting a key outside UserKeys.
	ErrUnknownKey = errors.New("unknown tag key")
)

// IsComputed reports whether key is derived from the audio header.
func IsComputed(key string) bool { return strings.HasPrefix(key, "#") }

// Picture is embedded artwork.
type Picture struct {
	MIMEType string
	Data     []byte
}

// Value is a tag value. Artwork uses Picture; every other key uses Text.
type Value struct {
	Text    string
	Picture *Picture
}

// TextValue wraps s.
func TextValue(s string) Value { return Value{Text: s} }

// PictureValue wraps an image.
func PictureValue(mime string, data []byte) Value {
	return Value{Picture: &Picture{MIMEType: mime, Data: data}}
}

// IsZero reports whether v carries nothing.
func (v Value) IsZero() bool { return v.Text == "" && v.Picture == nil }

func (v Value) String() string {
	if v.Picture != nil {
		return fmt.Sprintf("<%s, %d bytes>", v.Picture.MIMEType, len(v.Picture.Data))
	}
	return v.Text
}

// TagSet is the capability every container store provides.
type TagSet interface {
	// Keys returns present keys: computed keys first, then user keys in
	// UserKeys order.
	Keys() []string
	Get(key string) (Value, bool)
	Set(key string, v Value) error
	// Save persists pending changes to the file.
	Save() error
}

// Load opens the tag store for path, chosen by its container.
func Load(path string) (TagSet, error) {
	af, err := probe.Inspect(path)
	if err != nil {
		return nil, err
	}
	// Typed nil pointers must not leak into the interface.
	switch af.Container {
	case probe.ContainerWAV:
		s, err := loadWAV(path, af)
		if err != nil {
			return nil, err
		}
		return s, nil
	case probe.ContainerAIFF:
		s, err := loadAIFF(path, af)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("no tag store for container %q", af.Container)
}

// values is the shared ordered map behind both stores.
type values struct {
	computed map[string]Value
	user     map[string]Value
}

func newValues(af probe.AudioFormat) values {
	return values{
		computed: map[string]Value{
			KeySampleRate:    TextValue(strconv.Itoa(af.SampleRate)),
			KeyBitsPerSample: TextValue(strconv.Itoa(af.BitDepth)),
			KeyChannels:      TextValue(strconv.Itoa(af.Channels)),
		},
		user: make(map[string]Value),
	}
}

func (v *values) Keys() []string {
	keys := []string{KeySampleRate, KeyBitsPerSample, KeyChannels}
	for _, k := range UserKeys {
		if _, ok := v.user[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func (v *values) Get(key string) (Value, bool) {
	if IsComputed(key) {
		val, ok := v.computed[key]
		return val, ok
	}
	val, ok := v.user[key]
	return val, ok
}

// put stores a non-empty user value; empty values are dropped.
func (v *values) put(key string, val Value) {
	if val.IsZero() {
		delete(v.user, key)
		return
	}
	v.user[key] = val
}

func checkSettable(key string) error {
	if IsComputed(key) {
		return fmt.Errorf("%w: %s", ErrComputedKey, key)
	}
	for _, k := range UserKeys {
		if k == key {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownKey, key)
}
