package tags

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/deckprep/internal/audiotest"
	"github.com/backmassage/deckprep/internal/probe"
)

func id3Bytes(t *testing.T, build func(tag *id3v2.Tag)) []byte {
	t.Helper()
	tag := id3v2.NewEmptyTag()
	build(tag)
	var buf bytes.Buffer
	_, err := tag.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLoad_AIFFReadsID3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.aiff")
	raw := id3Bytes(t, func(tag *id3v2.Tag) {
		tag.SetTitle("Night Drive")
		tag.SetArtist("X")
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, "3/12")
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding: id3v2.EncodingUTF8, MimeType: "image/png",
			PictureType: id3v2.PTFrontCover, Picture: []byte("\x89PNG fake"),
		})
	})
	audiotest.WriteAIFF(t, path, audiotest.Spec{SampleRate: 96000, BitDepth: 24, ID3: raw})

	ts, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{
		KeySampleRate, KeyBitsPerSample, KeyChannels,
		KeyTitle, KeyArtist, KeyTrackNumber, KeyTotalTracks, KeyArtwork,
	}, ts.Keys())

	v, ok := ts.Get(KeyArtist)
	require.True(t, ok)
	assert.Equal(t, "X", v.Text)

	v, _ = ts.Get(KeySampleRate)
	assert.Equal(t, "96000", v.Text)

	v, _ = ts.Get(KeyTotalTracks)
	assert.Equal(t, "12", v.Text)

	v, ok = ts.Get(KeyArtwork)
	require.True(t, ok)
	require.NotNil(t, v.Picture)
	assert.Equal(t, []byte("\x89PNG fake"), v.Picture.Data)
}

func TestAIFF_SetSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.aiff")
	audiotest.WriteAIFF(t, path, audiotest.Spec{SampleRate: 48000, BitDepth: 16})

	ts, err := Load(path)
	require.NoError(t, err)
	_, ok := ts.Get(KeyTitle)
	assert.False(t, ok)

	require.NoError(t, ts.Set(KeyTitle, TextValue("Intro")))
	require.NoError(t, ts.Set(KeyAlbumArtist, TextValue("Various")))
	require.NoError(t, ts.Set(KeyYear, TextValue("1999")))
	require.NoError(t, ts.Set(KeyComment, TextValue("from vinyl")))
	require.NoError(t, ts.Set(KeyArtwork, PictureValue("image/jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0})))
	require.NoError(t, ts.Save())

	// The audio header is untouched by the rewrite.
	af, err := probe.Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, 48000, af.SampleRate)
	assert.Equal(t, 16, af.BitDepth)

	again, err := Load(path)
	require.NoError(t, err)
	for key, want := range map[string]string{
		KeyTitle:       "Intro",
		KeyAlbumArtist: "Various",
		KeyYear:        "1999",
		KeyComment:     "from vinyl",
	} {
		v, ok := again.Get(key)
		if assert.True(t, ok, key) {
			assert.Equal(t, want, v.Text, key)
		}
	}
	art, ok := again.Get(KeyArtwork)
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", art.Picture.MIMEType)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xE0}, art.Picture.Data)
}

func TestAIFF_SavePreservesOtherFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.aiff")
	raw := id3Bytes(t, func(tag *id3v2.Tag) {
		tag.SetArtist("Old")
		tag.AddTextFrame("TBPM", id3v2.EncodingUTF8, "128")
	})
	audiotest.WriteAIFF(t, path, audiotest.Spec{SampleRate: 44100, BitDepth: 16, ID3: raw})

	ts, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, ts.Set(KeyArtist, TextValue("New")))
	require.NoError(t, ts.Save())

	again, err := Load(path)
	require.NoError(t, err)
	v, _ := again.Get(KeyArtist)
	assert.Equal(t, "New", v.Text)

	store := again.(*aiffStore)
	assert.Equal(t, "128", store.id3.GetTextFrame("TBPM").Text)
}

func TestAIFF_SetRejectsComputedAndUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.aiff")
	audiotest.WriteAIFF(t, path, audiotest.Spec{SampleRate: 44100, BitDepth: 16})
	ts, err := Load(path)
	require.NoError(t, err)

	assert.ErrorIs(t, ts.Set(KeySampleRate, TextValue("1")), ErrComputedKey)
	assert.ErrorIs(t, ts.Set("mood", TextValue("happy")), ErrUnknownKey)
}

func TestLoad_WAVReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "take.wav")
	audiotest.WriteWAV(t, path, audiotest.Spec{
		SampleRate: 96000, BitDepth: 24,
		Info: map[string]string{"INAM": "Take 1", "IART": "Band"},
	})

	ts, err := Load(path)
	require.NoError(t, err)

	v, ok := ts.Get(KeyTitle)
	require.True(t, ok)
	assert.Equal(t, "Take 1", v.Text)
	v, _ = ts.Get(KeyArtist)
	assert.Equal(t, "Band", v.Text)
	v, _ = ts.Get(KeyBitsPerSample)
	assert.Equal(t, "24", v.Text)

	assert.ErrorIs(t, ts.Set(KeyTitle, TextValue("x")), ErrReadOnly)
	assert.ErrorIs(t, ts.Save(), ErrReadOnly)
}

func TestWAV_ParseInfoOversizedEntry(t *testing.T) {
	var info bytes.Buffer
	info.WriteString("INAM\x06\x00\x00\x00Intro\x00")
	// Declared size beyond the buffer, at or above 2^31.
	info.WriteString("IART\xf0\xff\xff\xffBand")

	s := &wavStore{values: newValues(probe.AudioFormat{SampleRate: 44100, BitDepth: 16, Channels: 2})}
	require.NotPanics(t, func() { s.parseInfo(info.Bytes()) })

	v, ok := s.Get(KeyTitle)
	require.True(t, ok)
	assert.Equal(t, "Intro", v.Text)
	_, ok = s.Get(KeyArtist)
	assert.False(t, ok)
}

func TestIsComputed(t *testing.T) {
	assert.True(t, IsComputed("#channels"))
	assert.False(t, IsComputed("artist"))
}
