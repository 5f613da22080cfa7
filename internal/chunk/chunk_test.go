package chunk

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFile(t *testing.T, magic, form string, order binary.ByteOrder, chunks ...Raw) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, magic, form, order, chunks...))
	return buf.Bytes()
}

func TestScan_RIFF(t *testing.T) {
	data := buildFile(t, MagicRIFF, FormWAVE, binary.LittleEndian,
		Raw{ID: "fmt ", Data: make([]byte, 16)},
		Raw{ID: "odd!", Data: []byte{1, 2, 3}},
		Raw{ID: "data", Data: make([]byte, 64)},
	)

	f, err := Scan(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, MagicRIFF, f.Magic)
	assert.Equal(t, FormWAVE, f.Form)
	require.Len(t, f.Chunks, 3)

	assert.Equal(t, "odd!", f.Chunks[1].ID)
	assert.Equal(t, uint32(3), f.Chunks[1].Size)
	// The odd chunk is padded, so data starts 4 bytes after its body.
	assert.Equal(t, f.Chunks[1].Offset+4+8, f.Chunks[2].Offset)

	assert.Equal(t, uint32(len(data)-8), binary.LittleEndian.Uint32(data[4:8]))
}

func TestScan_FORMBigEndian(t *testing.T) {
	data := buildFile(t, MagicFORM, FormAIFF, binary.BigEndian,
		Raw{ID: "COMM", Data: make([]byte, 18)},
		Raw{ID: "SSND", Data: make([]byte, 40)},
	)
	f, err := Scan(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, binary.BigEndian, f.Order)

	c, ok := f.Find("SSND")
	require.True(t, ok)
	assert.Equal(t, uint32(40), c.Size)

	_, ok = f.Find("ID3 ", "id3 ")
	assert.False(t, ok)
}

func TestScan_TruncatedTrailingChunk(t *testing.T) {
	data := buildFile(t, MagicRIFF, FormWAVE, binary.LittleEndian,
		Raw{ID: "fmt ", Data: make([]byte, 16)},
		Raw{ID: "data", Data: make([]byte, 100)},
	)
	data = data[:len(data)-50]

	f, err := Scan(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, f.Chunks, 2)
	assert.True(t, f.Chunks[1].Truncated)

	_, err = f.ReadData(bytes.NewReader(data), f.Chunks[1])
	assert.Error(t, err)
}

func TestScan_NotChunkFile(t *testing.T) {
	_, err := Scan(bytes.NewReader([]byte("ID3\x04\x00\x00\x00\x00\x00\x00\x00\x00")))
	assert.ErrorIs(t, err, ErrNotChunkFile)

	_, err = Scan(bytes.NewReader([]byte("RIFF")))
	assert.ErrorIs(t, err, ErrNotChunkFile)
}

func TestRewrite_ReplacesChunk(t *testing.T) {
	data := buildFile(t, MagicFORM, FormAIFF, binary.BigEndian,
		Raw{ID: "COMM", Data: bytes.Repeat([]byte{7}, 18)},
		Raw{ID: "ID3 ", Data: []byte("old tag")},
		Raw{ID: "SSND", Data: bytes.Repeat([]byte{9}, 32)},
	)
	src := bytes.NewReader(data)
	f, err := Scan(src)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Rewrite(&out, src, f, []string{"ID3 ", "id3 "}, Raw{ID: "ID3 ", Data: []byte("new tag!!")}))

	got, err := Scan(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	ids := make([]string, 0, len(got.Chunks))
	for _, c := range got.Chunks {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"COMM", "SSND", "ID3 "}, ids)

	tag, ok := got.Find("ID3 ")
	require.True(t, ok)
	body, err := got.ReadData(bytes.NewReader(out.Bytes()), tag)
	require.NoError(t, err)
	assert.Equal(t, "new tag!!", string(body))

	ssnd, _ := got.Find("SSND")
	body, err = got.ReadData(bytes.NewReader(out.Bytes()), ssnd)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{9}, 32), body)

	assert.Equal(t, uint32(out.Len()-8), binary.BigEndian.Uint32(out.Bytes()[4:8]))
}

func TestExtended_CommonRates(t *testing.T) {
	for _, rate := range []uint64{8000, 22050, 44100, 48000, 88200, 96000, 192000} {
		b := EncodeExtended(rate)
		assert.Equal(t, float64(rate), DecodeExtended(b), "rate %d", rate)
	}
}

func TestExtended_KnownEncoding(t *testing.T) {
	// 44100 Hz as written by every AIFF encoder.
	want := [10]byte{0x40, 0x0E, 0xAC, 0x44, 0, 0, 0, 0, 0, 0}
	assert.Equal(t, want, EncodeExtended(44100))
	assert.Equal(t, 0.0, DecodeExtended([10]byte{}))
}
