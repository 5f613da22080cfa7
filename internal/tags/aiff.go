package tags

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"

	"github.com/backmassage/deckprep/internal/chunk"
	"github.com/backmassage/deckprep/internal/probe"
)

// id3ChunkIDs are the chunk IDs writers use for an embedded ID3v2 tag.
var id3ChunkIDs = []string{"ID3 ", "id3 "}

// aiffStore reads the embedded ID3v2 tag with dhowden/tag and edits it with
// bogem/id3v2. Frames this package does not model are preserved.
type aiffStore struct {
	values
	path  string
	id3   *id3v2.Tag
	dirty map[string]bool
}

func loadAIFF(path string, af probe.AudioFormat) (*aiffStore, error) {
	s := &aiffStore{values: newValues(af), path: path, dirty: make(map[string]bool)}

	raw, err := readID3Chunk(path)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		s.id3 = id3v2.NewEmptyTag()
		return s, nil
	}

	if m, err := tag.ReadFrom(bytes.NewReader(raw)); err == nil {
		s.readMetadata(m)
	}

	s.id3, err = id3v2.ParseReader(bytes.NewReader(raw), id3v2.Options{Parse: true})
	if err != nil {
		// Unparseable for editing: rebuild from what was read.
		s.id3 = id3v2.NewEmptyTag()
		for k := range s.user {
			s.dirty[k] = true
		}
	}
	return s, nil
}

func readID3Chunk(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	layout, err := chunk.Scan(f)
	if err != nil {
		return nil, err
	}
	c, ok := layout.Find(id3ChunkIDs...)
	if !ok || c.Truncated {
		return nil, nil
	}
	return layout.ReadData(f, c)
}

func (s *aiffStore) readMetadata(m tag.Metadata) {
	s.put(KeyTitle, TextValue(m.Title()))
	s.put(KeyArtist, TextValue(m.Artist()))
	s.put(KeyAlbum, TextValue(m.Album()))
	s.put(KeyAlbumArtist, TextValue(m.AlbumArtist()))
	s.put(KeyComposer, TextValue(m.Composer()))
	s.put(KeyGenre, TextValue(m.Genre()))
	s.put(KeyComment, TextValue(m.Comment()))
	s.put(KeyLyrics, TextValue(m.Lyrics()))
	if y := m.Year(); y > 0 {
		s.put(KeyYear, TextValue(strconv.Itoa(y)))
	}
	track, tracks := m.Track()
	s.put(KeyTrackNumber, positive(track))
	s.put(KeyTotalTracks, positive(tracks))
	disc, discs := m.Disc()
	s.put(KeyDiscNumber, positive(disc))
	s.put(KeyTotalDiscs, positive(discs))
	if p := m.Picture(); p != nil && len(p.Data) > 0 {
		s.put(KeyArtwork, PictureValue(p.MIMEType, p.Data))
	}
}

func positive(n int) Value {
	if n <= 0 {
		return Value{}
	}
	return TextValue(strconv.Itoa(n))
}

func (s *aiffStore) Set(key string, v Value) error {
	if err := checkSettable(key); err != nil {
		return err
	}
	if key == KeyArtwork && !v.IsZero() && v.Picture == nil {
		return fmt.Errorf("artwork needs picture data")
	}
	s.put(key, v)
	s.dirty[key] = true
	return nil
}

// Save applies pending changes to the ID3v2 tag and rewrites the file with
// the new "ID3 " chunk. The rewrite goes to a temp file in the same
// directory that replaces the original by rename.
func (s *aiffStore) Save() error {
	if len(s.dirty) == 0 {
		return nil
	}
	for key := range s.dirty {
		s.applyFrame(key)
	}

	var buf bytes.Buffer
	if s.id3.Count() > 0 {
		if _, err := s.id3.WriteTo(&buf); err != nil {
			return fmt.Errorf("encode ID3v2 tag: %w", err)
		}
	}
	if err := s.rewrite(buf.Bytes()); err != nil {
		return fmt.Errorf("save tags %s: %w", s.path, err)
	}
	s.dirty = make(map[string]bool)
	return nil
}

// applyFrame replaces the frames backing key with its current value.
func (s *aiffStore) applyFrame(key string) {
	t := s.id3
	v := s.user[key]
	enc := id3v2.EncodingUTF8

	switch key {
	case KeyTitle:
		t.DeleteFrames("TIT2")
		if v.Text != "" {
			t.SetTitle(v.Text)
		}
	case KeyArtist:
		t.DeleteFrames("TPE1")
		if v.Text != "" {
			t.SetArtist(v.Text)
		}
	case KeyAlbum:
		t.DeleteFrames("TALB")
		if v.Text != "" {
			t.SetAlbum(v.Text)
		}
	case KeyGenre:
		t.DeleteFrames("TCON")
		if v.Text != "" {
			t.SetGenre(v.Text)
		}
	case KeyYear:
		t.DeleteFrames("TYER")
		t.DeleteFrames("TDRC")
		if v.Text != "" {
			t.SetYear(v.Text)
		}
	case KeyAlbumArtist:
		s.setText("TPE2", v.Text)
	case KeyComposer:
		s.setText(t.CommonID("Composer"), v.Text)
	case KeyTrackNumber, KeyTotalTracks:
		s.setText(t.CommonID("Track number/Position in set"), pair(s.user[KeyTrackNumber].Text, s.user[KeyTotalTracks].Text))
	case KeyDiscNumber, KeyTotalDiscs:
		s.setText("TPOS", pair(s.user[KeyDiscNumber].Text, s.user[KeyTotalDiscs].Text))
	case KeyComment:
		t.DeleteFrames("COMM")
		if v.Text != "" {
			t.AddCommentFrame(id3v2.CommentFrame{Encoding: enc, Language: "eng", Text: v.Text})
		}
	case KeyLyrics:
		t.DeleteFrames("USLT")
		if v.Text != "" {
			t.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{Encoding: enc, Language: "eng", Lyrics: v.Text})
		}
	case KeyArtwork:
		t.DeleteFrames("APIC")
		if v.Picture != nil {
			t.AddAttachedPicture(id3v2.PictureFrame{
				Encoding:    enc,
				MimeType:    v.Picture.MIMEType,
				PictureType: id3v2.PTFrontCover,
				Description: "Front cover",
				Picture:     v.Picture.Data,
			})
		}
	}
}

func (s *aiffStore) setText(id, text string) {
	s.id3.DeleteFrames(id)
	if text != "" {
		s.id3.AddTextFrame(id, id3v2.EncodingUTF8, text)
	}
}

// pair renders "n/total", "n" or "" for TRCK and TPOS.
func pair(n, total string) string {
	switch {
	case n == "":
		return ""
	case total == "":
		return n
	}
	return n + "/" + total
}

func (s *aiffStore) rewrite(id3 []byte) error {
	src, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer src.Close()

	layout, err := chunk.Scan(src)
	if err != nil {
		return err
	}
	fi, err := src.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".deckprep-tags-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	var extra []chunk.Raw
	if len(id3) > 0 {
		extra = append(extra, chunk.Raw{ID: "ID3 ", Data: id3})
	}
	if err := chunk.Rewrite(tmp, src, layout, id3ChunkIDs, extra...); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, fi.Mode().Perm()); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
