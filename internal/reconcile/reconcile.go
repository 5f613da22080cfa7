// Package reconcile restores user metadata on a freshly converted file and
// embeds sibling cover art. It only acts on AIFF output; WAV tags cannot be
// written. Problems are returned as warnings and never fail a conversion.
package reconcile

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/backmassage/deckprep/internal/probe"
	"github.com/backmassage/deckprep/internal/tags"
)

// CoverNames are the sibling artwork files searched, in priority order.
var CoverNames = []string{"cover.jpg", "cover.jpeg", "cover.png"}

// Warning is a non-fatal reconciliation problem.
type Warning struct {
	Path string
	Op   string
	Err  error
}

func (w *Warning) Error() string { return "reconcile " + w.Path + ": " + w.Op + ": " + w.Err.Error() }

func (w *Warning) Unwrap() error { return w.Err }

// Loader opens the tag store of the converted file.
type Loader func(path string) (tags.TagSet, error)

// Reconcile copies every user key except artwork from original onto the
// tag store of targetPath, then embeds the first readable cover image found
// next to inputPath, and saves once. original may be nil.
func Reconcile(original tags.TagSet, inputPath, targetPath, container string) []error {
	return ReconcileWith(tags.Load, original, inputPath, targetPath, container)
}

// ReconcileWith is Reconcile with an explicit tag store loader.
func ReconcileWith(load Loader, original tags.TagSet, inputPath, targetPath, container string) []error {
	if container != probe.ContainerAIFF {
		return nil
	}
	var warnings []error
	warn := func(op string, err error) {
		warnings = append(warnings, &Warning{Path: targetPath, Op: op, Err: err})
	}

	target, err := load(targetPath)
	if err != nil {
		warn("load tags", err)
		return warnings
	}

	if original != nil {
		for _, key := range original.Keys() {
			if tags.IsComputed(key) || key == tags.KeyArtwork {
				continue
			}
			v, ok := original.Get(key)
			if !ok {
				continue
			}
			if err := target.Set(key, v); err != nil {
				warn("set "+key, err)
			}
		}
	}

	if pic, err := FindCover(filepath.Dir(inputPath)); err != nil {
		warn("read cover", err)
	} else if pic != nil {
		if err := target.Set(tags.KeyArtwork, tags.PictureValue(pic.MIMEType, pic.Data)); err != nil {
			warn("set artwork", err)
		}
	}

	if err := target.Save(); err != nil {
		warn("save tags", err)
	}
	return warnings
}

// FindCover returns the first readable cover image in dir, or nil when
// none exists. Unreadable candidates are skipped; the error of the last
// one is returned only if no candidate could be read.
func FindCover(dir string) (*tags.Picture, error) {
	var lastErr error
	for _, name := range CoverNames {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				lastErr = err
			}
			continue
		}
		return &tags.Picture{MIMEType: mimeType(name, data), Data: data}, nil
	}
	return nil, lastErr
}

func mimeType(name string, data []byte) string {
	if ct := http.DetectContentType(data); ct == "image/jpeg" || ct == "image/png" {
		return ct
	}
	if filepath.Ext(name) == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}
