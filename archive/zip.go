// Package archive bundles a drawing session into a single zip file: a
// content.json manifest and one .lines file per sketch.
package archive

import (
	"archive/zip"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/juruen/quickdraw/encoding/sketch"
	"github.com/juruen/quickdraw/log"
	"github.com/juruen/quickdraw/model"
)

const contentFile = "content.json"

// Content is the manifest of an archive.
type Content struct {
	ID       string    `json:"id"`
	Created  time.Time `json:"created"`
	Labels   []string  `json:"labels,omitempty"`
	Sketches []Entry   `json:"sketches"`
}

// Entry describes one sketch of the session.
type Entry struct {
	ID         string            `json:"id"`
	Expected   string            `json:"expected,omitempty"`
	File       string            `json:"file"`
	Prediction *model.Prediction `json:"prediction,omitempty"`
}

// Item is an entry together with its decoded sketch.
type Item struct {
	Entry
	Sketch *sketch.Sketch
}

type Zip struct {
	Content Content
	Items   []*Item
}

func NewZip() *Zip {
	return &Zip{
		Content: Content{
			ID:       uuid.New().String(),
			Created:  time.Now().UTC(),
			Sketches: []Entry{},
		},
	}
}

// Add appends a sketch with the object the user was asked to draw.
func (z *Zip) Add(s *sketch.Sketch, expected string) *Item {
	id := uuid.New().String()
	item := &Item{
		Entry:  Entry{ID: id, Expected: expected, File: id + sketch.ExtLines},
		Sketch: s,
	}
	z.Items = append(z.Items, item)
	return item
}

// Write serializes the archive. The manifest is rebuilt from Items.
func (z *Zip) Write(w io.Writer) error {
	archive := zip.NewWriter(w)

	z.Content.Sketches = make([]Entry, 0, len(z.Items))
	for _, item := range z.Items {
		z.Content.Sketches = append(z.Content.Sketches, item.Entry)
	}

	f, err := archive.Create(contentFile)
	if err != nil {
		return errors.Wrap(err, "can't create content file")
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	if err := enc.Encode(z.Content); err != nil {
		return errors.Wrap(err, "can't write content")
	}

	for _, item := range z.Items {
		data, err := item.Sketch.MarshalBinary()
		if err != nil {
			return errors.Wrapf(err, "can't encode sketch %s", item.ID)
		}
		f, err := archive.Create(item.File)
		if err != nil {
			return errors.Wrapf(err, "can't create %s", item.File)
		}
		if _, err := f.Write(data); err != nil {
			return errors.Wrapf(err, "can't write %s", item.File)
		}
	}

	return archive.Close()
}

// Read loads an archive written by Write.
func (z *Zip) Read(r io.ReaderAt, size int64) error {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return errors.Wrap(err, "can't open zip")
	}

	files := make(map[string]*zip.File, len(archive.File))
	for _, f := range archive.File {
		files[f.Name] = f
	}

	cf, ok := files[contentFile]
	if !ok {
		return errors.New("missing " + contentFile)
	}
	data, err := readFile(cf)
	if err != nil {
		return err
	}
	var content Content
	if err := json.Unmarshal(data, &content); err != nil {
		return errors.Wrap(err, "can't parse content")
	}

	items := make([]*Item, 0, len(content.Sketches))
	for _, entry := range content.Sketches {
		f, ok := files[entry.File]
		if !ok {
			return errors.Errorf("sketch %s: missing file %s", entry.ID, entry.File)
		}
		data, err := readFile(f)
		if err != nil {
			return err
		}
		s, err := sketch.Decode(entry.File, data)
		if err != nil {
			return errors.Wrapf(err, "sketch %s", entry.ID)
		}
		items = append(items, &Item{Entry: entry, Sketch: s})
	}

	log.Trace.Printf("archive: read %s with %d sketches", content.ID, len(items))
	z.Content = content
	z.Items = items
	return nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "can't open %s", f.Name)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read %s", f.Name)
	}
	return data, nil
}
