package source

import (
	"cmp"
	"context"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/handiism/stylus-vinyl/internal/normalize"
)

// coverFileNames are looked up, in order, next to the audio files.
var coverFileNames = []string{"cover.jpg", "cover.png", "folder.jpg", "front.jpg"}

// Tags builds rows from the ID3 tags of a local MP3 collection.
//
// Files are grouped into one row per (directory, album artist, album).
// Tracks are ordered by their TRCK frame, then by file name. The cover is
// the first cover file found in the directory, as a slash-separated path
// relative to the library root so that an asset base can prefix it.
type Tags struct {
	name string
	root string
}

// Name returns the source name.
func (t *Tags) Name() string {
	return t.name
}

type taggedTrack struct {
	number int
	file   string
	title  string
}

type taggedAlbum struct {
	dir    string
	artist string
	album  string
	year   string
	genre  string
	tracks []taggedTrack
}

// Rows scans the directory tree.
func (t *Tags) Rows(ctx context.Context) ([]normalize.Row, error) {
	albums := make(map[string]*taggedAlbum)

	err := filepath.WalkDir(t.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".mp3") {
			return nil
		}

		tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
		if err != nil {
			return err
		}
		defer tag.Close()

		artist := tag.GetTextFrame(tag.CommonID("Band/Orchestra/Accompaniment")).Text
		if artist == "" {
			artist = tag.Artist()
		}
		dir := filepath.Dir(path)
		key := dir + "\x1f" + artist + "\x1f" + tag.Album()

		a, ok := albums[key]
		if !ok {
			a = &taggedAlbum{dir: dir, artist: artist, album: tag.Album()}
			albums[key] = a
		}
		if a.year == "" {
			a.year = tagYear(tag)
		}
		if a.genre == "" {
			a.genre = tag.Genre()
		}

		title := tag.Title()
		if title == "" {
			title = strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		}
		a.tracks = append(a.tracks, taggedTrack{
			number: trackNumber(tag.GetTextFrame(tag.CommonID("Track number/Position in set")).Text),
			file:   d.Name(),
			title:  title,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(albums))
	for k := range albums {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rows := make([]normalize.Row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, albums[k].row(t.root))
	}
	return rows, nil
}

func (a *taggedAlbum) row(root string) normalize.Row {
	slices.SortStableFunc(a.tracks, func(x, y taggedTrack) int {
		if c := cmp.Compare(x.number, y.number); c != 0 {
			return c
		}
		return strings.Compare(x.file, y.file)
	})

	titles := make([]string, len(a.tracks))
	for i, tr := range a.tracks {
		titles[i] = tr.title
	}

	return normalize.Row{
		"Artist": a.artist,
		"Album":  a.album,
		"Year":   a.year,
		"Genre":  a.genre,
		"Cover":  findCover(root, a.dir),
		"Tracks": titles,
	}
}

// tagYear prefers TYER (ID3v2.3) and falls back to the year part of TDRC.
func tagYear(tag *id3v2.Tag) string {
	if y := tag.Year(); y != "" {
		return y
	}
	date := tag.GetTextFrame("TDRC").Text
	if len(date) >= 4 {
		return date[:4]
	}
	return date
}

// trackNumber parses "3" or "3/12". Unparseable values sort last.
func trackNumber(s string) int {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return math.MaxInt
	}
	return n
}

func findCover(root, dir string) string {
	for _, name := range coverFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return filepath.ToSlash(path)
		}
		return filepath.ToSlash(rel)
	}
	return ""
}
