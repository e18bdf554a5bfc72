package catalog

import (
	"io"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/handiism/stylus-vinyl/internal/model"
	"github.com/handiism/stylus-vinyl/internal/normalize"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ShufflePolicy decides when the default browse View is reshuffled.
type ShufflePolicy int

const (
	// ShuffleEveryQuery reshuffles on every unfiltered SetQuery call.
	ShuffleEveryQuery ShufflePolicy = iota

	// ShuffleOncePerLoad shuffles once when records are loaded and reuses
	// that order until the next Load.
	ShuffleOncePerLoad
)

// ParseShufflePolicy converts a settings value to a ShufflePolicy. Unknown
// values map to ShuffleEveryQuery.
func ParseShufflePolicy(s string) ShufflePolicy {
	if strings.EqualFold(s, "once-per-load") {
		return ShuffleOncePerLoad
	}
	return ShuffleEveryQuery
}

// String returns the settings form of the policy.
func (p ShufflePolicy) String() string {
	if p == ShuffleOncePerLoad {
		return "once-per-load"
	}
	return "every-query"
}

// View is the ordered sequence of records matching a Query.
type View []model.Record

// Options configures a Store.
type Options struct {
	// ShufflePolicy controls the default browse order.
	ShufflePolicy ShufflePolicy

	// GenreMode is the selection mode of the UI issuing queries.
	GenreMode GenreMode

	// FullSetMeansAll treats a GenreMulti selection covering every known
	// genre as no selection. It never applies while records without a
	// genre exist, since those do not match any selection.
	FullSetMeansAll bool

	// Locale drives artist collation. Defaults to Korean.
	Locale language.Tag

	// SplitOnComma is passed to the normalizer.
	SplitOnComma bool

	// Rand is the shuffle source. Defaults to a randomly seeded PCG.
	Rand *rand.Rand

	// Logger receives debug output about skipped rows. Defaults to a
	// discarding logger.
	Logger logrus.FieldLogger
}

// LoadStats describes the outcome of the last successful Load.
type LoadStats struct {
	Rows    int
	Kept    int
	Skipped int
}

// Store holds the full record set and the current Query.
//
// Store is not safe for concurrent use. All mutation goes through Load and
// SetQuery; the controller package funnels UI events into those calls.
type Store struct {
	opts     Options
	collator *collate.Collator
	fold     cases.Caser
	rng      *rand.Rand
	log      logrus.FieldLogger

	idx   *index
	query Query
	view  View
	stats LoadStats
}

// index is an immutable snapshot of a loaded record set.
type index struct {
	entries  []entry
	byID     map[string]int
	genres   []string
	untagged int
	shuffled []int
}

type entry struct {
	rec      model.Record
	genre    string
	haystack string
}

// NewStore creates an empty Store.
func NewStore(opts Options) *Store {
	if opts.Locale == language.Und {
		opts.Locale = language.Korean
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	log := opts.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	return &Store{
		opts:     opts,
		collator: collate.New(opts.Locale, collate.IgnoreCase, collate.IgnoreDiacritics, collate.IgnoreWidth),
		fold:     cases.Fold(),
		rng:      rng,
		log:      log,
		idx:      &index{byID: map[string]int{}},
	}
}

// Load replaces the record set with the normalized, valid rows.
//
// Invalid rows are skipped without error. If any row cannot be normalized
// the whole load is aborted with an *IngestionError and the previous set
// stays in place. Load does not recompute the View; call SetQuery
// afterwards.
func (s *Store) Load(rows []normalize.Row) error {
	next := &index{
		entries: make([]entry, 0, len(rows)),
		byID:    make(map[string]int, len(rows)),
	}
	occurrences := make(map[string]int)
	seenGenres := make(map[string]struct{})

	for i, row := range rows {
		rec, err := normalize.Normalize(row, normalize.Options{SplitOnComma: s.opts.SplitOnComma})
		if err != nil {
			return &IngestionError{Row: i, Err: err}
		}
		if !rec.Valid() {
			s.log.WithFields(logrus.Fields{
				"row":    i,
				"artist": rec.Artist,
				"album":  rec.Album,
			}).Debug("Skipping invalid row")
			continue
		}

		key := rec.Artist + "\x1f" + rec.Album + "\x1f" + rec.Year
		rec.ID = model.RecordID(rec, occurrences[key])
		occurrences[key]++

		e := entry{
			rec:      rec,
			genre:    rec.TrimmedGenre(),
			haystack: s.haystack(rec),
		}
		next.byID[rec.ID] = len(next.entries)
		next.entries = append(next.entries, e)

		if e.genre == "" {
			next.untagged++
		} else {
			if _, ok := seenGenres[e.genre]; !ok {
				seenGenres[e.genre] = struct{}{}
				next.genres = append(next.genres, e.genre)
			}
		}
	}

	slices.SortStableFunc(next.genres, s.collator.CompareString)
	if s.opts.ShufflePolicy == ShuffleOncePerLoad {
		next.shuffled = s.rng.Perm(len(next.entries))
	}

	s.idx = next
	s.view = nil
	s.stats = LoadStats{Rows: len(rows), Kept: len(next.entries), Skipped: len(rows) - len(next.entries)}
	s.log.WithFields(logrus.Fields{
		"rows":    s.stats.Rows,
		"kept":    s.stats.Kept,
		"skipped": s.stats.Skipped,
	}).Debug("Catalog loaded")

	return nil
}

// SetQuery makes q the current query and returns the recomputed View.
//
// The returned slice is freshly allocated on every call.
func (s *Store) SetQuery(q Query) View {
	q = s.normalizeQuery(q)
	s.query = q
	s.view = s.compute(q)
	return s.view
}

// Query returns the current, normalized query.
func (s *Store) Query() Query {
	return s.query
}

// View returns the View computed by the last SetQuery call, or nil if
// nothing has been queried since the last Load.
func (s *Store) View() View {
	return s.view
}

// Len returns the number of records in the set.
func (s *Store) Len() int {
	return len(s.idx.entries)
}

// LastLoad returns statistics about the last successful Load.
func (s *Store) LastLoad() LoadStats {
	return s.stats
}

// Genres returns the distinct non-empty genres of the set, collated.
func (s *Store) Genres() []string {
	return slices.Clone(s.idx.genres)
}

// Record looks a record up by ID.
func (s *Store) Record(id string) (model.Record, bool) {
	i, ok := s.idx.byID[id]
	if !ok {
		return model.Record{}, false
	}
	return s.idx.entries[i].rec, true
}

// Records returns the full set in load order.
func (s *Store) Records() []model.Record {
	out := make([]model.Record, len(s.idx.entries))
	for i, e := range s.idx.entries {
		out[i] = e.rec
	}
	return out
}

// matches reports whether e satisfies q. q must be normalized.
func (s *Store) matches(e entry, q Query) bool {
	if len(q.Genres) > 0 && !slices.Contains(q.Genres, e.genre) {
		return false
	}
	return q.Text == "" || strings.Contains(e.haystack, q.Text)
}

func (s *Store) compute(q Query) View {
	idx := s.idx

	if q.IsDefault() {
		view := make(View, len(idx.entries))
		if idx.shuffled != nil {
			for i, j := range idx.shuffled {
				view[i] = idx.entries[j].rec
			}
			return view
		}
		for i, e := range idx.entries {
			view[i] = e.rec
		}
		s.rng.Shuffle(len(view), func(i, j int) { view[i], view[j] = view[j], view[i] })
		return view
	}

	view := make(View, 0, len(idx.entries))
	for _, e := range idx.entries {
		if s.matches(e, q) {
			view = append(view, e.rec)
		}
	}
	slices.SortStableFunc(view, func(a, b model.Record) int {
		return s.collator.CompareString(a.Artist, b.Artist)
	})
	return view
}

// normalizeQuery normalizes q and applies the full-set alias.
func (s *Store) normalizeQuery(q Query) Query {
	out := q.Normalized()
	if s.opts.FullSetMeansAll && s.opts.GenreMode == GenreMulti && s.coversAllGenres(out.Genres) {
		out.Genres = nil
	}
	return out
}

func (s *Store) coversAllGenres(genres []string) bool {
	known := s.idx.genres
	if s.idx.untagged > 0 || len(genres) == 0 || len(genres) != len(known) {
		return false
	}
	for _, g := range known {
		if !slices.Contains(genres, g) {
			return false
		}
	}
	return true
}

// haystack is the folded text searched by free-text queries.
func (s *Store) haystack(rec model.Record) string {
	parts := make([]string, 0, 3+len(rec.Tracks))
	parts = append(parts, rec.Album, rec.Artist, rec.Genre)
	parts = append(parts, rec.Tracks...)
	return s.fold.String(strings.Join(parts, " "))
}
