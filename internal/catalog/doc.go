// Package catalog owns the record set and the current query, and derives
// the filtered, sorted View from them.
//
// # Loading
//
// Load normalizes raw rows, silently drops invalid ones and swaps the new
// set in atomically:
//
//	store := catalog.NewStore(catalog.Options{})
//	if err := store.Load(rows); err != nil {
//	    var ierr *catalog.IngestionError
//	    errors.As(err, &ierr) // the previous set is still in place
//	}
//
// # Querying
//
// SetQuery recomputes the View from scratch on every call:
//
//	view := store.SetQuery(catalog.Query{Text: "evans", Genres: []string{"Jazz"}})
//
// With no text and no genre the View is shuffled ("shuffle the shelf");
// otherwise it is sorted by artist with Korean-aware, case-insensitive
// collation, keeping input order among equal artists.
package catalog
