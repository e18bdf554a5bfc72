// Package window exposes a growing prefix of a catalog View to the
// presentation layer.
//
// A Renderer materializes records into presentation handles (rendered
// cards, widgets, ...) one slice at a time:
//
//	r := window.New(40, func(rec model.Record) string { return card(rec) })
//	first := r.Reset(view) // handles for view[0:40]
//	if r.More() {
//	    next, _ := r.Grow() // handles for view[40:80] only
//	}
//
// Handles already produced for the current View are never re-created.
//
// # Continuation trigger
//
// Auto-loading UIs call Approach when the user nears the end of the
// window. The trigger disarms the moment it fires and re-arms only after a
// successful Grow that still leaves more records, so a burst of proximity
// events causes a single growth.
package window
