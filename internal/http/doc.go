// Package http provides the HTTP client used to fetch sheet exports and
// cover images.
//
// # Basic Usage
//
//	client := http.NewClient(http.DefaultTimeout)
//
//	// Fetch a gviz export
//	text, err := client.GetString(ctx, sheetURL)
//
//	// Fetch a cover preview
//	data, err := client.DownloadBytes(ctx, thumbURL)
//
// # Progress Tracking
//
// ProgressWriter wraps any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
