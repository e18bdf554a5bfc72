// Package controller owns the catalog store and the window renderer and is
// the single place where they are mutated.
//
// # Controller
//
// The Controller coordinates a catalog session:
//
//  1. Fetch rows from every configured source concurrently
//  2. Ingest them into the store in one atomic swap
//  3. Recompute the View on query events and reset the window
//  4. Grow the window on explicit or proximity-driven requests
//  5. Project selected records for the detail view
//
// # Basic Usage
//
//	ctl := controller.New(settings, controller.Deps[model.Record]{
//	    Sources:     sources,
//	    Materialize: func(r model.Record) model.Record { return r },
//	    OnProgress: func(event controller.ProgressEvent) {
//	        fmt.Println(event.Message)
//	    },
//	})
//
//	if _, err := ctl.Load(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	update, err := ctl.Dispatch(controller.SetText{Text: "jazz"})
//
// # Concurrency
//
// Dispatch and Ingest must be called from one goroutine. Fetch may run on
// another; it touches no store state, and a second Fetch while one is in
// flight fails with ErrLoadInFlight. Sources are fetched with at most
// settings.MaxConcurrentFetches requests in parallel.
//
// # Retry Logic
//
// Failed fetches are retried with exponential backoff, configurable via
// settings.FetchMaxRetries, settings.FetchRetryCooldown and
// settings.FetchRetryExponent.
package controller
