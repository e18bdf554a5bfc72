// Package ioutils provides file system and image helpers for saved covers
// and terminal previews.
//
// # File Operations
//
//	err := ioutils.EnsureDir("/tmp/covers")
//	name := ioutils.CoverFileName("AC/DC", "Back in Black") // "AC_DC - Back in Black.jpg"
//	err = ioutils.WriteFile(ctx, filepath.Join("/tmp/covers", name), data)
//
// # Image Processing
//
//	svc := ioutils.NewImageService()
//
//	// Resize a cover to fit within 900x900 and encode as JPEG
//	resized, _ := svc.ResizeImage(ctx, data, 900, 900)
//
//	// Downscale for a terminal preview
//	thumb, _ := svc.Thumbnail(ctx, data, 24, 24)
package ioutils
