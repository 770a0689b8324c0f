// Package views holds the page templates and static assets.
package views

import "embed"

// FS contains the html templates and the static directory.
//
//go:embed *.html layouts/*.html static/*
var FS embed.FS
