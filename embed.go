package folio

import "embed"

// EmbeddedAssets holds the browser assets served under /public/:
// site.js (loading gate, markdown preview) and site.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
