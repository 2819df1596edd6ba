package blogster

import "embed"

// EmbeddedAssets contains static assets served under /public/.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
