// Package models defines the catalog entities shared by every kinox layer.
//
// [Movie] mirrors the subset of a TMDB movie record the application reads. Field names and JSON tags match the
// upstream response so records fetched from the catalog can be stored in the watchlist verbatim and read back
// without translation.
//
// Movies are never mutated after they are decoded; the watchlist stores copies.
package models
