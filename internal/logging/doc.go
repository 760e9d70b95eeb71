// Package logging configures log/slog for pfind.
//
// By default only warnings and errors reach stderr, as plain text, so search
// results on stdout stay clean. --debug lowers the level, --log-file adds a
// size-rotated file, and the json format suits machine consumption.
package logging
