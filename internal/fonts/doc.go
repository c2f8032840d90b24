// Package fonts maps script tags to installed font files and owns the
// process-wide fontconfig cache warm-up the rendering engine depends on
// for correct glyph selection.
package fonts
