// Package render builds and supervises the external rendering subprocess
// that burns a subtitle track into a video, and classifies its failures.
package render
