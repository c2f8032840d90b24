// Package ffprobe inspects media containers with the ffprobe binary.
package ffprobe
