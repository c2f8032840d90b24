// Package subtitle parses SRT tracks and rewrites them into the normalized
// UTF-8 form the rendering engine consumes. It also owns the escaping rules
// for values spliced into the engine's filter-graph syntax.
package subtitle
