// Package protocol owns the wire contract shared by every layer.
//
// Ownership boundary:
// - protocol family magic number
// - status / error taxonomy
// - header codec (header) and raw framing (frame) subpackages
package protocol
