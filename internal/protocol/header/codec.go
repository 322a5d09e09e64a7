package header

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/danmuck/wirehdr/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Write serialises h and writes the whole frame to w in a single call.
//
// A frame of the wrong size is reported as protocol.InvalidEncoding; any
// write failure, short writes included, as protocol.ConnectionError. The
// stream position is undefined after a failed write.
func Write(w io.Writer, h Header) error {
	buf := h.Encode()
	if len(buf) != FrameSize {
		return protocol.Errorf(protocol.InvalidEncoding, "header write", "encoded %d bytes, want %d", len(buf), FrameSize)
	}
	n, err := w.Write(buf)
	if err != nil {
		return protocol.Wrap(protocol.ConnectionError, "header write", err)
	}
	if n != len(buf) {
		return protocol.Wrap(protocol.ConnectionError, "header write", io.ErrShortWrite)
	}
	return nil
}

// Read decodes one header frame from r.
//
// Checks run in wire order and stop at the first failure: magic number
// (InvalidHeader), declared length (InvalidHeader), version
// (WireProtocolVersionNotSupported), then the fields (InvalidEncoding).
// The declared number of bytes is always consumed before the length is
// checked so the stream stays aligned on a peer that follows the frame
// shape. Read failures, truncation included, are ConnectionError.
func Read(r io.Reader) (Header, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return Header{}, protocol.Wrap(protocol.ConnectionError, "header read magic", err)
	}
	magic := binary.LittleEndian.Uint32(prefix[:])
	if magic != protocol.MagicNumber {
		log.Error().
			Str("expected", fmt.Sprintf("0x%08x", protocol.MagicNumber)).
			Str("got", fmt.Sprintf("0x%08x", magic)).
			Msg("header: magic number mismatch")
		return Header{}, protocol.Errorf(protocol.InvalidHeader, "header read", "magic number 0x%08x", magic)
	}

	if _, err := io.ReadFull(r, prefix[:2]); err != nil {
		return Header{}, protocol.Wrap(protocol.ConnectionError, "header read length", err)
	}
	size := binary.LittleEndian.Uint16(prefix[:2])
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, protocol.Wrap(protocol.ConnectionError, "header read content", err)
	}
	if size != ContentSize {
		log.Error().
			Uint16("expected", ContentSize).
			Uint16("got", size).
			Msg("header: header size mismatch")
		return Header{}, protocol.Errorf(protocol.InvalidHeader, "header read", "header size %d", size)
	}

	major, minor := buf[0], buf[1]
	if major != VersionMajor || minor != VersionMinor {
		log.Error().
			Str("expected", fmt.Sprintf("%d.%d", VersionMajor, VersionMinor)).
			Str("got", fmt.Sprintf("%d.%d", major, minor)).
			Msg("header: unsupported wire protocol version")
		return Header{}, protocol.Errorf(protocol.WireProtocolVersionNotSupported, "header read", "version %d.%d", major, minor)
	}

	h, err := decodeFields(buf[2:])
	if err != nil {
		return Header{}, protocol.Wrap(protocol.InvalidEncoding, "header read", err)
	}
	return h, nil
}
