// Package frame reads and writes whole raw messages: a header frame followed
// by the body bytes and then the authentication bytes it declares.
package frame

import (
	"io"
	"math"

	"github.com/danmuck/wirehdr/internal/observability"
	"github.com/danmuck/wirehdr/internal/protocol"
	"github.com/danmuck/wirehdr/internal/protocol/header"
	"github.com/rs/zerolog/log"
)

// Frame is one complete raw request or response. Body and Auth are opaque.
type Frame struct {
	Header header.Header
	Body   []byte
	Auth   []byte
}

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxBodyBytes uint32
	MaxAuthBytes uint16
}

func DefaultLimits() Limits {
	return Limits{
		MaxBodyBytes: 1 << 20,
		MaxAuthBytes: math.MaxUint16,
	}
}

func (l Limits) check(op string, h header.Header) error {
	if h.BodyLen > l.MaxBodyBytes {
		log.Error().
			Uint32("body_len", h.BodyLen).
			Uint32("limit", l.MaxBodyBytes).
			Msg("frame: body length exceeds limit")
		return protocol.Errorf(protocol.BodySizeExceedsLimit, op, "body_len %d > %d", h.BodyLen, l.MaxBodyBytes)
	}
	if h.AuthLen > l.MaxAuthBytes {
		log.Error().
			Uint16("auth_len", h.AuthLen).
			Uint16("limit", l.MaxAuthBytes).
			Msg("frame: auth length exceeds limit")
		return protocol.Errorf(protocol.AuthSizeExceedsLimit, op, "auth_len %d > %d", h.AuthLen, l.MaxAuthBytes)
	}
	return nil
}

// ReadFrame reads a header and the body and auth bytes it declares. Lengths
// are checked against limits before anything past the header is read.
func ReadFrame(r io.Reader, limits Limits) (Frame, error) {
	f, err := readFrame(r, limits)
	observability.RecordFrameDecode(protocol.StatusOf(err))
	return f, err
}

func readFrame(r io.Reader, limits Limits) (Frame, error) {
	h, err := header.Read(r)
	if err != nil {
		return Frame{}, err
	}
	if err := limits.check("frame read", h); err != nil {
		return Frame{}, err
	}

	body := make([]byte, h.BodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return Frame{}, protocol.Wrap(protocol.ConnectionError, "frame read body", err)
	}
	auth := make([]byte, h.AuthLen)
	if _, err := io.ReadFull(r, auth); err != nil {
		return Frame{}, protocol.Wrap(protocol.ConnectionError, "frame read auth", err)
	}

	return Frame{Header: h, Body: body, Auth: auth}, nil
}

// WriteFrame writes f. BodyLen and AuthLen are taken from the slices, not
// from f.Header.
func WriteFrame(w io.Writer, f Frame, limits Limits) error {
	err := writeFrame(w, f, limits)
	observability.RecordFrameEncode(protocol.StatusOf(err))
	return err
}

func writeFrame(w io.Writer, f Frame, limits Limits) error {
	if uint64(len(f.Body)) > math.MaxUint32 {
		return protocol.Errorf(protocol.BodySizeExceedsLimit, "frame write", "body %d bytes", len(f.Body))
	}
	if len(f.Auth) > math.MaxUint16 {
		return protocol.Errorf(protocol.AuthSizeExceedsLimit, "frame write", "auth %d bytes", len(f.Auth))
	}

	h := f.Header
	h.BodyLen = uint32(len(f.Body))
	h.AuthLen = uint16(len(f.Auth))
	if err := limits.check("frame write", h); err != nil {
		return err
	}

	if err := header.Write(w, h); err != nil {
		return err
	}
	if err := writeAll(w, f.Body); err != nil {
		return protocol.Wrap(protocol.ConnectionError, "frame write body", err)
	}
	if err := writeAll(w, f.Auth); err != nil {
		return protocol.Wrap(protocol.ConnectionError, "frame write auth", err)
	}
	return nil
}

func writeAll(w io.Writer, b []byte) error {
	if len(b) == 0 {
		return nil
	}
	n, err := w.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return io.ErrShortWrite
	}
	return nil
}

// NewResponse returns the header for a response to req. Routing fields are
// echoed, the response carries no auth and its content type follows the
// requested accept type.
func NewResponse(req header.Header, status protocol.Status) header.Header {
	return header.Header{
		Provider:    req.Provider,
		Session:     req.Session,
		ContentType: req.AcceptType,
		AcceptType:  req.AcceptType,
		Opcode:      req.Opcode,
		Status:      uint16(status),
	}
}
