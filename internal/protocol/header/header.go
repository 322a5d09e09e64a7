// Package header implements the fixed wire header frame for version 1.0 of
// the protocol.
//
// Every request and response body is preceded by a 30-byte frame. All
// integers are little-endian and there is no padding:
//
//	offset 0   u32  magic number   (protocol.MagicNumber)
//	offset 4   u16  header length  (ContentSize, counts offsets 6..29)
//	offset 6   u8   version major  (VersionMajor)
//	offset 7   u8   version minor  (VersionMinor)
//	offset 8   u8   provider
//	offset 9   u64  session
//	offset 17  u8   content type
//	offset 18  u8   accept type
//	offset 19  u8   auth type
//	offset 20  u32  body length
//	offset 24  u16  auth length
//	offset 26  u16  opcode
//	offset 28  u16  status
package header

import (
	"encoding/binary"
	"fmt"

	"github.com/danmuck/wirehdr/internal/protocol"
)

const (
	// VersionMajor and VersionMinor are the only wire version accepted.
	VersionMajor uint8 = 1
	VersionMinor uint8 = 0

	// ContentSize is the declared header length: version bytes plus fields.
	ContentSize uint16 = 24
	// FrameSize is the full on-wire size including magic and length prefix.
	FrameSize = 4 + 2 + int(ContentSize)

	fieldsSize = int(ContentSize) - 2
)

// Header is the raw common request/response header. Enumerated fields are
// carried as plain integers; their meaning belongs to the layers above.
type Header struct {
	Provider    uint8
	Session     uint64
	ContentType uint8
	AcceptType  uint8
	AuthType    uint8
	BodyLen     uint32
	AuthLen     uint16
	Opcode      uint16
	Status      uint16
}

// Encode returns the full wire frame for h.
func (h Header) Encode() []byte {
	buf := make([]byte, FrameSize)
	binary.LittleEndian.PutUint32(buf[0:4], protocol.MagicNumber)
	binary.LittleEndian.PutUint16(buf[4:6], ContentSize)
	buf[6] = VersionMajor
	buf[7] = VersionMinor
	h.putFields(buf[8:])
	return buf
}

func (h Header) putFields(b []byte) {
	b[0] = h.Provider
	binary.LittleEndian.PutUint64(b[1:9], h.Session)
	b[9] = h.ContentType
	b[10] = h.AcceptType
	b[11] = h.AuthType
	binary.LittleEndian.PutUint32(b[12:16], h.BodyLen)
	binary.LittleEndian.PutUint16(b[16:18], h.AuthLen)
	binary.LittleEndian.PutUint16(b[18:20], h.Opcode)
	binary.LittleEndian.PutUint16(b[20:22], h.Status)
}

func decodeFields(b []byte) (Header, error) {
	if len(b) != fieldsSize {
		return Header{}, fmt.Errorf("header: fields length %d, want %d", len(b), fieldsSize)
	}
	return Header{
		Provider:    b[0],
		Session:     binary.LittleEndian.Uint64(b[1:9]),
		ContentType: b[9],
		AcceptType:  b[10],
		AuthType:    b[11],
		BodyLen:     binary.LittleEndian.Uint32(b[12:16]),
		AuthLen:     binary.LittleEndian.Uint16(b[16:18]),
		Opcode:      binary.LittleEndian.Uint16(b[18:20]),
		Status:      binary.LittleEndian.Uint16(b[20:22]),
	}, nil
}
