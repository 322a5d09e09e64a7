package protocol

// MagicNumber identifies the protocol family at the start of every frame.
// It does not change between wire protocol versions.
const MagicNumber uint32 = 0x5EC0A710
