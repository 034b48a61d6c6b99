package comm

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketWriterFunc is the func form of PacketWriter.
type PacketWriterFunc func([]byte) error

// WritePacket implements PacketWriter.
func (f PacketWriterFunc) WritePacket(pkt []byte) error {
	return f(pkt)
}
