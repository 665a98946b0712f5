package png

// crcTable is the nibble-wise lookup table for the IEEE polynomial
// 0xedb88320. Entry i is the CRC of the 4-bit value i.
var crcTable = [16]uint32{
	0x00000000, 0x1db71064, 0x3b6e20c8, 0x26d930ac,
	0x76dc4190, 0x6b6b51f4, 0x4db26158, 0x5005713c,
	0xedb88320, 0xf00f9344, 0xd6d6a3e8, 0xcb61b38c,
	0x9b64c2b0, 0x86d3d2d4, 0xa00ae278, 0xbdbdf21c,
}

// adlerMod is the largest prime smaller than 65536.
const adlerMod = 65521

func updateCRC(c uint32, u byte) uint32 {
	c ^= uint32(u)
	c = (c >> 4) ^ crcTable[c&15]
	c = (c >> 4) ^ crcTable[c&15]
	return c
}

type adler struct {
	a, b uint32
}

func newAdler() adler {
	return adler{a: 1}
}

func (s *adler) update(u byte) {
	s.a = (s.a + uint32(u)) % adlerMod
	s.b = (s.b + s.a) % adlerMod
}

func (s adler) sum() uint32 {
	return s.b<<16 | s.a
}
