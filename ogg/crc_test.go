package ogg

import "testing"

func TestCRCSoundness(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	c1 := oggCRC(data)
	c2 := oggCRC(data)
	if c1 != c2 {
		t.Fatalf("crc not deterministic: %#08x vs %#08x", c1, c2)
	}

	corrupted := append([]byte(nil), data...)
	corrupted[3] ^= 0x01
	if oggCRC(corrupted) == c1 {
		t.Fatalf("single bit flip did not change crc")
	}
}

func TestCRCIncremental(t *testing.T) {
	data := []byte("0123456789abcdef")
	whole := oggCRC(data)

	var running uint32
	running = oggCRCUpdate(running, data[:8])
	running = oggCRCUpdate(running, data[8:])
	if running != whole {
		t.Fatalf("incremental crc %#08x != whole-buffer crc %#08x", running, whole)
	}
}
