package vorbis

// Stats reports the decoder-side counters a caller may want to surface
// (e.g. for diagnostics or a health endpoint). ContainerBits and WasteBits
// come from the framing layer (ogg.PacketReader.ContainerBits,
// ogg.PageReader.WasteBits) — this package only fills in ClipCount, since
// it has no visibility into container framing; callers combine both into
// one Stats value.
type Stats struct {
	ContainerBits uint64
	WasteBits     uint64
	ClipCount     uint64
}
