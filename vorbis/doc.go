// Package vorbis decodes Vorbis I audio packets carried inside an Ogg
// container (see the sibling package github.com/vorbisgo/vorbis/ogg for the
// framing layer).
//
// A StreamDecoder consumes exactly three header packets (identification,
// comment, setup) via Init, then decodes subsequent audio packets one at a
// time, producing float32 PCM through a ring buffer. Output is per channel
// (one slice per channel); samples are not interleaved.
//
// The package implements only the codec core: codebook (Huffman + VQ),
// floor, residue, mapping and mode decode, the inverse MDCT, and
// overlap-add. It has no knowledge of how packets reach it — callers supply
// them (typically via ogg.PacketReader).
package vorbis
