// Package proto defines the messages exchanged with a blueacro module and
// their wire form.
//
// A message is serialized into a compact layout: enum discriminants as
// LEB128 varints, u8 fields as single raw bytes in declaration order. The
// payload is then COBS-stuffed and terminated by 0x00 so a reader can take
// one frame from the link without knowing its length up front. Frames are
// bounded by MaxFrameSize.
//
//	QueryTime                    -> 00
//	SetTime{13, 5, 0}            -> 01 0d 05 00
//	framed SetTime{13, 5, 0}     -> 04 01 0d 05 01 00
package proto
