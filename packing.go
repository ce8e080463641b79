// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

// packPixels converts row-major 8-bit gray samples into packed 16-bit words
// in the controller's wire layout. Each format keeps only the top bits of
// every sample; earlier samples land in the lower bits of the word. len(pix)
// must be a multiple of the format's samples-per-word ratio.
//
// The 3bpp layout is not a typo: the controller consumes a 4-bit field with
// the sample's least significant surviving bit cleared. This matches the
// vendor reference code and the hardware.
func packPixels(pix []byte, f PixelFormat) []uint16 {
	n := f.samplesPerWord()
	words := make([]uint16, len(pix)/n)

	switch f {
	case PixelFormat8bpp:
		for w := range words {
			b := pix[w*2 : w*2+2]
			words[w] = uint16(b[1])<<8 | uint16(b[0])
		}
	case PixelFormat4bpp:
		for w := range words {
			b := pix[w*4 : w*4+4]
			var v uint16
			for i := 3; i >= 0; i-- {
				v = v<<4 | uint16(b[i]>>4)
			}
			words[w] = v
		}
	case PixelFormat3bpp:
		for w := range words {
			b := pix[w*4 : w*4+4]
			var v uint16
			for i := 3; i >= 0; i-- {
				v = v<<4 | uint16((b[i]&0xFE)>>4)
			}
			words[w] = v
		}
	case PixelFormat2bpp:
		for w := range words {
			b := pix[w*8 : w*8+8]
			var v uint16
			for i := 7; i >= 0; i-- {
				v = v<<2 | uint16(b[i]>>6)
			}
			words[w] = v
		}
	}
	return words
}
