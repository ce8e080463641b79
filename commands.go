// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

// SPI preambles. Every transfer starts with one of these words to select
// command, data write or data read framing.
const (
	preambleCommand uint16 = 0x6000
	preambleWrite   uint16 = 0x0000
	preambleRead    uint16 = 0x1000
)

// Commands
const (
	sysRun            uint16 = 0x0001
	standBy           uint16 = 0x0002
	sleepCmd          uint16 = 0x0003
	regRead           uint16 = 0x0010
	regWrite          uint16 = 0x0011
	memBurstReadTrig  uint16 = 0x0012
	memBurstReadStart uint16 = 0x0013
	memBurstWriteCmd  uint16 = 0x0014
	memBurstEndCmd    uint16 = 0x0015
	loadImage         uint16 = 0x0020
	loadImageArea     uint16 = 0x0021
	loadImageEnd      uint16 = 0x0022
	displayAreaCmd    uint16 = 0x0034
	displayBufArea    uint16 = 0x0037
	vcomCmd           uint16 = 0x0039
	getDevInfo        uint16 = 0x0302
)

// Registers
const (
	// System registers.
	i80CPCR uint16 = 0x0004 // packed write mode enable

	// Image load target address, low word at lisar, high word at lisar+2.
	lisar uint16 = 0x0208

	// Display engine registers.
	displayRegBase uint16 = 0x1000
	lutafsr        uint16 = displayRegBase + 0x224 // nonzero while LUT engine busy
	up1sr          uint16 = displayRegBase + 0x138 // update parameter 1
	bgvr           uint16 = displayRegBase + 0x250 // 1bpp background/foreground grays
)

// Mode selects the waveform used to refresh the panel. Refresh time and
// visual quality differ wildly between modes; see
// http://www.waveshare.net/w/upload/c/c4/E-paper-mode-declaration.pdf
type Mode uint16

const (
	// INIT performs a full clear and should be used to erase the panel.
	INIT Mode = 0
	// DU is a fast monochrome direct update.
	DU Mode = 1
	// GC16 is a full quality 16-level grayscale update.
	GC16 Mode = 2
	// GL16 is a 16-level grayscale update optimized for white backgrounds.
	GL16 Mode = 3
	// GLR16 and GLD16 are ghosting-reduction variants of GL16.
	GLR16 Mode = 4
	GLD16 Mode = 5
	// A2 is the fastest monochrome mode, with visible ghosting.
	A2 Mode = 6
	// DU4 is a fast 4-level grayscale update.
	DU4 Mode = 7
)

// monochrome reports whether the mode only drives pixels to full black or
// full white. Monochrome updates leave gray residue on the panel, which the
// driver accumulates so a later clean update can repaint the right region.
func (m Mode) monochrome() bool {
	return m == DU || m == A2
}

func (m Mode) String() string {
	switch m {
	case INIT:
		return "INIT"
	case DU:
		return "DU"
	case GC16:
		return "GC16"
	case GL16:
		return "GL16"
	case GLR16:
		return "GLR16"
	case GLD16:
		return "GLD16"
	case A2:
		return "A2"
	case DU4:
		return "DU4"
	default:
		return "Mode(?)"
	}
}

// PixelFormat is the packed wire format used when loading image data.
type PixelFormat uint16

const (
	PixelFormat2bpp PixelFormat = 0
	PixelFormat3bpp PixelFormat = 1
	PixelFormat4bpp PixelFormat = 2
	PixelFormat8bpp PixelFormat = 3
)

// samplesPerWord returns how many 8-bit samples pack into one 16-bit word.
func (f PixelFormat) samplesPerWord() int {
	switch f {
	case PixelFormat2bpp:
		return 8
	case PixelFormat3bpp, PixelFormat4bpp:
		return 4
	default:
		return 2
	}
}

func (f PixelFormat) String() string {
	switch f {
	case PixelFormat2bpp:
		return "2bpp"
	case PixelFormat3bpp:
		return "3bpp"
	case PixelFormat4bpp:
		return "4bpp"
	case PixelFormat8bpp:
		return "8bpp"
	default:
		return "PixelFormat(?)"
	}
}

// Endianness and rotation fields of the load image argument word. The
// driver always loads big-endian, unrotated.
const (
	loadEndianBig  uint16 = 1
	loadRotateNone uint16 = 0
)

// loadImageArg builds the argument word for loadImage / loadImageArea.
func loadImageArg(f PixelFormat) uint16 {
	return loadEndianBig<<8 | uint16(f)<<4 | loadRotateNone
}
