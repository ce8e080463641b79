// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package it8951 controls e-paper panels driven by an ITE IT8951 timing
// controller, such as the Waveshare 6inch, 7.8inch, 9.7inch and 10.3inch
// e-Paper HATs.
//
// The driver keeps an 8-bit grayscale frame buffer in memory. Callers draw
// into the buffer and then call WriteFull or WritePartial; partial updates
// automatically compute the smallest aligned rectangle that changed since
// the last update and only transmit that region, to economize bus bandwidth
// and reduce flicker.
//
// The IT8951 talks over SPI with an additional HRDY (busy) input and RESET
// output. Commands, data and reads are distinguished by a 16-bit preamble
// word. All transfers are sequences of big-endian 16-bit words.
//
// # Datasheet
//
// https://www.waveshare.net/w/upload/c/c4/IT8951_D_V0.2.4.3_20170728.pdf
//
// Product page:
//
// https://www.waveshare.com/wiki/6inch_e-Paper_HAT
package it8951
