// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

import (
	"encoding/binary"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// busyPollInterval is how long to sleep between display ready polls.
const busyPollInterval = 10 * time.Millisecond

// errorHandler is a wrapper for error management. The first transport error
// sticks; every later operation becomes a no-op and reads return zero
// words. It implements controller on top of the device's SPI connection and
// HRDY pin.
type errorHandler struct {
	d   *Dev
	err error
}

// waitReady blocks until the HRDY line reports the controller can accept
// the next transfer.
func (eh *errorHandler) waitReady() {
	if eh.err != nil {
		return
	}
	deadline := time.Now().Add(eh.d.opts.UpdateTimeout)
	for eh.d.busy.Read() == gpio.Low {
		if time.Now().After(deadline) {
			eh.err = &BusyTimeoutError{Timeout: eh.d.opts.UpdateTimeout}
			return
		}
		time.Sleep(time.Millisecond)
	}
}

// write sends a preamble word followed by data words, big-endian.
func (eh *errorHandler) write(preamble uint16, words []uint16) {
	if eh.err != nil {
		return
	}
	eh.waitReady()
	if eh.err != nil {
		return
	}
	buf := make([]byte, 2+2*len(words))
	binary.BigEndian.PutUint16(buf, preamble)
	for i, w := range words {
		binary.BigEndian.PutUint16(buf[2+2*i:], w)
	}
	eh.err = eh.d.c.Tx(buf, nil)
}

// read sends a preamble word and reads back n data words. The controller
// clocks out one dummy word after the preamble before real data starts.
func (eh *errorHandler) read(preamble uint16, n int) []uint16 {
	words := make([]uint16, n)
	if eh.err != nil {
		return words
	}
	eh.waitReady()
	if eh.err != nil {
		return words
	}
	w := make([]byte, 2+2+2*n)
	binary.BigEndian.PutUint16(w, preamble)
	r := make([]byte, len(w))
	if eh.err = eh.d.c.Tx(w, r); eh.err != nil {
		return words
	}
	for i := range words {
		words[i] = binary.BigEndian.Uint16(r[4+2*i:])
	}
	return words
}

func (eh *errorHandler) sendCommand(cmd uint16, args ...uint16) {
	eh.write(preambleCommand, []uint16{cmd})
	for _, arg := range args {
		eh.write(preambleWrite, []uint16{arg})
	}
}

func (eh *errorHandler) sendData(data []uint16) {
	eh.write(preambleWrite, data)
}

func (eh *errorHandler) readData(n int) []uint16 {
	return eh.read(preambleRead, n)
}

// writePixels streams packed pixel words, split into chunks the SPI
// connection can handle.
func (eh *errorHandler) writePixels(data []uint16) {
	chunk := eh.d.maxTxWords
	for len(data) > 0 {
		n := len(data)
		if n > chunk {
			n = chunk
		}
		eh.write(preambleWrite, data[:n])
		data = data[n:]
	}
}

// waitDisplayReady polls the LUT engine status register until the previous
// refresh finished. Exceeding the configured timeout sets a
// BusyTimeoutError instead of blocking forever.
func (eh *errorHandler) waitDisplayReady() {
	if eh.err != nil {
		return
	}
	deadline := time.Now().Add(eh.d.opts.UpdateTimeout)
	for readRegister(eh, lutafsr) != 0 {
		if eh.err != nil {
			return
		}
		if time.Now().After(deadline) {
			eh.err = &BusyTimeoutError{Timeout: eh.d.opts.UpdateTimeout}
			return
		}
		time.Sleep(busyPollInterval)
	}
}

var _ controller = &errorHandler{}
