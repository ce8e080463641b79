// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

import (
	"image"
	"image/color"
	"testing"

	"periph.io/x/devices/v3/it8951/image8bit"
)

const testBufAddr = 0x001236E0

func commands(records []record) []uint16 {
	cmds := make([]uint16, 0, len(records))
	for _, r := range records {
		cmds = append(cmds, r.cmd)
	}
	return cmds
}

// TestWritePartialBootstrap checks that the very first partial update
// transmits the entire frame, exactly like a full update would.
func TestWritePartialBootstrap(t *testing.T) {
	var ctrl fakeController
	buf := image8bit.New(image.Rect(0, 0, 16, 8))
	buf.Fill(0xFF)
	st := newFrameState(buf.Rect)

	p := writePartial(&ctrl, st, buf, testBufAddr, GC16)
	st.commit(p)

	want := []record{
		{cmd: regWrite, args: []uint16{lisar + 2}, data: []uint16{0x0012}},
		{cmd: regWrite, args: []uint16{lisar}, data: []uint16{0x36E0}},
		{
			cmd:  loadImage,
			args: []uint16{loadImageArg(PixelFormat8bpp)},
			pix:  packPixels(buf.Pix, PixelFormat8bpp),
		},
		{cmd: loadImageEnd},
		{cmd: displayAreaCmd, args: []uint16{0, 0, 16, 8, uint16(GC16)}},
	}
	if diff := diffRecords(ctrl.records, want); diff != "" {
		t.Errorf("records difference (-got +want):\n%s", diff)
	}
}

// TestWritePartialIdempotent checks that a partial update with an unchanged
// frame transmits nothing.
func TestWritePartialIdempotent(t *testing.T) {
	var ctrl fakeController
	buf := image8bit.New(image.Rect(0, 0, 16, 8))
	buf.Fill(0xFF)
	st := newFrameState(buf.Rect)

	st.commit(writePartial(&ctrl, st, buf, testBufAddr, GC16))
	n := len(ctrl.records)

	st.commit(writePartial(&ctrl, st, buf, testBufAddr, GC16))

	if extra := ctrl.records[n:]; len(extra) != 0 {
		t.Errorf("second unchanged update transmitted %v", commands(extra))
	}
}

func TestWritePartialRegion(t *testing.T) {
	var ctrl fakeController
	buf := image8bit.New(image.Rect(0, 0, 32, 16))
	st := newFrameState(buf.Rect)
	st.commit(writeFull(&ctrl, st, buf, testBufAddr, INIT))
	ctrl.records = nil

	// A dim and a bright pixel; DU must binarize them.
	buf.SetGray(10, 6, color.Gray{Y: 0x20})
	buf.SetGray(11, 6, color.Gray{Y: 0xD0})
	st.commit(writePartial(&ctrl, st, buf, testBufAddr, DU))

	region := make([]byte, 4*4)
	region[2*4+2] = 0x00 // (10,6) in box (8,4)-(12,8)
	region[2*4+3] = 0xFF // (11,6)
	want := []record{
		{cmd: regWrite, args: []uint16{lisar + 2}, data: []uint16{0x0012}},
		{cmd: regWrite, args: []uint16{lisar}, data: []uint16{0x36E0}},
		{
			cmd:  loadImageArea,
			args: []uint16{loadImageArg(PixelFormat8bpp), 8, 4, 4, 4},
			pix:  packPixels(region, PixelFormat8bpp),
		},
		{cmd: loadImageEnd},
		{cmd: displayAreaCmd, args: []uint16{8, 4, 4, 4, uint16(DU)}},
	}
	if diff := diffRecords(ctrl.records, want); diff != "" {
		t.Errorf("records difference (-got +want):\n%s", diff)
	}
}

// TestClearThenPartialDU mirrors panel startup: after a clear, a DU partial
// with the untouched frame must be a complete no-op.
func TestClearThenPartialDU(t *testing.T) {
	var ctrl fakeController
	buf := image8bit.New(image.Rect(0, 0, 32, 16))
	st := newFrameState(buf.Rect)

	buf.Fill(0xFF)
	st.commit(writeFull(&ctrl, st, buf, testBufAddr, INIT))
	n := len(ctrl.records)

	st.commit(writePartial(&ctrl, st, buf, testBufAddr, DU))

	if extra := ctrl.records[n:]; len(extra) != 0 {
		t.Errorf("partial DU after clear transmitted %v", commands(extra))
	}
}

// TestFailedUpdateDoesNotAdvance checks the all-or-nothing contract: when
// the transport fails mid-update the frame state must stay put so a retry
// recomputes the same diff.
func TestFailedUpdateDoesNotAdvance(t *testing.T) {
	var ctrl fakeController
	buf := image8bit.New(image.Rect(0, 0, 16, 8))
	st := newFrameState(buf.Rect)
	st.commit(writeFull(&ctrl, st, buf, testBufAddr, INIT))

	buf.SetGray(2, 2, color.Gray{Y: 0xFF})

	// Simulate a transport error: plan and transmit, but never commit.
	before := st.prev.Clone()
	_ = writePartial(&ctrl, st, buf, testBufAddr, GC16)

	if got, want := st.prev.GrayAt(2, 2).Y, before.GrayAt(2, 2).Y; got != want {
		t.Fatalf("previous frame advanced without commit: %#x, want %#x", got, want)
	}

	// The retry transmits the same region again.
	ctrl.records = nil
	p := writePartial(&ctrl, st, buf, testBufAddr, GC16)
	if !p.send {
		t.Fatal("retry produced a no-op, want a transmit")
	}
	if want := image.Rect(0, 0, 4, 4); p.box != want {
		t.Errorf("retry box = %v, want %v", p.box, want)
	}
}
