// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

import (
	"image"

	"periph.io/x/devices/v3/it8951/image8bit"
)

// updateAlign is the rectangle alignment required by the display engine.
// Dirty boxes are rounded outward to multiples of this in both axes.
const updateAlign = 4

// binarizeThreshold splits samples into full black / full white for
// monochrome refresh modes.
const binarizeThreshold = 0x80

// frameState tracks what the panel currently shows. prev is the frame
// transmitted by the last successful update, nil before the first one. acc
// accumulates per-pixel gray change during monochrome updates, which leave
// residue the panel cannot express; a later clean update repaints the whole
// accumulated region. Both always share the frame buffer's dimensions.
type frameState struct {
	prev *image8bit.Image
	acc  *image8bit.Image
}

func newFrameState(r image.Rectangle) *frameState {
	return &frameState{acc: image8bit.New(r)}
}

// updatePlan is the outcome of diffing the frame buffer against the frame
// state: what to transmit and the state to commit once transmission
// succeeded. Keeping the commit separate makes updates all-or-nothing; a
// failed transmit leaves the state untouched so a retry recomputes the same
// diff.
type updatePlan struct {
	// send is false for no-op updates that must not touch the bus.
	send bool
	// box is the aligned panel region to transmit.
	box image.Rectangle
	// pix holds the row-major samples of box, already binarized for
	// monochrome modes.
	pix []byte

	prev *image8bit.Image
	acc  *image8bit.Image
}

// planFull prepares a full-frame update.
func (st *frameState) planFull(buf *image8bit.Image, mode Mode) updatePlan {
	p := updatePlan{
		send: true,
		box:  buf.Rect,
		pix:  buf.Pix,
		prev: buf.Clone(),
	}
	if mode.monochrome() {
		p.acc = st.acc.Clone()
		if st.prev != nil {
			p.acc.AddSaturating(image8bit.AbsDiff(st.prev, buf))
		}
	} else {
		p.acc = image8bit.New(buf.Rect)
	}
	return p
}

// planPartial prepares an update limited to the region that changed since
// the last update. send is false when nothing changed. The caller must
// handle the bootstrap case (st.prev == nil) with a full update.
func (st *frameState) planPartial(buf *image8bit.Image, mode Mode) updatePlan {
	diff := image8bit.AbsDiff(st.prev, buf)

	p := updatePlan{prev: buf.Clone()}

	if mode.monochrome() {
		// The accumulator keeps growing; the dirty box only covers this
		// frame's change.
		p.acc = st.acc.Clone()
		p.acc.AddSaturating(diff)
		p.box, p.send = diff.NonzeroBounds()
	} else {
		// A clean update has to repaint everything that drifted since the
		// last one, then the accumulator starts over.
		acc := st.acc.Clone()
		acc.AddSaturating(diff)
		p.box, p.send = acc.NonzeroBounds()
		p.acc = image8bit.New(buf.Rect)
	}

	if !p.send {
		return p
	}

	// Intersecting can shave the aligned box at the panel edge. Panels
	// driven by this controller have dimensions that are multiples of the
	// alignment, so on real hardware the box stays aligned.
	p.box = alignRect(p.box, updateAlign).Intersect(buf.Rect)
	region := buf.Region(p.box)
	if mode.monochrome() {
		region.Threshold(binarizeThreshold)
	}
	p.pix = region.Pix
	return p
}

// commit advances the frame state. Only call after every transmit step of
// the plan succeeded (or for plans that transmit nothing).
func (st *frameState) commit(p updatePlan) {
	st.prev = p.prev
	st.acc = p.acc
}

// alignRect rounds r outward so all edges are multiples of align. The
// result contains r. Coordinates must be non-negative.
func alignRect(r image.Rectangle, align int) image.Rectangle {
	r.Min.X = r.Min.X / align * align
	r.Min.Y = r.Min.Y / align * align
	r.Max.X = (r.Max.X + align - 1) / align * align
	r.Max.Y = (r.Max.Y + align - 1) / align * align
	return r
}
