// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

import "periph.io/x/devices/v3/it8951/image8bit"

// writeFull plans a full-frame update and transmits it: wait for the
// display engine, stream the whole frame buffer, refresh with mode. The
// returned plan must be committed by the caller once the transport reported
// no error.
func writeFull(ctrl controller, st *frameState, buf *image8bit.Image, addr uint32, mode Mode) updatePlan {
	p := st.planFull(buf, mode)

	ctrl.waitDisplayReady()
	loadFullImage(ctrl, addr, PixelFormat8bpp, p.pix)
	displayArea(ctrl, p.box, mode)

	return p
}

// writePartial plans and transmits an update covering only the region that
// changed since the last update. Before the first full update it degrades
// to writeFull. No-op plans touch neither the bus nor the display.
func writePartial(ctrl controller, st *frameState, buf *image8bit.Image, addr uint32, mode Mode) updatePlan {
	if st.prev == nil {
		return writeFull(ctrl, st, buf, addr, mode)
	}

	p := st.planPartial(buf, mode)
	if !p.send {
		return p
	}

	ctrl.waitDisplayReady()
	loadImageRegion(ctrl, addr, PixelFormat8bpp, p.box, p.pix)
	displayArea(ctrl, p.box, mode)

	return p
}
