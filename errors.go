// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

import (
	"fmt"
	"image"
	"time"
)

// VCOMRangeError is returned when a VCOM voltage outside the valid open
// interval (-5V, 0V) is requested. It is raised before any bus I/O.
type VCOMRangeError struct {
	VCOM float64
}

func (e *VCOMRangeError) Error() string {
	return fmt.Sprintf("it8951: vcom %gV out of range, must be between -5 and 0 exclusive", e.VCOM)
}

// BusyTimeoutError is returned when the display engine did not become idle
// within the configured timeout. The controller is likely wedged and needs
// a reset.
type BusyTimeoutError struct {
	Timeout time.Duration
}

func (e *BusyTimeoutError) Error() string {
	return fmt.Sprintf("it8951: display busy for more than %s", e.Timeout)
}

// RectBoundsError is returned when an update rectangle does not lie within
// the panel. The wire protocol would silently accept such coordinates and
// corrupt the displayed image.
type RectBoundsError struct {
	Rect   image.Rectangle
	Bounds image.Rectangle
}

func (e *RectBoundsError) Error() string {
	return fmt.Sprintf("it8951: rectangle %v outside panel bounds %v", e.Rect, e.Bounds)
}
