// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"

	"periph.io/x/devices/v3/it8951/image8bit"
)

// Opts holds the display configuration.
type Opts struct {
	// VCOM is the panel bias voltage in volts, printed on the panel's flex
	// cable. Must be in the open interval (-5, 0).
	VCOM float64

	// UpdateTimeout bounds how long a single update may wait for the
	// display engine before giving up with a BusyTimeoutError. Zero selects
	// a 30 second default.
	UpdateTimeout time.Duration
}

// DefaultOpts works for most panels but uses a generic VCOM; for best
// contrast pass the voltage printed on the panel cable.
var DefaultOpts = Opts{
	VCOM: -1.5,
}

const defaultUpdateTimeout = 30 * time.Second

// Dev is a handle to an IT8951 driven e-paper panel.
//
// Dev is not safe for concurrent use; callers sharing it across goroutines
// must serialize buffer mutation and update calls themselves.
type Dev struct {
	c    conn.Conn
	rst  gpio.PinOut
	busy gpio.PinIO

	opts Opts
	info DeviceInfo

	// maxTxWords is how many 16-bit words fit in one SPI transfer after the
	// preamble.
	maxTxWords int

	buf   *image8bit.Image
	state *frameState
}

// New opens a handle to the controller. rst is the RESET output, busy the
// HRDY input. Call Init before any other method.
func New(p spi.Port, rst gpio.PinOut, busy gpio.PinIO, opts *Opts) (*Dev, error) {
	c, err := p.Connect(12*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("it8951: failed to connect over spi: %v", err)
	}

	if opts == nil {
		o := DefaultOpts
		opts = &o
	}
	o := *opts
	if o.UpdateTimeout == 0 {
		o.UpdateTimeout = defaultUpdateTimeout
	}

	// Respect the SPI driver's transfer size limit when streaming pixels.
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize == 0 {
		maxTxSize = 4096 // Conservative default.
	}
	// At least one data word must fit after the preamble, or pixel streaming
	// cannot make progress.
	maxTxWords := (maxTxSize - 2) / 2
	if maxTxWords < 1 {
		maxTxWords = 1
	}

	return &Dev{
		c:          c,
		rst:        rst,
		busy:       busy,
		opts:       o,
		maxTxWords: maxTxWords,
	}, nil
}

// NewHat opens a handle using the default pin assignment of the Waveshare
// IT8951 e-Paper HAT on a Raspberry Pi.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	return New(p, rpi.P1_11, rpi.P1_18, opts)
}

// Init resets the controller, reads the panel description and programs the
// configured VCOM voltage. It must be called once before updates.
func (d *Dev) Init() error {
	if err := d.reset(); err != nil {
		return err
	}

	eh := &errorHandler{d: d}
	systemRun(eh)
	info := readDeviceInfo(eh)
	if eh.err != nil {
		return eh.err
	}
	if info.Width <= 0 || info.Height <= 0 {
		return fmt.Errorf("it8951: implausible panel size %dx%d, check wiring", info.Width, info.Height)
	}
	d.info = info

	enablePackedWrites(eh)
	if err := setVCOM(eh, d.opts.VCOM); err != nil {
		return err
	}
	if eh.err != nil {
		return eh.err
	}

	bounds := image.Rect(0, 0, info.Width, info.Height)
	d.buf = image8bit.New(bounds)
	d.buf.Fill(0xFF)
	d.state = newFrameState(bounds)
	return nil
}

// reset pulses the RESET line.
func (d *Dev) reset() error {
	if err := d.rst.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(100 * time.Millisecond)
	if err := d.rst.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(100 * time.Millisecond)
	return nil
}

// DeviceInfo returns the panel description read during Init.
func (d *Dev) DeviceInfo() DeviceInfo {
	return d.info
}

// Buffer returns the frame buffer. Draw into it, then call WriteFull or
// WritePartial to refresh the panel.
func (d *Dev) Buffer() *image8bit.Image {
	return d.buf
}

// WriteFull transmits the entire frame buffer and refreshes the whole panel
// with the given mode.
func (d *Dev) WriteFull(mode Mode) error {
	eh := &errorHandler{d: d}
	p := writeFull(eh, d.state, d.buf, d.info.BufferAddress, mode)
	if eh.err != nil {
		return eh.err
	}
	d.state.commit(p)
	return nil
}

// WritePartial transmits only the smallest aligned rectangle that changed
// since the last update and refreshes it with the given mode. If nothing
// changed, nothing is sent. The first update after Init falls back to
// WriteFull.
//
// Monochrome modes (DU, A2) leave gray residue; the driver accumulates the
// affected pixels and repaints them on the next non-monochrome update.
func (d *Dev) WritePartial(mode Mode) error {
	eh := &errorHandler{d: d}
	p := writePartial(eh, d.state, d.buf, d.info.BufferAddress, mode)
	if eh.err != nil {
		return eh.err
	}
	d.state.commit(p)
	return nil
}

// Clear fills the frame buffer with white and erases the panel.
func (d *Dev) Clear() error {
	d.buf.Fill(0xFF)
	return d.WriteFull(INIT)
}

// Display1bpp refreshes region r from controller memory in 1 bit per pixel
// mode, mapping cleared bits to background and set bits to foreground gray
// levels.
func (d *Dev) Display1bpp(r image.Rectangle, mode Mode, background, foreground byte) error {
	if err := d.validateRect(r); err != nil {
		return err
	}
	eh := &errorHandler{d: d}
	displayArea1bpp(eh, r, mode, background, foreground)
	return eh.err
}

// VCOM reads back the programmed bias voltage in volts.
func (d *Dev) VCOM() (float64, error) {
	eh := &errorHandler{d: d}
	v := getVCOM(eh)
	return v, eh.err
}

// SetVCOM programs a new bias voltage. v must be in the open interval
// (-5, 0).
func (d *Dev) SetVCOM(v float64) error {
	eh := &errorHandler{d: d}
	if err := setVCOM(eh, v); err != nil {
		return err
	}
	return eh.err
}

// ReadMemory reads n words from controller memory starting at addr using a
// burst transfer.
func (d *Dev) ReadMemory(addr uint32, n int) ([]uint16, error) {
	eh := &errorHandler{d: d}
	burstReadTrigger(eh, addr, uint32(n))
	burstReadStart(eh)
	words := eh.readData(n)
	burstEnd(eh)
	if eh.err != nil {
		return nil, eh.err
	}
	return words, nil
}

// WriteMemory writes words to controller memory starting at addr using a
// burst transfer.
func (d *Dev) WriteMemory(addr uint32, words []uint16) error {
	eh := &errorHandler{d: d}
	burstWrite(eh, addr, uint32(len(words)))
	eh.sendData(words)
	burstEnd(eh)
	return eh.err
}

// Run wakes the controller from standby or sleep.
func (d *Dev) Run() error {
	eh := &errorHandler{d: d}
	systemRun(eh)
	return eh.err
}

// Standby puts the controller in its light power saving state.
func (d *Dev) Standby() error {
	eh := &errorHandler{d: d}
	systemStandby(eh)
	return eh.err
}

// Sleep puts the controller in deep sleep. Wake it with Run.
func (d *Dev) Sleep() error {
	eh := &errorHandler{d: d}
	systemSleep(eh)
	return eh.err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.buf.Rect
}

// Draw implements display.Drawer. The image is pasted into the frame buffer
// and displayed with a partial grayscale update, so unchanged regions cost
// nothing.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if err := d.validateRect(r); err != nil {
		return err
	}
	draw.Src.Draw(d.buf, r, src, sp)
	return d.WritePartial(GC16)
}

// Halt erases the panel and puts the controller to sleep.
func (d *Dev) Halt() error {
	if err := d.Clear(); err != nil {
		return err
	}
	return d.Sleep()
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return fmt.Sprintf("it8951.Dev{%s, %s, %dx%d}", d.c, d.rst, d.info.Width, d.info.Height)
}

func (d *Dev) validateRect(r image.Rectangle) error {
	if !r.In(d.buf.Rect) {
		return &RectBoundsError{Rect: r, Bounds: d.buf.Rect}
	}
	return nil
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
