// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

import (
	"image"
	"math"
	"strings"
)

// controller abstracts the word-oriented command channel to the IT8951.
// Errors stick to the implementation (see errorHandler); reads return zero
// words once an error occurred.
type controller interface {
	sendCommand(cmd uint16, args ...uint16)
	sendData(data []uint16)
	readData(n int) []uint16
	writePixels(data []uint16)
	waitDisplayReady()
}

// DeviceInfo describes the attached panel as reported by the controller
// firmware. It is filled once during Init and never changes afterwards.
type DeviceInfo struct {
	// Width and Height are the panel dimensions in pixels.
	Width  int
	Height int
	// BufferAddress is the target memory address for image loads.
	BufferAddress uint32
	// FirmwareVersion and LUTVersion identify the controller firmware and
	// the waveform tables it was built with.
	FirmwareVersion string
	LUTVersion      string
}

// split32 splits a 32-bit value into the two 16-bit words the wire protocol
// expects, low half first.
func split32(v uint32) (lo, hi uint16) {
	return uint16(v & 0xFFFF), uint16(v >> 16)
}

func readRegister(ctrl controller, addr uint16) uint16 {
	ctrl.sendCommand(regRead, addr)
	return ctrl.readData(1)[0]
}

func writeRegister(ctrl controller, addr, val uint16) {
	ctrl.sendCommand(regWrite, addr)
	ctrl.sendData([]uint16{val})
}

// enablePackedWrites switches the host interface to packed write mode so
// pixel data streams as contiguous words.
func enablePackedWrites(ctrl controller) {
	writeRegister(ctrl, i80CPCR, 0x0001)
}

// setImageBufferBase points the image load engine at the frame buffer in
// controller memory. High half goes to lisar+2, low half to lisar.
func setImageBufferBase(ctrl controller, addr uint32) {
	lo, hi := split32(addr)
	writeRegister(ctrl, lisar+2, hi)
	writeRegister(ctrl, lisar, lo)
}

func burstReadTrigger(ctrl controller, addr, count uint32) {
	alo, ahi := split32(addr)
	clo, chi := split32(count)
	ctrl.sendCommand(memBurstReadTrig, alo, ahi, clo, chi)
}

func burstReadStart(ctrl controller) {
	ctrl.sendCommand(memBurstReadStart)
}

func burstWrite(ctrl controller, addr, count uint32) {
	alo, ahi := split32(addr)
	clo, chi := split32(count)
	ctrl.sendCommand(memBurstWriteCmd, alo, ahi, clo, chi)
}

func burstEnd(ctrl controller) {
	ctrl.sendCommand(memBurstEndCmd)
}

func systemRun(ctrl controller) {
	ctrl.sendCommand(sysRun)
}

func systemStandby(ctrl controller) {
	ctrl.sendCommand(standBy)
}

func systemSleep(ctrl controller) {
	ctrl.sendCommand(sleepCmd)
}

// readDeviceInfo queries the controller for the panel description. The
// response is exactly 20 words: width, height, the split buffer address and
// two 8-word version strings with two ASCII characters per word, high byte
// first.
func readDeviceInfo(ctrl controller) DeviceInfo {
	ctrl.sendCommand(getDevInfo)
	data := ctrl.readData(20)
	return DeviceInfo{
		Width:           int(data[0]),
		Height:          int(data[1]),
		BufferAddress:   uint32(data[3])<<16 | uint32(data[2]),
		FirmwareVersion: decodeVersion(data[4:12]),
		LUTVersion:      decodeVersion(data[12:20]),
	}
}

func decodeVersion(words []uint16) string {
	b := make([]byte, 0, 2*len(words))
	for _, w := range words {
		b = append(b, byte(w>>8), byte(w))
	}
	return strings.TrimRight(string(b), "\x00")
}

// setVCOM programs the panel bias voltage. v must be inside the open
// interval (-5, 0); the check happens before anything is sent.
func setVCOM(ctrl controller, v float64) error {
	if !(-5 < v && v < 0) {
		return &VCOMRangeError{VCOM: v}
	}
	mv := uint16(math.Round(-1000 * v))
	ctrl.sendCommand(vcomCmd, 1, mv)
	return nil
}

// getVCOM reads back the programmed bias voltage in volts.
func getVCOM(ctrl controller) float64 {
	ctrl.sendCommand(vcomCmd, 0)
	return -float64(ctrl.readData(1)[0]) / 1000
}

// startImageLoad begins a full-frame pixel load.
func startImageLoad(ctrl controller, f PixelFormat) {
	ctrl.sendCommand(loadImage, loadImageArg(f))
}

// startImageAreaLoad begins a pixel load scoped to r.
func startImageAreaLoad(ctrl controller, f PixelFormat, r image.Rectangle) {
	ctrl.sendCommand(loadImageArea, loadImageArg(f),
		uint16(r.Min.X), uint16(r.Min.Y), uint16(r.Dx()), uint16(r.Dy()))
}

func endImageLoad(ctrl controller) {
	ctrl.sendCommand(loadImageEnd)
}

// loadFullImage streams a full frame of samples into controller memory.
func loadFullImage(ctrl controller, addr uint32, f PixelFormat, pix []byte) {
	setImageBufferBase(ctrl, addr)
	startImageLoad(ctrl, f)
	ctrl.writePixels(packPixels(pix, f))
	endImageLoad(ctrl)
}

// loadImageRegion streams the samples of region r into controller memory.
// pix must hold exactly r.Dx()*r.Dy() samples in row-major order.
func loadImageRegion(ctrl controller, addr uint32, f PixelFormat, r image.Rectangle, pix []byte) {
	setImageBufferBase(ctrl, addr)
	startImageAreaLoad(ctrl, f, r)
	ctrl.writePixels(packPixels(pix, f))
	endImageLoad(ctrl)
}

// displayArea refreshes the given panel region with the given mode.
func displayArea(ctrl controller, r image.Rectangle, mode Mode) {
	ctrl.sendCommand(displayAreaCmd,
		uint16(r.Min.X), uint16(r.Min.Y), uint16(r.Dx()), uint16(r.Dy()), uint16(mode))
}

// displayAreaBuffer is displayArea with an explicit source buffer address
// instead of the default frame buffer.
func displayAreaBuffer(ctrl controller, r image.Rectangle, mode Mode, addr uint32) {
	lo, hi := split32(addr)
	ctrl.sendCommand(displayBufArea,
		uint16(r.Min.X), uint16(r.Min.Y), uint16(r.Dx()), uint16(r.Dy()), uint16(mode),
		lo, hi)
}

// displayArea1bpp refreshes a region in 1 bit per pixel mode, mapping bits
// to the given background and foreground gray levels. The 1bpp flag in
// UP1SR is restored afterwards.
func displayArea1bpp(ctrl controller, r image.Rectangle, mode Mode, background, foreground byte) {
	old := readRegister(ctrl, up1sr+2)
	writeRegister(ctrl, up1sr+2, old|1<<2)

	writeRegister(ctrl, bgvr, uint16(background)<<8|uint16(foreground))

	displayArea(ctrl, r, mode)
	ctrl.waitDisplayReady()

	old = readRegister(ctrl, up1sr+2)
	writeRegister(ctrl, up1sr+2, old&^(1<<2))
}
