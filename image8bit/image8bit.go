// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package image8bit implements an 8-bit grayscale image with one byte per
// pixel, plus the region operations an e-paper update engine needs: crop,
// paste, thresholding, pixel-wise difference and bounding box of nonzero
// pixels.
//
// It is essentially image.Gray with a smaller, driver-oriented surface. The
// type implements draw.Image so standard library drawing primitives work on
// it directly.
package image8bit

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is an 8-bit grayscale image backed by one byte per pixel.
type Image struct {
	// Pix holds the pixels, in row-major order.
	Pix []byte
	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

// New returns an initialized (all black) Image of the given bounds.
func New(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &Image{Rect: r}
	}
	return &Image{
		Pix:    make([]byte, w*h),
		Stride: w,
		Rect:   r,
	}
}

// ColorModel implements image.Image.
func (p *Image) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements image.Image.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// At implements image.Image.
func (p *Image) At(x, y int) color.Color {
	return p.GrayAt(x, y)
}

// GrayAt returns the gray value at (x, y), or black outside the bounds.
func (p *Image) GrayAt(x, y int) color.Gray {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return color.Gray{}
	}
	return color.Gray{Y: p.Pix[p.PixOffset(x, y)]}
}

// Set implements draw.Image.
func (p *Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = color.GrayModel.Convert(c).(color.Gray).Y
}

// SetGray sets the gray value at (x, y), ignoring writes outside the bounds.
func (p *Image) SetGray(x, y int, c color.Gray) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = c.Y
}

// PixOffset returns the index of the pixel at (x, y) in Pix.
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}

// Fill sets every pixel to v.
func (p *Image) Fill(v byte) {
	for i := range p.Pix {
		p.Pix[i] = v
	}
}

// Clone returns a deep copy.
func (p *Image) Clone() *Image {
	q := New(p.Rect)
	copy(q.Pix, p.Pix)
	return q
}

// Region returns a copy of the pixels inside r, which must lie within the
// image bounds. The result has r as its bounds.
func (p *Image) Region(r image.Rectangle) *Image {
	q := New(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := p.PixOffset(r.Min.X, y)
		dst := q.PixOffset(r.Min.X, y)
		copy(q.Pix[dst:dst+r.Dx()], p.Pix[src:src+r.Dx()])
	}
	return q
}

// Paste copies src into p with src's Min aligned at pt. Pixels falling
// outside p are dropped.
func (p *Image) Paste(src *Image, pt image.Point) {
	r := image.Rectangle{Min: pt, Max: pt.Add(src.Rect.Size())}
	draw.Draw(p, r, src, src.Rect.Min, draw.Src)
}

// Threshold maps every pixel to 0xFF if it is at or above t, else to 0x00.
func (p *Image) Threshold(t byte) {
	for i, v := range p.Pix {
		if v >= t {
			p.Pix[i] = 0xFF
		} else {
			p.Pix[i] = 0x00
		}
	}
}

// AddSaturating adds d to p pixel-wise, capping each pixel at 255. The two
// images must have identical bounds.
func (p *Image) AddSaturating(d *Image) {
	for i, v := range d.Pix {
		s := int(p.Pix[i]) + int(v)
		if s > 255 {
			s = 255
		}
		p.Pix[i] = byte(s)
	}
}

// NonzeroBounds returns the bounding box of all nonzero pixels. ok is false
// if every pixel is zero.
func (p *Image) NonzeroBounds() (box image.Rectangle, ok bool) {
	minX, minY := p.Rect.Max.X, p.Rect.Max.Y
	maxX, maxY := p.Rect.Min.X, p.Rect.Min.Y
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		row := p.Pix[(y-p.Rect.Min.Y)*p.Stride : (y-p.Rect.Min.Y)*p.Stride+p.Rect.Dx()]
		for i, v := range row {
			if v == 0 {
				continue
			}
			x := p.Rect.Min.X + i
			if x < minX {
				minX = x
			}
			if x >= maxX {
				maxX = x + 1
			}
			if y < minY {
				minY = y
			}
			maxY = y + 1
		}
	}
	if minX >= maxX || minY >= maxY {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX, maxY), true
}

// AbsDiff returns |a - b| pixel-wise. The two images must have identical
// bounds.
func AbsDiff(a, b *Image) *Image {
	d := New(a.Rect)
	for i := range a.Pix {
		va, vb := int(a.Pix[i]), int(b.Pix[i])
		if va >= vb {
			d.Pix[i] = byte(va - vb)
		} else {
			d.Pix[i] = byte(vb - va)
		}
	}
	return d
}

var _ draw.Image = &Image{}
