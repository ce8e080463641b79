// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// record is one command transmission: the opcode, its argument words and
// any data or pixel words sent while it was current.
type record struct {
	cmd  uint16
	args []uint16
	data []uint16
	pix  []uint16
}

type fakeController struct {
	records []record
	// reads are returned by readData, one queue entry per call.
	reads [][]uint16
}

func (f *fakeController) sendCommand(cmd uint16, args ...uint16) {
	f.records = append(f.records, record{cmd: cmd, args: args})
}

func (f *fakeController) sendData(data []uint16) {
	cur := &f.records[len(f.records)-1]
	cur.data = append(cur.data, data...)
}

func (f *fakeController) writePixels(data []uint16) {
	cur := &f.records[len(f.records)-1]
	cur.pix = append(cur.pix, data...)
}

func (f *fakeController) readData(n int) []uint16 {
	if len(f.reads) == 0 {
		return make([]uint16, n)
	}
	r := f.reads[0]
	f.reads = f.reads[1:]
	return r
}

func (f *fakeController) waitDisplayReady() {}

func diffRecords(got, want []record) string {
	return cmp.Diff(got, want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{}))
}

// versionWords packs an ASCII string into 16-bit words, two characters per
// word, high byte first, NUL padded to n words.
func versionWords(s string, n int) []uint16 {
	b := make([]byte, 2*n)
	copy(b, s)
	w := make([]uint16, n)
	for i := range w {
		w[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return w
}

func TestReadDeviceInfo(t *testing.T) {
	var ctrl fakeController
	resp := []uint16{800, 600, 0x36E0, 0x0012}
	resp = append(resp, versionWords("SWv_0.1.", 8)...)
	resp = append(resp, versionWords("M841", 8)...)
	ctrl.reads = [][]uint16{resp}

	got := readDeviceInfo(&ctrl)

	want := DeviceInfo{
		Width:           800,
		Height:          600,
		BufferAddress:   0x001236E0,
		FirmwareVersion: "SWv_0.1.",
		LUTVersion:      "M841",
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("readDeviceInfo() difference (-got +want):\n%s", diff)
	}
	if diff := diffRecords(ctrl.records, []record{{cmd: getDevInfo}}); diff != "" {
		t.Errorf("records difference (-got +want):\n%s", diff)
	}
}

func TestSetVCOM(t *testing.T) {
	var ctrl fakeController

	if err := setVCOM(&ctrl, -1.5); err != nil {
		t.Fatalf("setVCOM(-1.5) failed: %v", err)
	}

	want := []record{{cmd: vcomCmd, args: []uint16{1, 1500}}}
	if diff := diffRecords(ctrl.records, want); diff != "" {
		t.Errorf("records difference (-got +want):\n%s", diff)
	}
}

func TestSetVCOMRange(t *testing.T) {
	for _, v := range []float64{0, -5, -7.2, 0.5, 3} {
		var ctrl fakeController

		err := setVCOM(&ctrl, v)

		if _, ok := err.(*VCOMRangeError); !ok {
			t.Errorf("setVCOM(%g) = %v, want VCOMRangeError", v, err)
		}
		if len(ctrl.records) != 0 {
			t.Errorf("setVCOM(%g) touched the bus: %v", v, ctrl.records)
		}
	}
}

func TestGetVCOM(t *testing.T) {
	ctrl := fakeController{reads: [][]uint16{{1500}}}

	if got, want := getVCOM(&ctrl), -1.5; got != want {
		t.Errorf("getVCOM() = %g, want %g", got, want)
	}
	if diff := diffRecords(ctrl.records, []record{{cmd: vcomCmd, args: []uint16{0}}}); diff != "" {
		t.Errorf("records difference (-got +want):\n%s", diff)
	}
}

func TestBurstTransfers(t *testing.T) {
	for _, tc := range []struct {
		name string
		run  func(ctrl controller)
		want []record
	}{
		{
			name: "read trigger splits address and count low first",
			run: func(ctrl controller) {
				burstReadTrigger(ctrl, 0x0012ABCD, 0x00010002)
			},
			want: []record{{cmd: memBurstReadTrig, args: []uint16{0xABCD, 0x0012, 0x0002, 0x0001}}},
		},
		{
			name: "read start",
			run:  burstReadStart,
			want: []record{{cmd: memBurstReadStart}},
		},
		{
			name: "write",
			run: func(ctrl controller) {
				burstWrite(ctrl, 0x00020001, 16)
			},
			want: []record{{cmd: memBurstWriteCmd, args: []uint16{0x0001, 0x0002, 16, 0}}},
		},
		{
			name: "end",
			run:  burstEnd,
			want: []record{{cmd: memBurstEndCmd}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var ctrl fakeController

			tc.run(&ctrl)

			if diff := diffRecords(ctrl.records, tc.want); diff != "" {
				t.Errorf("records difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestSetImageBufferBase(t *testing.T) {
	var ctrl fakeController

	setImageBufferBase(&ctrl, 0x001236E0)

	want := []record{
		{cmd: regWrite, args: []uint16{lisar + 2}, data: []uint16{0x0012}},
		{cmd: regWrite, args: []uint16{lisar}, data: []uint16{0x36E0}},
	}
	if diff := diffRecords(ctrl.records, want); diff != "" {
		t.Errorf("records difference (-got +want):\n%s", diff)
	}
}

func TestDisplayArea(t *testing.T) {
	var ctrl fakeController

	displayArea(&ctrl, image.Rect(16, 24, 48, 72), GC16)

	want := []record{{cmd: displayAreaCmd, args: []uint16{16, 24, 32, 48, uint16(GC16)}}}
	if diff := diffRecords(ctrl.records, want); diff != "" {
		t.Errorf("records difference (-got +want):\n%s", diff)
	}
}

func TestDisplayAreaBuffer(t *testing.T) {
	var ctrl fakeController

	displayAreaBuffer(&ctrl, image.Rect(0, 0, 8, 4), DU, 0x00A0B0C0)

	want := []record{{
		cmd:  displayBufArea,
		args: []uint16{0, 0, 8, 4, uint16(DU), 0xB0C0, 0x00A0},
	}}
	if diff := diffRecords(ctrl.records, want); diff != "" {
		t.Errorf("records difference (-got +want):\n%s", diff)
	}
}

func TestDisplayArea1bpp(t *testing.T) {
	ctrl := fakeController{reads: [][]uint16{{0x0010}, {0x0014}}}

	displayArea1bpp(&ctrl, image.Rect(0, 0, 16, 16), A2, 0xF0, 0x00)

	want := []record{
		{cmd: regRead, args: []uint16{up1sr + 2}},
		{cmd: regWrite, args: []uint16{up1sr + 2}, data: []uint16{0x0014}},
		{cmd: regWrite, args: []uint16{bgvr}, data: []uint16{0xF000}},
		{cmd: displayAreaCmd, args: []uint16{0, 0, 16, 16, uint16(A2)}},
		{cmd: regRead, args: []uint16{up1sr + 2}},
		{cmd: regWrite, args: []uint16{up1sr + 2}, data: []uint16{0x0010}},
	}
	if diff := diffRecords(ctrl.records, want); diff != "" {
		t.Errorf("records difference (-got +want):\n%s", diff)
	}
}

func TestLoadImageRegion(t *testing.T) {
	var ctrl fakeController

	pix := []byte{0x00, 0xFF, 0x10, 0xEF, 0x80, 0x80, 0x40, 0xC0}
	loadImageRegion(&ctrl, 0x001236E0, PixelFormat8bpp, image.Rect(4, 8, 8, 10), pix)

	want := []record{
		{cmd: regWrite, args: []uint16{lisar + 2}, data: []uint16{0x0012}},
		{cmd: regWrite, args: []uint16{lisar}, data: []uint16{0x36E0}},
		{
			cmd:  loadImageArea,
			args: []uint16{loadImageArg(PixelFormat8bpp), 4, 8, 4, 2},
			pix:  []uint16{0xFF00, 0xEF10, 0x8080, 0xC040},
		},
		{cmd: loadImageEnd},
	}
	if diff := diffRecords(ctrl.records, want); diff != "" {
		t.Errorf("records difference (-got +want):\n%s", diff)
	}
}

func TestLoadFullImage(t *testing.T) {
	var ctrl fakeController

	loadFullImage(&ctrl, 0x10, PixelFormat4bpp, []byte{0x00, 0xFF, 0x10, 0xEF})

	want := []record{
		{cmd: regWrite, args: []uint16{lisar + 2}, data: []uint16{0}},
		{cmd: regWrite, args: []uint16{lisar}, data: []uint16{0x10}},
		{
			cmd:  loadImage,
			args: []uint16{loadImageArg(PixelFormat4bpp)},
			pix:  []uint16{0xE1F0},
		},
		{cmd: loadImageEnd},
	}
	if diff := diffRecords(ctrl.records, want); diff != "" {
		t.Errorf("records difference (-got +want):\n%s", diff)
	}
}
