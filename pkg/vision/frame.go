// Package vision implements the frame-graph engine: an ordered pipeline
// of image-processing stages with a start/stop session lifecycle. Hosts
// drive it frame by frame through the flat boundary; the engine's
// internal execution order and buffering are its own business.
package vision

import (
	"fmt"
)

// Format identifies the pixel layout of a frame. The numeric values are
// part of the host contract and must not be reordered.
type Format int32

const (
	FormatUnknown Format = iota
	FormatGray8          // 1 byte per pixel, luminance
	FormatRGB24          // 3 bytes per pixel, R G B
	FormatBGR24          // 3 bytes per pixel, B G R
	FormatRGBA32         // 4 bytes per pixel, R G B A
)

func (f Format) String() string {
	switch f {
	case FormatGray8:
		return "gray8"
	case FormatRGB24:
		return "rgb24"
	case FormatBGR24:
		return "bgr24"
	case FormatRGBA32:
		return "rgba32"
	default:
		return "unknown"
	}
}

// BytesPerPixel returns the pixel stride of the format, or 0 for an
// unknown format.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatGray8:
		return 1
	case FormatRGB24, FormatBGR24:
		return 3
	case FormatRGBA32:
		return 4
	default:
		return 0
	}
}

// Detection is one hit reported by a detection stage: a square region
// centered at (Col, Row) with the given side length and a classifier
// confidence score.
type Detection struct {
	Row   int
	Col   int
	Size  int
	Score float32
}

// Frame is one image passing through the pipeline. Stages mutate it in
// place: pixel data, dimensions and format may all change as the frame
// moves down the pipeline (a grayscale stage re-lays the buffer out as
// tightly packed Gray8). Detection stages append to Detections without
// touching pixels.
type Frame struct {
	Pixels []byte
	Width  int
	Height int
	Stride int // bytes per row, >= Width*Format.BytesPerPixel()
	Format Format

	Detections []Detection
}

// Validate checks the frame's dimensions against its buffer.
func (f *Frame) Validate() error {
	bpp := f.Format.BytesPerPixel()
	if bpp == 0 {
		return fmt.Errorf("frame: unknown pixel format %d", int32(f.Format))
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("frame: invalid dimensions %dx%d", f.Width, f.Height)
	}
	if f.Stride < f.Width*bpp {
		return fmt.Errorf("frame: stride %d too small for width %d (%s)", f.Stride, f.Width, f.Format)
	}
	if len(f.Pixels) < f.Stride*f.Height {
		return fmt.Errorf("frame: buffer holds %d bytes, need %d", len(f.Pixels), f.Stride*f.Height)
	}
	return nil
}

// luma converts one pixel to 8-bit luminance using the BT.601 integer
// weights.
func luma(r, g, b byte) byte {
	return byte((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}

// toGray converts the frame to tightly packed Gray8 in place. Already
// gray frames are repacked only if their rows are padded.
func (f *Frame) toGray() {
	bpp := f.Format.BytesPerPixel()
	if f.Format == FormatGray8 && f.Stride == f.Width {
		return
	}

	out := make([]byte, f.Width*f.Height)
	for y := 0; y < f.Height; y++ {
		row := f.Pixels[y*f.Stride:]
		for x := 0; x < f.Width; x++ {
			px := row[x*bpp:]
			var v byte
			switch f.Format {
			case FormatGray8:
				v = px[0]
			case FormatRGB24, FormatRGBA32:
				v = luma(px[0], px[1], px[2])
			case FormatBGR24:
				v = luma(px[2], px[1], px[0])
			}
			out[y*f.Width+x] = v
		}
	}
	f.Pixels = out
	f.Stride = f.Width
	f.Format = FormatGray8
}
