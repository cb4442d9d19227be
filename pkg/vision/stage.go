package vision

import (
	"fmt"
)

// Stage is one processing node of a frame graph. Process mutates the
// frame in place and is called once per frame, in pipeline order, from a
// single goroutine.
type Stage interface {
	Name() string
	Process(f *Frame) error
}

// requireGray returns the frame's gray plane, converting if necessary.
// Stages that operate on luminance call this instead of failing on
// color input; the conversion happens at most once per frame.
func requireGray(f *Frame) []byte {
	f.toGray()
	return f.Pixels
}

// ---------------------------------------------------------------------------
// grayscale
// ---------------------------------------------------------------------------

// Grayscale converts any supported format to tightly packed Gray8.
type Grayscale struct{}

func NewGrayscale() *Grayscale { return &Grayscale{} }

func (*Grayscale) Name() string { return "grayscale" }

func (*Grayscale) Process(f *Frame) error {
	f.toGray()
	return nil
}

// ---------------------------------------------------------------------------
// invert
// ---------------------------------------------------------------------------

// Invert inverts every pixel value.
type Invert struct{}

func NewInvert() *Invert { return &Invert{} }

func (*Invert) Name() string { return "invert" }

func (*Invert) Process(f *Frame) error {
	bpp := f.Format.BytesPerPixel()
	for y := 0; y < f.Height; y++ {
		row := f.Pixels[y*f.Stride : y*f.Stride+f.Width*bpp]
		for i := range row {
			// Alpha stays untouched on RGBA frames.
			if f.Format == FormatRGBA32 && i%4 == 3 {
				continue
			}
			row[i] = ^row[i]
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// threshold
// ---------------------------------------------------------------------------

// Threshold binarizes the luminance plane: values >= Level become 255,
// the rest 0. Color input is converted to gray first.
type Threshold struct {
	Level uint8
}

func NewThreshold(level uint8) *Threshold { return &Threshold{Level: level} }

func (*Threshold) Name() string { return "threshold" }

func (s *Threshold) Process(f *Frame) error {
	gray := requireGray(f)
	for i, v := range gray {
		if v >= s.Level {
			gray[i] = 255
		} else {
			gray[i] = 0
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// box-blur
// ---------------------------------------------------------------------------

// BoxBlur applies a mean filter of the given radius to the luminance
// plane. Radius 0 is a no-op.
type BoxBlur struct {
	Radius int
}

func NewBoxBlur(radius int) (*BoxBlur, error) {
	if radius < 0 {
		return nil, fmt.Errorf("box-blur: radius %d is negative", radius)
	}
	return &BoxBlur{Radius: radius}, nil
}

func (*BoxBlur) Name() string { return "box-blur" }

func (s *BoxBlur) Process(f *Frame) error {
	if s.Radius == 0 {
		return nil
	}
	gray := requireGray(f)
	w, h, r := f.Width, f.Height, s.Radius

	out := make([]byte, len(gray))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum, n := 0, 0
			for dy := -r; dy <= r; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -r; dx <= r; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					sum += int(gray[yy*w+xx])
					n++
				}
			}
			out[y*w+x] = byte(sum / n)
		}
	}
	f.Pixels = out
	return nil
}

// ---------------------------------------------------------------------------
// sobel
// ---------------------------------------------------------------------------

// Sobel replaces the luminance plane with clamped gradient magnitude.
// Border pixels are left at zero.
type Sobel struct{}

func NewSobel() *Sobel { return &Sobel{} }

func (*Sobel) Name() string { return "sobel" }

func (s *Sobel) Process(f *Frame) error {
	gray := requireGray(f)
	w, h := f.Width, f.Height

	out := make([]byte, len(gray))
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			p := func(dx, dy int) int { return int(gray[(y+dy)*w+x+dx]) }
			gx := -p(-1, -1) - 2*p(-1, 0) - p(-1, 1) +
				p(1, -1) + 2*p(1, 0) + p(1, 1)
			gy := -p(-1, -1) - 2*p(0, -1) - p(1, -1) +
				p(-1, 1) + 2*p(0, 1) + p(1, 1)
			if gx < 0 {
				gx = -gx
			}
			if gy < 0 {
				gy = -gy
			}
			mag := gx + gy
			if mag > 255 {
				mag = 255
			}
			out[y*w+x] = byte(mag)
		}
	}
	f.Pixels = out
	return nil
}
