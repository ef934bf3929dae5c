package texture

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/device/devicetest"
	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checker(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func TestNewUploadsWithMipmaps(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	tex, err := New(dev, checker(4, 2))
	require.NoError(t, err)

	w, h := tex.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, [2]int32{4, 2}, dev.Textures[tex.Handle()])
	assert.Equal(t, 1, dev.Calls("GenerateMipmap"))
	assert.Equal(t, 4, dev.Calls("TexParameteri"))
}

func TestNewEmptySkipsMipmaps(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	tex, err := NewEmpty(dev, 64, 32)
	require.NoError(t, err)
	assert.Equal(t, TargetSampler, tex.Sampler())
	assert.Zero(t, dev.Calls("GenerateMipmap"))

	_, err = NewEmpty(dev, 0, 32)
	assert.ErrorIs(t, err, errs.ErrGeometryValidation)
}

func TestSamplerValidation(t *testing.T) {
	assert.NoError(t, DefaultSampler.Validate())
	assert.NoError(t, TargetSampler.Validate())

	bad := DefaultSampler
	bad.MagFilter = device.FilterLinearMipmapLinear
	assert.ErrorIs(t, bad.Validate(), errs.ErrGeometryValidation)

	bad = DefaultSampler
	bad.WrapT = 7
	assert.ErrorIs(t, bad.Validate(), errs.ErrGeometryValidation)

	dev := devicetest.NewFakeDevice()
	_, err := New(dev, checker(2, 2), WithSampler(bad))
	assert.ErrorIs(t, err, errs.ErrGeometryValidation)
	assert.Zero(t, dev.TotalCalls())
}

func TestNewAllocationFailure(t *testing.T) {
	dev := devicetest.NewFakeDevice(devicetest.WithCreateFailure("CreateTexture", errors.New("no texture names left")))
	_, err := New(dev, checker(2, 2))
	assert.ErrorIs(t, err, errs.ErrResourceCreation)
}

func TestToRGBAFlipAndResize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 2))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})
	src.Set(0, 1, color.RGBA{B: 255, A: 255})

	out := toRGBA(src, nil)
	flip(out)
	assert.Equal(t, []byte{0, 0, 255, 255, 255, 0, 0, 255}, out.Pix)

	scaled := toRGBA(checker(8, 8), &image.Point{X: 2, Y: 2})
	assert.Equal(t, image.Rect(0, 0, 2, 2), scaled.Rect)
}

func TestBindSelectsUnit(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	tex, err := NewEmpty(dev, 8, 8)
	require.NoError(t, err)
	tex.Bind(dev, 3)
	assert.Equal(t, tex.Handle(), dev.BoundTexture(3))
}
