package preprocess

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"

	"github.com/Brownie44l1/medict-api/internal/domain"
)

// DefaultSize is the side length the bundled models were trained on.
const DefaultSize = 350

// DefaultMaxPixels bounds the decoded area of an upload. A compressed file far below
// the upload limit can still declare enormous dimensions.
const DefaultMaxPixels = 89_478_485

// Normalizer turns uploaded scans into classifier input.
type Normalizer struct {
	Size      int
	MaxPixels int
}

func New(size int) *Normalizer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Normalizer{Size: size, MaxPixels: DefaultMaxPixels}
}

// Normalize decodes raw image bytes and converts them to a [1, S, S, 3] tensor.
func (n *Normalizer) Normalize(raw []byte) (Tensor, error) {
	if len(raw) == 0 {
		return Tensor{}, invalidImage("empty upload", nil)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Tensor{}, invalidImage("decode", err)
	}
	if err := n.checkDimensions(cfg.Width, cfg.Height); err != nil {
		return Tensor{}, err
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Tensor{}, invalidImage("decode", err)
	}
	return n.NormalizeImage(img)
}

// NormalizeImage drops alpha, stretches to S×S with bicubic interpolation and scales
// channels to [0,1]. Aspect ratio is not preserved.
func (n *Normalizer) NormalizeImage(img image.Image) (Tensor, error) {
	if img == nil {
		return Tensor{}, invalidImage("nil image", nil)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return Tensor{}, invalidImage("zero-size image", nil)
	}

	rgb := toRGB(img)

	var sized *image.RGBA
	if bounds.Dx() == n.Size && bounds.Dy() == n.Size {
		sized = rgb
	} else {
		resized := resize.Resize(uint(n.Size), uint(n.Size), rgb, resize.Bicubic)
		sized = toRGB(resized)
	}

	data := make([]float32, n.Size*n.Size*Channels)
	for y := 0; y < n.Size; y++ {
		for x := 0; x < n.Size; x++ {
			c := sized.RGBAAt(x, y)
			i := (y*n.Size + x) * Channels
			data[i] = float32(c.R) / 255.0
			data[i+1] = float32(c.G) / 255.0
			data[i+2] = float32(c.B) / 255.0
		}
	}

	return NewTensor(n.Size, data)
}

func (n *Normalizer) checkDimensions(w, h int) error {
	if w <= 0 || h <= 0 {
		return invalidImage("zero-size image", nil)
	}
	limit := n.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxPixels
	}
	if int64(w)*int64(h) > int64(limit) {
		return invalidImage(fmt.Sprintf("image is %dx%d, exceeds the %d pixel limit", w, h, limit), nil)
	}
	return nil
}

// toRGB copies img into an opaque, zero-origin RGBA image. Gray sources expand to three
// equal channels; alpha is discarded without blending.
func toRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return out
}

func invalidImage(msg string, err error) error {
	return &domain.Error{
		Op:   "preprocess.normalize",
		Kind: domain.KindInvalidImage,
		Msg:  msg,
		Err:  err,
	}
}
