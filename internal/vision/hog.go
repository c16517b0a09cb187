// Package vision turns raw image bytes into the fixed-length descriptor the
// classifier consumes: a histogram-of-oriented-gradients vector computed on a
// 128x128 grayscale rendering of the image.
package vision

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/streetpulse/streetpulse/pkg/errors"
)

const (
	inputSize    = 128
	cellSize     = 16
	blockCells   = 2 // cells per block side, blocks do not overlap
	orientations = 9

	cellsPerSide  = inputSize / cellSize
	blocksPerSide = cellsPerSide / blockCells
)

// DescriptorSize is the length of every extracted descriptor.
const DescriptorSize = blocksPerSide * blocksPerSide * blockCells * blockCells * orientations

// Extract decodes image bytes and computes the HOG descriptor. The source is
// resized straight to 128x128, accepting distortion; identical bytes always
// produce an identical descriptor.
func Extract(data []byte) ([]float64, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrDecode, err)
	}

	return Descriptor(toGray(img)), nil
}

// toGray scales the source onto a 128x128 grayscale canvas
func toGray(img image.Image) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, inputSize, inputSize))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// Descriptor computes the HOG vector for a 128x128 grayscale image: gradient
// magnitude and unsigned orientation per pixel, 9-bin histograms per 16x16
// cell, then L2 normalization over non-overlapping 2x2-cell blocks.
func Descriptor(gray *image.Gray) []float64 {
	// Per-cell orientation histograms
	cells := make([][orientations]float64, cellsPerSide*cellsPerSide)

	for y := 0; y < inputSize; y++ {
		for x := 0; x < inputSize; x++ {
			gx := float64(pixel(gray, x+1, y)) - float64(pixel(gray, x-1, y))
			gy := float64(pixel(gray, x, y+1)) - float64(pixel(gray, x, y-1))

			magnitude := math.Hypot(gx, gy)
			if magnitude == 0 {
				continue
			}

			// Unsigned orientation in [0, 180)
			angle := math.Atan2(gy, gx) * 180 / math.Pi
			if angle < 0 {
				angle += 180
			}
			if angle >= 180 {
				angle -= 180
			}

			bin := int(angle / (180 / orientations))
			if bin >= orientations {
				bin = orientations - 1
			}

			cell := (y/cellSize)*cellsPerSide + x/cellSize
			cells[cell][bin] += magnitude
		}
	}

	// Concatenate block-normalized cell histograms
	descriptor := make([]float64, 0, DescriptorSize)
	for by := 0; by < blocksPerSide; by++ {
		for bx := 0; bx < blocksPerSide; bx++ {
			block := make([]float64, 0, blockCells*blockCells*orientations)
			for cy := 0; cy < blockCells; cy++ {
				for cx := 0; cx < blockCells; cx++ {
					cell := (by*blockCells+cy)*cellsPerSide + bx*blockCells + cx
					block = append(block, cells[cell][:]...)
				}
			}
			descriptor = append(descriptor, normalizeL2(block)...)
		}
	}

	return descriptor
}

// pixel reads intensity with edge clamping
func pixel(gray *image.Gray, x, y int) uint8 {
	if x < 0 {
		x = 0
	}
	if x >= inputSize {
		x = inputSize - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= inputSize {
		y = inputSize - 1
	}
	return gray.GrayAt(x, y).Y
}

func normalizeL2(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
	return v
}
