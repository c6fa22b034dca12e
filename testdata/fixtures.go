// Package testdata generates encoded test images.
package testdata

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// JPEG returns a width x height JPEG with a light background and a dark
// head-and-shoulders silhouette.
func JPEG(width, height int) ([]byte, error) {
	return encode(gocv.JPEGFileExt, width, height)
}

// PNG is like JPEG but PNG-encoded.
func PNG(width, height int) ([]byte, error) {
	return encode(gocv.PNGFileExt, width, height)
}

func encode(ext gocv.FileExt, width, height int) ([]byte, error) {
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(230, 230, 230, 0), height, width, gocv.MatTypeCV8UC3)
	defer mat.Close()

	dark := color.RGBA{R: 40, G: 40, B: 40, A: 255}
	gocv.Circle(&mat, image.Pt(width/2, height*3/10), height/10, dark, -1)
	gocv.Rectangle(&mat, image.Rect(width/4, height/2, width*3/4, height), dark, -1)

	buf, err := gocv.IMEncode(ext, mat)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ext, err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}
