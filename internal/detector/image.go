package detector

import (
	"fmt"

	"gocv.io/x/gocv"
)

// ImageInfo describes a decoded image and carries its JPEG re-encoding.
type ImageInfo struct {
	Width  int
	Height int
	JPEG   []byte
}

// DecodeImage decodes an encoded image (JPEG, PNG, ...) to read its
// dimensions and re-encodes it as JPEG for the detection services.
func DecodeImage(image []byte) (ImageInfo, error) {
	if len(image) == 0 {
		return ImageInfo{}, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}

	mat, err := gocv.IMDecode(image, gocv.IMReadColor)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	defer mat.Close()

	if mat.Empty() {
		return ImageInfo{}, fmt.Errorf("%w: undecodable image", ErrInvalidImage)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("encode image: %w", err)
	}
	defer buf.Close()

	// The native buffer is freed on Close.
	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())

	return ImageInfo{
		Width:  mat.Cols(),
		Height: mat.Rows(),
		JPEG:   data,
	}, nil
}
