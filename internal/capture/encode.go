package capture

import (
	"errors"

	"gocv.io/x/gocv"
)

// DefaultJPEGQuality matches the quality the recognition service was
// tuned against.
const DefaultJPEGQuality = 95

// EncodeJPEG encodes a frame as JPEG at the given quality (1-100).
// Out-of-range qualities fall back to DefaultJPEGQuality.
func EncodeJPEG(frame *gocv.Mat, quality int) ([]byte, error) {
	if frame == nil || frame.Empty() {
		return nil, errors.New("cannot encode empty frame")
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, *frame, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	// Copy out of the native buffer before it is released
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())

	return data, nil
}
