package detector

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// serviceRequest is sent to one-shot detection commands on stdin.
type serviceRequest struct {
	Image         []byte  `json:"image"` // base64 in JSON
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	MinConfidence float64 `json:"minConfidence"`
}

// serviceResponse is the JSON document a detection service writes per image.
type serviceResponse struct {
	Pose  *Landmarks `json:"pose"`
	Error string     `json:"error,omitempty"`
}

// toLandmarks validates the response, filling in dimensions from the decoded image
// when the service leaves them out.
func (r serviceResponse) toLandmarks(info ImageInfo) (*Landmarks, error) {
	if r.Error != "" {
		return nil, errors.New(r.Error)
	}
	if r.Pose == nil {
		return nil, ErrNoPose
	}

	lm := *r.Pose
	if lm.ImageWidth <= 0 {
		lm.ImageWidth = info.Width
	}
	if lm.ImageHeight <= 0 {
		lm.ImageHeight = info.Height
	}
	if lm.LeftEar == nil && lm.RightEar == nil && lm.LeftShoulder == nil && lm.RightShoulder == nil {
		return nil, ErrNoPose
	}
	return &lm, nil
}
