package camera

import (
	"encoding/json"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// PinholeBrownConrady is a pinhole camera with a Brown-Conrady lens
// distortion field over the normalized camera plane. The affine pixel
// conversions are inherited from the embedded pinhole; every operation that
// touches geometry through the lens goes through the distortion field.
type PinholeBrownConrady struct {
	Pinhole
	distortion *BrownConrady
}

var _ Intrinsics = (*PinholeBrownConrady)(nil)

// NewPinholeBrownConrady creates a distorted pinhole camera. A nil distortion
// behaves as all-zero coefficients.
func NewPinholeBrownConrady(width, height int, focal, ppx, ppy float64, distortion *BrownConrady) *PinholeBrownConrady {
	if distortion == nil {
		distortion = &BrownConrady{}
	}
	return &PinholeBrownConrady{
		Pinhole:    *NewPinhole(width, height, focal, ppx, ppy),
		distortion: distortion,
	}
}

// ModelType returns the distorted pinhole type tag.
func (p *PinholeBrownConrady) ModelType() ModelType {
	return PinholeBrownConradyModelType
}

// Distortion returns the camera's distortion model.
func (p *PinholeBrownConrady) Distortion() *BrownConrady {
	return p.distortion
}

// HaveDistortion reports true.
func (p *PinholeBrownConrady) HaveDistortion() bool {
	return true
}

// AddDistortion applies the distortion field to a camera-plane point.
func (p *PinholeBrownConrady) AddDistortion(pt r2.Point) r2.Point {
	x, y := p.distortion.Distort(pt.X, pt.Y)
	return r2.Point{X: x, Y: y}
}

// RemoveDistortion inverts the distortion field on a camera-plane point.
func (p *PinholeBrownConrady) RemoveDistortion(pt r2.Point) r2.Point {
	x, y := p.distortion.Undistort(pt.X, pt.Y)
	return r2.Point{X: x, Y: y}
}

// DistortedPixel applies the distortion field in pixel space.
func (p *PinholeBrownConrady) DistortedPixel(pt r2.Point) r2.Point {
	return p.CameraToImage(p.AddDistortion(p.ImageToCamera(pt)))
}

// UndistortedPixel removes the distortion field in pixel space.
func (p *PinholeBrownConrady) UndistortedPixel(pt r2.Point) r2.Point {
	return p.CameraToImage(p.RemoveDistortion(p.ImageToCamera(pt)))
}

// BearingVector maps a pixel to a unit direction in the camera frame,
// removing distortion on the way.
func (p *PinholeBrownConrady) BearingVector(pt r2.Point) r3.Vector {
	c := p.RemoveDistortion(p.ImageToCamera(pt))
	return r3.Vector{X: c.X, Y: c.Y, Z: 1}.Normalize()
}

// Params returns [focal, ppx, ppy, k1, k2, k3, p1, p2], in that fixed order.
func (p *PinholeBrownConrady) Params() []float64 {
	return append(p.Pinhole.Params(), p.distortion.Parameters()...)
}

// UpdateFromParams rebuilds the whole camera from an 8-element parameter
// vector, leaving it untouched on a length mismatch.
func (p *PinholeBrownConrady) UpdateFromParams(params []float64) error {
	if len(params) != 8 {
		return errors.Errorf("expected 8 parameters, got %d", len(params))
	}
	distortion, err := NewBrownConrady(params[3:])
	if err != nil {
		return err
	}
	*p = *NewPinholeBrownConrady(p.width, p.height, params[0], params[1], params[2], distortion)
	return nil
}

// pinholeBrownConradyConfig is the persisted form of a PinholeBrownConrady.
type pinholeBrownConradyConfig struct {
	Type                 ModelType  `json:"type"`
	Width                int        `json:"width_px"`
	Height               int        `json:"height_px"`
	FocalLength          float64    `json:"focal_length"`
	PrincipalPoint       [2]float64 `json:"principal_point"`
	DistortionParameters []float64  `json:"distortion_parameters"`
}

// MarshalJSON writes the camera in its persisted form under the
// pinhole_brown_conrady tag.
func (p *PinholeBrownConrady) MarshalJSON() ([]byte, error) {
	pp := p.PrincipalPoint()
	return json.Marshal(pinholeBrownConradyConfig{
		Type:                 PinholeBrownConradyModelType,
		Width:                p.width,
		Height:               p.height,
		FocalLength:          p.Focal(),
		PrincipalPoint:       [2]float64{pp.X, pp.Y},
		DistortionParameters: p.distortion.Parameters(),
	})
}

func init() {
	RegisterModel(PinholeBrownConradyModelType, func(data []byte) (Intrinsics, error) {
		cfg := pinholeBrownConradyConfig{}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "error parsing brown-conrady intrinsics")
		}
		distortion, err := NewBrownConrady(cfg.DistortionParameters)
		if err != nil {
			return nil, err
		}
		return NewPinholeBrownConrady(
			cfg.Width, cfg.Height, cfg.FocalLength, cfg.PrincipalPoint[0], cfg.PrincipalPoint[1], distortion,
		), nil
	})
}
