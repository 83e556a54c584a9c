package camera

import (
	"encoding/json"
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/reconlab/sfm/pose"
)

// ErrNoIntrinsics is when a camera does not have usable intrinsic parameters.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// NewNoIntrinsicsError is used when the intrinsics are not defined.
func NewNoIntrinsicsError(msg string) error {
	return errors.Wrapf(ErrNoIntrinsics, msg)
}

// Pinhole is an ideal pinhole camera: no skew, a single isotropic focal
// length and no lens distortion. Focal length and principal point are
// embedded in the calibration matrix
//
//	K = [[f 0 cx],
//	     [0 f cy],
//	     [0 0  1]]
//
// with its inverse cached alongside. Both are rebuilt together on every
// update, so the cached inverse can never go stale.
//
// The zero focal length of a default-constructed camera is an uninitialized
// state: K is then singular and Kinv holds non-finite entries, so geometric
// queries on such a camera are undefined. Callers are expected to validate
// construction upstream (see CheckValid); the geometric path itself does not
// guard against it.
type Pinhole struct {
	width, height int
	k             *mat.Dense
	kinv          *mat.Dense
}

// Compile-time check that the model satisfies the contract.
var _ Intrinsics = (*Pinhole)(nil)

// NewPinhole creates a pinhole camera from image dimensions, a focal length
// in pixels, and a principal point in pixels.
func NewPinhole(width, height int, focal, ppx, ppy float64) *Pinhole {
	k := mat.NewDense(3, 3, []float64{
		focal, 0, ppx,
		0, focal, ppy,
		0, 0, 1,
	})
	// K has a fixed zero/one structure, so the inverse is closed-form. A
	// zero focal yields non-finite entries here rather than an error,
	// keeping the uninitialized state representable.
	kinv := mat.NewDense(3, 3, []float64{
		1 / focal, 0, -ppx / focal,
		0, 1 / focal, -ppy / focal,
		0, 0, 1,
	})
	return &Pinhole{width: width, height: height, k: k, kinv: kinv}
}

// CheckValid checks if the camera was constructed with usable values.
func (p *Pinhole) CheckValid() error {
	if p == nil {
		return NewNoIntrinsicsError("intrinsics do not exist")
	}
	if p.width <= 0 || p.height <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid size (%#v, %#v)", p.width, p.height))
	}
	if p.Focal() <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid focal length %#v", p.Focal()))
	}
	pp := p.PrincipalPoint()
	if pp.X < 0 || pp.Y < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid principal point (%#v, %#v)", pp.X, pp.Y))
	}
	return nil
}

// ModelType returns the pinhole type tag.
func (p *Pinhole) ModelType() ModelType {
	return PinholeModelType
}

// Width returns the image plane width in pixels.
func (p *Pinhole) Width() int {
	return p.width
}

// Height returns the image plane height in pixels.
func (p *Pinhole) Height() int {
	return p.height
}

// K returns a copy of the 3x3 calibration matrix.
func (p *Pinhole) K() *mat.Dense {
	return mat.DenseCopyOf(p.k)
}

// Kinv returns a copy of the inverse calibration matrix.
func (p *Pinhole) Kinv() *mat.Dense {
	return mat.DenseCopyOf(p.kinv)
}

// Focal returns the focal length in pixels.
func (p *Pinhole) Focal() float64 {
	return p.k.At(0, 0)
}

// PrincipalPoint returns the principal point in pixels.
func (p *Pinhole) PrincipalPoint() r2.Point {
	return r2.Point{X: p.k.At(0, 2), Y: p.k.At(1, 2)}
}

// BearingVector lifts the pixel to homogeneous coordinates, applies Kinv and
// normalizes to unit length. Undefined for a zero focal length.
func (p *Pinhole) BearingVector(pt r2.Point) r3.Vector {
	var out mat.VecDense
	out.MulVec(p.kinv, mat.NewVecDense(3, []float64{pt.X, pt.Y, 1}))
	return r3.Vector{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}.Normalize()
}

// CameraToImage maps a normalized camera-plane point to pixel coordinates.
func (p *Pinhole) CameraToImage(pt r2.Point) r2.Point {
	return pt.Mul(p.Focal()).Add(p.PrincipalPoint())
}

// ImageToCamera maps a pixel to the normalized camera plane. Exact inverse
// of CameraToImage.
func (p *Pinhole) ImageToCamera(pt r2.Point) r2.Point {
	return pt.Sub(p.PrincipalPoint()).Mul(1 / p.Focal())
}

// HaveDistortion reports false: the ideal pinhole has no distortion field.
func (p *Pinhole) HaveDistortion() bool {
	return false
}

// AddDistortion is the identity for the pinhole model.
func (p *Pinhole) AddDistortion(pt r2.Point) r2.Point {
	return pt
}

// RemoveDistortion is the identity for the pinhole model.
func (p *Pinhole) RemoveDistortion(pt r2.Point) r2.Point {
	return pt
}

// DistortedPixel is the identity for the pinhole model.
func (p *Pinhole) DistortedPixel(pt r2.Point) r2.Point {
	return pt
}

// UndistortedPixel is the identity for the pinhole model.
func (p *Pinhole) UndistortedPixel(pt r2.Point) r2.Point {
	return pt
}

// ImagePlaneErrorToCameraPlane converts a pixel-space error magnitude to
// camera-plane units.
func (p *Pinhole) ImagePlaneErrorToCameraPlane(value float64) float64 {
	return value / p.Focal()
}

// ProjectiveMatrix assembles the 3x4 projection matrix P = K[R|t] for the
// given pose.
func (p *Pinhole) ProjectiveMatrix(ps *pose.Pose) *mat.Dense {
	var kr mat.Dense
	kr.Mul(p.k, ps.Rotation())
	var kt mat.VecDense
	kt.MulVec(p.k, ps.TranslationVec())
	var proj mat.Dense
	proj.Augment(&kr, &kt)
	return &proj
}

// Params returns [focal, ppx, ppy]. The order is fixed: the optimizer's
// Jacobian layout depends on it.
func (p *Pinhole) Params() []float64 {
	return []float64{p.k.At(0, 0), p.k.At(0, 2), p.k.At(1, 2)}
}

// UpdateFromParams replaces the camera from a [focal, ppx, ppy] vector. The
// whole model is rebuilt so K and Kinv cannot drift apart. A vector of the
// wrong length is rejected and leaves the camera untouched.
func (p *Pinhole) UpdateFromParams(params []float64) error {
	if len(params) != 3 {
		return errors.Errorf("expected 3 parameters, got %d", len(params))
	}
	*p = *NewPinhole(p.width, p.height, params[0], params[1], params[2])
	return nil
}

// pinholeConfig is the persisted form of a Pinhole.
type pinholeConfig struct {
	Type           ModelType  `json:"type"`
	Width          int        `json:"width_px"`
	Height         int        `json:"height_px"`
	FocalLength    float64    `json:"focal_length"`
	PrincipalPoint [2]float64 `json:"principal_point"`
}

// MarshalJSON writes the camera in its persisted form under the pinhole tag.
func (p *Pinhole) MarshalJSON() ([]byte, error) {
	pp := p.PrincipalPoint()
	return json.Marshal(pinholeConfig{
		Type:           PinholeModelType,
		Width:          p.width,
		Height:         p.height,
		FocalLength:    p.Focal(),
		PrincipalPoint: [2]float64{pp.X, pp.Y},
	})
}

func init() {
	// Loading goes through the full constructor, same as UpdateFromParams,
	// so a deserialized camera is never partially initialized.
	RegisterModel(PinholeModelType, func(data []byte) (Intrinsics, error) {
		cfg := pinholeConfig{}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "error parsing pinhole intrinsics")
		}
		return NewPinhole(cfg.Width, cfg.Height, cfg.FocalLength, cfg.PrincipalPoint[0], cfg.PrincipalPoint[1]), nil
	})
}
