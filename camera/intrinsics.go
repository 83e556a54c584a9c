// Package camera models the intrinsic calibration of the cameras in a
// reconstruction: how image pixels relate to bearing directions in the
// camera frame, how lens distortion is applied and removed, and how a
// camera's parameters are exposed to a nonlinear optimizer and persisted.
//
// All models are immutable from the outside except through UpdateFromParams,
// which rebuilds the whole model, so instances are safe for concurrent reads
// between parameter updates.
package camera

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/reconlab/sfm/pose"
)

// ModelType is the name of a camera intrinsic model. It doubles as the type
// tag in the persisted form, so a released ModelType must never change.
type ModelType string

const (
	// PinholeModelType is the ideal pinhole model: no skew, a single
	// isotropic focal length, no lens distortion.
	PinholeModelType = ModelType("pinhole")
	// PinholeBrownConradyModelType is a pinhole model with Brown-Conrady
	// lens distortion.
	PinholeBrownConradyModelType = ModelType("pinhole_brown_conrady")
)

// Intrinsics is the capability set every camera model implements, so that
// pose estimation, triangulation and bundle adjustment stay polymorphic over
// the camera family.
type Intrinsics interface {
	// ModelType returns the model's type tag.
	ModelType() ModelType
	// Width and Height are the image plane dimensions in pixels.
	Width() int
	Height() int

	// BearingVector maps an image pixel to a unit-length direction in the
	// camera frame, removing lens distortion if the model has any.
	BearingVector(p r2.Point) r3.Vector

	// ImageToCamera and CameraToImage convert between pixel coordinates
	// and normalized camera-plane coordinates. They are exact algebraic
	// inverses for distortion-free models.
	ImageToCamera(p r2.Point) r2.Point
	CameraToImage(p r2.Point) r2.Point

	// HaveDistortion reports whether the model has a lens distortion field.
	HaveDistortion() bool
	// AddDistortion and RemoveDistortion apply and invert the distortion
	// field on camera-plane points; both are the identity for
	// distortion-free models. RemoveDistortion(AddDistortion(p)) must give
	// back p to numerical tolerance.
	AddDistortion(p r2.Point) r2.Point
	RemoveDistortion(p r2.Point) r2.Point
	// DistortedPixel and UndistortedPixel are the pixel-space counterparts
	// of AddDistortion and RemoveDistortion.
	DistortedPixel(p r2.Point) r2.Point
	UndistortedPixel(p r2.Point) r2.Point

	// ImagePlaneErrorToCameraPlane rescales a pixel-space error magnitude
	// into camera-plane units, making reprojection thresholds independent
	// of image resolution.
	ImagePlaneErrorToCameraPlane(value float64) float64

	// ProjectiveMatrix assembles the full 3x4 projection matrix K[R|t].
	ProjectiveMatrix(p *pose.Pose) *mat.Dense

	// Params returns the model's parameters in the fixed order the
	// optimizer's Jacobian layout depends on. UpdateFromParams replaces
	// the model's state from such a vector; a vector of the wrong length
	// is rejected and leaves the model untouched.
	Params() []float64
	UpdateFromParams(params []float64) error
}
