// Package pose holds the extrinsic part of a camera: a rigid rotation and
// translation mapping world coordinates into the camera frame, and the 3x4
// [R|t] matrix assembled from them.
package pose

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Pose is a rigid camera pose. The rotation is world-to-camera; the
// translation is the world origin expressed in the camera frame.
type Pose struct {
	rotation    *mat.Dense
	translation r3.Vector
}

// NewPose creates a Pose from a 3x3 rotation matrix and a translation.
func NewPose(rotation *mat.Dense, translation r3.Vector) (*Pose, error) {
	r, c := rotation.Dims()
	if r != 3 || c != 3 {
		return nil, errors.Errorf("rotation matrix must be 3x3, got %dx%d", r, c)
	}
	return &Pose{rotation: rotation, translation: translation}, nil
}

// NewZeroPose returns the identity pose.
func NewZeroPose() *Pose {
	rot := mat.NewDense(3, 3, nil)
	rot.Set(0, 0, 1)
	rot.Set(1, 1, 1)
	rot.Set(2, 2, 1)
	return &Pose{rotation: rot}
}

// NewPoseFromMat creates a Pose from a 3x4 [R|t] matrix.
func NewPoseFromMat(rt *mat.Dense) (*Pose, error) {
	r, c := rt.Dims()
	if r != 3 || c != 4 {
		return nil, errors.Errorf("pose matrix must be 3x4, got %dx%d", r, c)
	}
	t := rt.ColView(3)
	rot := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rot.Set(i, j, rt.At(i, j))
		}
	}
	return &Pose{
		rotation:    rot,
		translation: r3.Vector{X: t.AtVec(0), Y: t.AtVec(1), Z: t.AtVec(2)},
	}, nil
}

// Rotation returns the 3x3 rotation matrix.
func (p *Pose) Rotation() *mat.Dense {
	return p.rotation
}

// Translation returns the translation.
func (p *Pose) Translation() r3.Vector {
	return p.translation
}

// TranslationVec returns the translation as a 3x1 column vector.
func (p *Pose) TranslationVec() *mat.VecDense {
	return mat.NewVecDense(3, []float64{p.translation.X, p.translation.Y, p.translation.Z})
}

// Matrix assembles the 3x4 [R|t] matrix.
func (p *Pose) Matrix() *mat.Dense {
	var rt mat.Dense
	rt.Augment(p.rotation, p.TranslationVec())
	return &rt
}
