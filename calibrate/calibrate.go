// Package calibrate refines camera intrinsic parameters against observed
// 2D-3D correspondences, minimizing the same reprojection residual a bundle
// adjustment backend does. It drives cameras purely through their parameter
// vector, so it works for any registered camera model.
package calibrate

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/optimize"

	"github.com/reconlab/sfm/camera"
)

// Observation pairs a 3D point in the camera frame with the pixel where it
// was observed. Points must be in front of the camera (positive Z).
type Observation struct {
	Point r3.Vector `json:"point"`
	Pixel r2.Point  `json:"pixel"`
}

// Project maps a camera-frame 3D point to the pixel where the model would
// image it, applying lens distortion if the model has any.
func Project(cam camera.Intrinsics, pt r3.Vector) r2.Point {
	c := r2.Point{X: pt.X / pt.Z, Y: pt.Y / pt.Z}
	return cam.CameraToImage(cam.AddDistortion(c))
}

// ReprojectionError returns the pixel distance between an observation's
// pixel and the projection of its 3D point through the camera model.
func ReprojectionError(cam camera.Intrinsics, obs Observation) float64 {
	return Project(cam, obs.Point).Sub(obs.Pixel).Norm()
}

// MeanReprojectionError returns the mean pixel reprojection error over the
// observations, or NaN if there are none.
func MeanReprojectionError(cam camera.Intrinsics, observations []Observation) float64 {
	if len(observations) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, obs := range observations {
		sum += ReprojectionError(cam, obs)
	}
	return sum / float64(len(observations))
}

// RefineIntrinsics adjusts the camera's parameter vector to minimize the
// mean squared reprojection error over the observations, writing the result
// back through UpdateFromParams. The camera is exclusively owned by the
// refinement for its duration; on failure it is restored to its initial
// parameters.
func RefineIntrinsics(cam camera.Intrinsics, observations []Observation, logger golog.Logger) error {
	if len(observations) == 0 {
		return errors.New("no observations to refine against")
	}
	initial := cam.Params()

	cost := func(params []float64) float64 {
		if err := cam.UpdateFromParams(params); err != nil {
			return math.Inf(1)
		}
		var sum float64
		for _, obs := range observations {
			r := ReprojectionError(cam, obs)
			sum += r * r
		}
		return sum / float64(len(observations))
	}
	initialCost := cost(initial)

	problem := optimize.Problem{Func: cost}
	result, err := optimize.Minimize(problem, initial, nil, &optimize.NelderMead{})
	if err != nil {
		if uerr := cam.UpdateFromParams(initial); uerr != nil {
			return uerr
		}
		return errors.Wrap(err, "intrinsic refinement failed")
	}
	if err := cam.UpdateFromParams(result.X); err != nil {
		return err
	}
	logger.Debugf("refined %q intrinsics in %d evaluations, cost %.8f -> %.8f",
		cam.ModelType(), result.FuncEvaluations, initialCost, result.F)
	return nil
}
