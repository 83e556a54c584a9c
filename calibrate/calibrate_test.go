package calibrate

import (
	"math/rand"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/reconlab/sfm/camera"
)

// syntheticObservations images n random points in front of the camera.
func syntheticObservations(cam camera.Intrinsics, n int, seed int64) []Observation {
	r := rand.New(rand.NewSource(seed))
	obs := make([]Observation, n)
	for i := range obs {
		pt := r3.Vector{
			X: (r.Float64() - 0.5) * 2,
			Y: (r.Float64() - 0.5) * 2,
			Z: 2 + 4*r.Float64(),
		}
		obs[i] = Observation{Point: pt, Pixel: Project(cam, pt)}
	}
	return obs
}

func TestReprojectionError(t *testing.T) {
	cam := camera.NewPinhole(1920, 1080, 1000, 960, 540)
	obs := syntheticObservations(cam, 20, 1)
	for _, o := range obs {
		test.That(t, ReprojectionError(cam, o), test.ShouldAlmostEqual, 0, 1e-9)
	}
	test.That(t, MeanReprojectionError(cam, obs), test.ShouldAlmostEqual, 0, 1e-9)

	// a shifted principal point shows up as pixel error
	shifted := camera.NewPinhole(1920, 1080, 1000, 963, 540)
	test.That(t, ReprojectionError(shifted, obs[0]), test.ShouldAlmostEqual, 3, 1e-9)
}

func TestRefineIntrinsicsRecoversPinhole(t *testing.T) {
	logger := golog.NewTestLogger(t)
	truth := camera.NewPinhole(1920, 1080, 1000, 960, 540)
	obs := syntheticObservations(truth, 80, 42)

	cam := camera.NewPinhole(1920, 1080, 960, 950, 548)
	before := MeanReprojectionError(cam, obs)
	test.That(t, RefineIntrinsics(cam, obs, logger), test.ShouldBeNil)

	test.That(t, cam.Focal(), test.ShouldAlmostEqual, 1000, 1)
	test.That(t, cam.PrincipalPoint().X, test.ShouldAlmostEqual, 960, 1)
	test.That(t, cam.PrincipalPoint().Y, test.ShouldAlmostEqual, 540, 1)
	after := MeanReprojectionError(cam, obs)
	test.That(t, after, test.ShouldBeLessThan, before)
	test.That(t, after, test.ShouldBeLessThan, 0.5)
}

func TestRefineIntrinsicsNoObservations(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cam := camera.NewPinhole(1920, 1080, 1000, 960, 540)
	err := RefineIntrinsics(cam, nil, logger)
	test.That(t, err, test.ShouldNotBeNil)
}
