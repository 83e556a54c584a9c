package pose

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestNewPose(t *testing.T) {
	rot := mat.NewDense(3, 3, []float64{
		0, -1, 0,
		1, 0, 0,
		0, 0, 1,
	})
	p, err := NewPose(rot, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Rotation(), test.ShouldResemble, rot)
	test.That(t, p.Translation(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})

	_, err = NewPose(mat.NewDense(2, 2, nil), r3.Vector{})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestZeroPose(t *testing.T) {
	p := NewZeroPose()
	test.That(t, p.Translation(), test.ShouldResemble, r3.Vector{})
	rt := p.Matrix()
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			want := 0.
			if i == j {
				want = 1.
			}
			test.That(t, rt.At(i, j), test.ShouldEqual, want)
		}
	}
}

func TestPoseMatrixAssembly(t *testing.T) {
	rot := mat.NewDense(3, 3, []float64{
		0, 0, 1,
		0, 1, 0,
		-1, 0, 0,
	})
	p, err := NewPose(rot, r3.Vector{X: 0.5, Y: -1.25, Z: 3})
	test.That(t, err, test.ShouldBeNil)

	rt := p.Matrix()
	r, c := rt.Dims()
	test.That(t, r, test.ShouldEqual, 3)
	test.That(t, c, test.ShouldEqual, 4)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			test.That(t, rt.At(i, j), test.ShouldEqual, rot.At(i, j))
		}
	}
	test.That(t, rt.At(0, 3), test.ShouldEqual, 0.5)
	test.That(t, rt.At(1, 3), test.ShouldEqual, -1.25)
	test.That(t, rt.At(2, 3), test.ShouldEqual, 3.)
}

func TestNewPoseFromMat(t *testing.T) {
	rot := mat.NewDense(3, 3, []float64{
		0, -1, 0,
		1, 0, 0,
		0, 0, 1,
	})
	orig, err := NewPose(rot, r3.Vector{X: 4, Y: 5, Z: 6})
	test.That(t, err, test.ShouldBeNil)

	back, err := NewPoseFromMat(orig.Matrix())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back.Rotation(), test.ShouldResemble, rot)
	test.That(t, back.Translation(), test.ShouldResemble, orig.Translation())

	_, err = NewPoseFromMat(mat.NewDense(3, 3, nil))
	test.That(t, err, test.ShouldNotBeNil)
}
