package camera

import (
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"go.viam.com/utils"
)

func TestSerializationRoundTrip(t *testing.T) {
	cam := NewPinhole(1920, 1080, 1000, 960, 540)
	data, err := MarshalIntrinsics(cam)
	test.That(t, err, test.ShouldBeNil)

	loaded, err := UnmarshalIntrinsics(data)
	test.That(t, err, test.ShouldBeNil)
	pinhole, ok := loaded.(*Pinhole)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pinhole.Focal(), test.ShouldEqual, 1000.)
	test.That(t, pinhole.PrincipalPoint().X, test.ShouldEqual, 960.)
	test.That(t, pinhole.PrincipalPoint().Y, test.ShouldEqual, 540.)
	test.That(t, pinhole.Width(), test.ShouldEqual, 1920)
	test.That(t, pinhole.Height(), test.ShouldEqual, 1080)
	test.That(t, pinhole, test.ShouldResemble, cam)
}

func TestSerializationRoundTripDistorted(t *testing.T) {
	cam := newTestBrownConradyCamera(t)
	data, err := MarshalIntrinsics(cam)
	test.That(t, err, test.ShouldBeNil)

	loaded, err := UnmarshalIntrinsics(data)
	test.That(t, err, test.ShouldBeNil)
	distorted, ok := loaded.(*PinholeBrownConrady)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, distorted, test.ShouldResemble, cam)
	test.That(t, distorted.HaveDistortion(), test.ShouldBeTrue)
}

func TestUnmarshalFromDataFile(t *testing.T) {
	file, err := os.Open("data/cameras.json")
	test.That(t, err, test.ShouldBeNil)
	defer utils.UncheckedErrorFunc(file.Close)

	data, err := io.ReadAll(file)
	test.That(t, err, test.ShouldBeNil)
	var testMap map[string]json.RawMessage
	err = json.Unmarshal(data, &testMap)
	test.That(t, err, test.ShouldBeNil)

	// pinhole dispatches to the pinhole loader
	cam, err := UnmarshalIntrinsics(testMap["pinhole"])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cam.ModelType(), test.ShouldEqual, PinholeModelType)
	test.That(t, cam, test.ShouldResemble, NewPinhole(1920, 1080, 1000, 960, 540))

	// brown_conrady dispatches to the distorted loader
	cam, err = UnmarshalIntrinsics(testMap["brown_conrady"])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cam.ModelType(), test.ShouldEqual, PinholeBrownConradyModelType)
	test.That(t, cam, test.ShouldResemble, newTestBrownConradyCamera(t))

	// an unknown tag is a hard error, not a default camera
	_, err = UnmarshalIntrinsics(testMap["wrong"])
	test.That(t, err, test.ShouldBeError, errors.New(`camera model type "fisheye" not recognized`))
}

func TestNewIntrinsicsFromJSONFile(t *testing.T) {
	cam, err := NewIntrinsicsFromJSONFile("data/pinhole_1080p.json")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cam, test.ShouldResemble, NewPinhole(1920, 1080, 1000, 960, 540))

	_, err = NewIntrinsicsFromJSONFile("data/does_not_exist.json")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRegisterModelPanicsOnDuplicate(t *testing.T) {
	test.That(t, func() {
		RegisterModel(PinholeModelType, func([]byte) (Intrinsics, error) { return nil, nil })
	}, test.ShouldPanic)
}
