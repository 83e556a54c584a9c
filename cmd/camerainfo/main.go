// Package main is a command that prints the calibration stored in camera
// intrinsic JSON files.
package main

import (
	"flag"

	"github.com/edaniels/golog"

	"github.com/reconlab/sfm/camera"
)

func main() {
	flag.Parse()

	logger := golog.NewDevelopmentLogger("camerainfo")
	if flag.NArg() < 1 {
		logger.Fatal("need at least one camera JSON file")
	}

	for _, path := range flag.Args() {
		cam, err := camera.NewIntrinsicsFromJSONFile(path)
		if err != nil {
			logger.Fatalw("cannot read camera file", "path", path, "error", err)
		}
		logger.Infow("camera",
			"path", path,
			"model", cam.ModelType(),
			"width_px", cam.Width(),
			"height_px", cam.Height(),
			"distortion", cam.HaveDistortion(),
			"params", cam.Params(),
		)
	}
}
