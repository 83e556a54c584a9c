package camera

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// LoaderFunc reconstructs a camera model from its persisted JSON document.
// Loaders must build the model through its full constructor so a
// deserialized camera is never partially initialized.
type LoaderFunc func(data []byte) (Intrinsics, error)

var modelRegistry = map[ModelType]LoaderFunc{}

// RegisterModel associates a model type tag with its loader. The tag is part
// of the on-disk format and must never change for a model once released.
// Each model registers itself once at startup; registering a tag twice panics.
func RegisterModel(t ModelType, loader LoaderFunc) {
	if _, ok := modelRegistry[t]; ok {
		panic(errors.Errorf("camera model type %q already registered", t))
	}
	modelRegistry[t] = loader
}

// rawIntrinsics peels the type tag off a persisted camera so the matching
// loader can be dispatched without knowing the concrete type in advance.
type rawIntrinsics struct {
	Type ModelType `json:"type"`
}

// UnmarshalIntrinsics reads any registered camera model from its persisted
// JSON form, dispatching on the "type" tag. An unknown tag is a hard error:
// silently substituting a default camera would corrupt every downstream
// reconstruction stage.
func UnmarshalIntrinsics(data []byte) (Intrinsics, error) {
	raw := rawIntrinsics{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "error parsing camera intrinsics")
	}
	loader, ok := modelRegistry[raw.Type]
	if !ok {
		return nil, errors.Errorf("camera model type %q not recognized", raw.Type)
	}
	return loader(data)
}

// MarshalIntrinsics writes a camera model in its persisted JSON form,
// including its type tag.
func MarshalIntrinsics(i Intrinsics) ([]byte, error) {
	return json.Marshal(i)
}

// NewIntrinsicsFromJSONFile reads a camera model of any registered type from
// a JSON file.
func NewIntrinsicsFromJSONFile(jsonPath string) (Intrinsics, error) {
	//nolint:gosec
	jsonFile, err := os.Open(jsonPath)
	if err != nil {
		return nil, errors.Wrap(err, "error opening JSON file")
	}
	defer utils.UncheckedErrorFunc(jsonFile.Close)
	data, err := io.ReadAll(jsonFile)
	if err != nil {
		return nil, errors.Wrap(err, "error reading JSON data")
	}
	return UnmarshalIntrinsics(data)
}
