package yangkit

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/yangkit/yangkit/errors"
)

// libraryMarker is the top-level member identifying RFC 7895 YANG
// library data.
const libraryMarker = "ietf-yang-library:modules-state"

// Library is the parsed YANG library descriptor: the module set a data
// model is compiled from.
type Library struct {
	ModuleSetID string          `json:"module-set-id"`
	Modules     []LibraryModule `json:"module"`
}

// LibraryModule describes one module of the library.
type LibraryModule struct {
	Name            string      `json:"name"`
	Revision        string      `json:"revision"`
	Namespace       string      `json:"namespace"`
	Features        []string    `json:"feature,omitempty"`
	Deviations      []ModuleRef `json:"deviation,omitempty"`
	Submodules      []ModuleRef `json:"submodule,omitempty"`
	ConformanceType string      `json:"conformance-type"`
}

// ModuleRef names a related module with its revision.
type ModuleRef struct {
	Name     string `json:"name"`
	Revision string `json:"revision"`
}

// ParseLibrary parses a JSON-encoded YANG library descriptor. Invalid
// JSON and a wrong top-level member are distinct errors.
func ParseLibrary(text []byte) (*Library, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(text, &doc); err != nil {
		return nil, errors.New(errors.ErrMalformedLibraryData, "invalid library data: %v", err)
	}
	state, ok := doc[libraryMarker]
	if !ok {
		return nil, errors.New(errors.ErrUnrecognizedLibraryFormat, "top-level member not recognized")
	}
	var lib Library
	if err := json.Unmarshal(state, &lib); err != nil {
		return nil, errors.New(errors.ErrMalformedLibraryData, "invalid library data: %v", err)
	}
	return &lib, nil
}

// ParseLibraryYAML parses a YAML-encoded descriptor by converting it to
// JSON first, so both encodings share one shape contract.
func ParseLibraryYAML(text []byte) (*Library, error) {
	var doc interface{}
	if err := yaml.Unmarshal(text, &doc); err != nil {
		return nil, errors.New(errors.ErrMalformedLibraryData, "invalid library data: %v", err)
	}
	converted, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.New(errors.ErrMalformedLibraryData, "invalid library data: %v", err)
	}
	return ParseLibrary(converted)
}
