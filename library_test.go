package yangkit

import (
	"testing"

	"github.com/yangkit/yangkit/errors"
)

const libraryJSON = `{
  "ietf-yang-library:modules-state": {
    "module-set-id": "b0e1",
    "module": [
      {
        "name": "sys",
        "revision": "2026-01-15",
        "namespace": "urn:example:sys",
        "conformance-type": "implement"
      },
      {
        "name": "ext",
        "revision": "2026-02-01",
        "namespace": "urn:example:ext",
        "conformance-type": "implement"
      }
    ]
  }
}`

func TestParseLibrary(t *testing.T) {
	lib, err := ParseLibrary([]byte(libraryJSON))
	if err != nil {
		t.Fatalf("ParseLibrary() error = %v", err)
	}
	if lib.ModuleSetID != "b0e1" {
		t.Fatalf("ModuleSetID = %q, want b0e1", lib.ModuleSetID)
	}
	if len(lib.Modules) != 2 {
		t.Fatalf("len(Modules) = %d, want 2", len(lib.Modules))
	}
	if lib.Modules[0].Name != "sys" || lib.Modules[0].Namespace != "urn:example:sys" {
		t.Fatalf("Modules[0] = %+v", lib.Modules[0])
	}
}

func TestParseLibraryMalformed(t *testing.T) {
	_, err := ParseLibrary([]byte(`{"ietf-yang-library:modules-state": [}`))
	if !errors.HasCode(err, errors.ErrMalformedLibraryData) {
		t.Fatalf("ParseLibrary() error = %v, want %s", err, errors.ErrMalformedLibraryData)
	}
}

func TestParseLibraryUnrecognized(t *testing.T) {
	_, err := ParseLibrary([]byte(`{"some-other:data": {}}`))
	if !errors.HasCode(err, errors.ErrUnrecognizedLibraryFormat) {
		t.Fatalf("ParseLibrary() error = %v, want %s", err, errors.ErrUnrecognizedLibraryFormat)
	}
}

func TestParseLibraryYAML(t *testing.T) {
	text := `
ietf-yang-library:modules-state:
  module-set-id: b0e1
  module:
    - name: sys
      revision: "2026-01-15"
      namespace: urn:example:sys
      conformance-type: implement
`
	lib, err := ParseLibraryYAML([]byte(text))
	if err != nil {
		t.Fatalf("ParseLibraryYAML() error = %v", err)
	}
	if len(lib.Modules) != 1 || lib.Modules[0].Name != "sys" {
		t.Fatalf("Modules = %+v, want one sys entry", lib.Modules)
	}
}

func TestParseLibraryYAMLMalformed(t *testing.T) {
	_, err := ParseLibraryYAML([]byte(":\n  - ["))
	if !errors.HasCode(err, errors.ErrMalformedLibraryData) {
		t.Fatalf("ParseLibraryYAML() error = %v, want %s", err, errors.ErrMalformedLibraryData)
	}
}
