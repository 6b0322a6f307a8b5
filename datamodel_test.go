package yangkit

import (
	stderrors "errors"
	"strings"
	"sync"
	"testing"

	"github.com/yangkit/yangkit/errors"
	"github.com/yangkit/yangkit/schema"
)

func stmt(keyword, argument string, subs ...*schema.Statement) *schema.Statement {
	return &schema.Statement{Keyword: keyword, Argument: argument, Substatements: subs}
}

// fixtureProvider serves the statement trees of the two library modules:
// sys with a system container, ext augmenting it.
func fixtureProvider() ModuleProvider {
	statements := map[string]*schema.Statement{
		"sys": stmt("module", "sys",
			stmt("container", "system",
				stmt("leaf", "hostname",
					stmt("type", "string"),
					stmt("mandatory", "true"),
				),
				stmt("list", "user",
					stmt("key", "name"),
					stmt("leaf", "name", stmt("type", "string")),
				),
				stmt("leaf", "uptime",
					stmt("type", "string"),
					stmt("config", "false"),
				),
			),
		),
		"ext": stmt("module", "ext",
			stmt("import", "sys", stmt("prefix", "sys")),
			stmt("augment", "/sys:system",
				stmt("leaf", "location", stmt("type", "string")),
			),
		),
	}
	return ModuleProviderFunc(func(name, revision string) (*schema.Statement, error) {
		s, ok := statements[name]
		if !ok {
			return nil, stderrors.New("no such module")
		}
		return s, nil
	})
}

func buildModel(t *testing.T, opts ...Option) *DataModel {
	t.Helper()
	dm, err := New([]byte(libraryJSON), fixtureProvider(), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return dm
}

func TestNew(t *testing.T) {
	dm := buildModel(t, WithDescription("lab model"))
	if dm.Description() != "lab model" {
		t.Fatalf("Description() = %q, want lab model", dm.Description())
	}
	want := []string{"config", "operational"}
	got := dm.Datastores()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Datastores() = %v, want %v", got, want)
	}
	if _, ok := dm.Datastore("running"); ok {
		t.Fatalf("Datastore(running) exists")
	}
	config, _ := dm.Datastore("config")
	operational, _ := dm.Datastore("operational")
	if config.Schema() != operational.Schema() {
		t.Fatalf("datastores do not share one schema tree")
	}
}

func TestNewModuleNotFound(t *testing.T) {
	text := strings.Replace(libraryJSON, `"name": "ext"`, `"name": "missing"`, 1)
	_, err := New([]byte(text), fixtureProvider())
	if !errors.HasCode(err, errors.ErrModuleNotFound) {
		t.Fatalf("New() error = %v, want %s", err, errors.ErrModuleNotFound)
	}
}

func TestNewMalformedLibrary(t *testing.T) {
	_, err := New([]byte("not json"), fixtureProvider())
	if !errors.HasCode(err, errors.ErrMalformedLibraryData) {
		t.Fatalf("New() error = %v, want %s", err, errors.ErrMalformedLibraryData)
	}
}

func TestDatastoreContentFilter(t *testing.T) {
	dm := buildModel(t)
	config, _ := dm.Datastore("config")
	operational, _ := dm.Datastore("operational")

	// The state leaf exists only in the operational view.
	node, err := operational.DataNode("/sys:system/uptime")
	if err != nil || node == nil {
		t.Fatalf("operational DataNode(uptime) = %v, %v", node, err)
	}
	node, err = config.DataNode("/sys:system/uptime")
	if err != nil {
		t.Fatalf("config DataNode(uptime) error = %v", err)
	}
	if node != nil {
		t.Fatalf("config DataNode(uptime) = %v, want nil", node)
	}
}

func TestDatastoreSchemaNode(t *testing.T) {
	dm := buildModel(t)
	ds, _ := dm.Datastore("config")

	node, err := ds.SchemaNode("/sys:system/sys:hostname")
	if err != nil || node == nil || node.Kind != schema.KindLeaf {
		t.Fatalf("SchemaNode(hostname) = %v, %v", node, err)
	}
	node, err = ds.SchemaNode("/sys:system/sys:bogus")
	if err != nil || node != nil {
		t.Fatalf("SchemaNode(bogus) = %v, %v, want nil without error", node, err)
	}
	_, err = ds.SchemaNode("/nope:system")
	if !errors.HasCode(err, errors.ErrModuleNotRegistered) {
		t.Fatalf("SchemaNode(nope:system) error = %v, want %s", err, errors.ErrModuleNotRegistered)
	}
}

func TestDatastoreFromRaw(t *testing.T) {
	dm := buildModel(t)
	ds, _ := dm.Datastore("config")
	root, err := ds.FromRaw(map[string]interface{}{
		"sys:system": map[string]interface{}{
			"hostname":     "router1",
			"ext:location": "rack 4",
			"user": []interface{}{
				map[string]interface{}{"name": "alice"},
			},
		},
	})
	if err != nil {
		t.Fatalf("FromRaw() error = %v", err)
	}
	v, ok, err := root.Find("/sys:system/user[name='bob']")
	if err != nil || ok || v != nil {
		t.Fatalf("Find(user bob) = %v, %v, %v, want absent", v, ok, err)
	}
	v, ok, err = root.Find("/sys:system/ext:location")
	if err != nil || !ok || v.AsString() != "rack 4" {
		t.Fatalf("Find(location) = %v, %v, %v", v, ok, err)
	}
}

func TestDatastoreDigest(t *testing.T) {
	dm := buildModel(t)
	for _, name := range dm.Datastores() {
		ds, _ := dm.Datastore(name)
		text, err := ds.Digest()
		if err != nil {
			t.Fatalf("Digest(%s) error = %v", name, err)
		}
		if !strings.Contains(string(text), `"config":true`) {
			t.Fatalf("Digest(%s) = %s, want config true", name, text)
		}
		if !strings.Contains(string(text), `"sys:system"`) {
			t.Fatalf("Digest(%s) lacks sys:system: %s", name, text)
		}
	}
}

func TestContentID(t *testing.T) {
	first := buildModel(t).ContentID()
	second := buildModel(t).ContentID()
	if first != second {
		t.Fatalf("ContentID() unstable: %q vs %q", first, second)
	}
	if len(first) != 40 {
		t.Fatalf("ContentID() = %q, want 40 hex chars", first)
	}

	// Module order in the descriptor must not change the id.
	lib, err := ParseLibrary([]byte(libraryJSON))
	if err != nil {
		t.Fatalf("ParseLibrary() error = %v", err)
	}
	lib.Modules[0], lib.Modules[1] = lib.Modules[1], lib.Modules[0]
	dm, err := NewFromLibrary(lib, fixtureProvider())
	if err != nil {
		t.Fatalf("NewFromLibrary() error = %v", err)
	}
	if dm.ContentID() != first {
		t.Fatalf("ContentID() depends on module order")
	}
}

func TestDataModelConcurrentUse(t *testing.T) {
	dm := buildModel(t)
	raw := map[string]interface{}{
		"sys:system": map[string]interface{}{
			"hostname": "router1",
		},
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				for _, name := range dm.Datastores() {
					ds, _ := dm.Datastore(name)
					if _, err := ds.FromRaw(raw); err != nil {
						t.Errorf("FromRaw() error = %v", err)
						return
					}
					if _, err := ds.SchemaNode("/sys:system/sys:hostname"); err != nil {
						t.Errorf("SchemaNode() error = %v", err)
						return
					}
					if _, _, err := ds.ParseResourceID("/sys:system/user"); err != nil {
						t.Errorf("ParseResourceID() error = %v", err)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
