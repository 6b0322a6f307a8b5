// Command yanglint compiles a YANG library into a schema tree and runs
// one operation against it: render the tree, emit the digest, resolve a
// path, or validate an instance document. Every error kind maps to a
// distinct exit code with a single-line diagnostic.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/yangkit/yangkit"
	yangerrors "github.com/yangkit/yangkit/errors"
	"github.com/yangkit/yangkit/schema"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// exitCodes gives each error kind a stable exit code.
var exitCodes = map[yangerrors.ErrorCode]int{
	yangerrors.ErrMalformedLibraryData:      3,
	yangerrors.ErrUnrecognizedLibraryFormat: 4,
	yangerrors.ErrModuleNotFound:            5,
	yangerrors.ErrModuleNotRegistered:       6,
	yangerrors.ErrDuplicateNode:             7,
	yangerrors.ErrAugmentTarget:             8,
	yangerrors.ErrTypeUnresolved:            9,
	yangerrors.ErrGroupingUnresolved:        10,
	yangerrors.ErrPathSyntax:                11,
	yangerrors.ErrPathResolution:            12,
	yangerrors.ErrInstanceValidation:        13,
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("yanglint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	libraryPath := fs.String("library", "", "path to YANG library descriptor (.json or .yaml)")
	modulesDir := fs.String("modules", "", "directory with pre-parsed module statement trees")
	datastore := fs.String("datastore", "config", "datastore view: config or operational")
	tree := fs.Bool("tree", false, "print the schema tree")
	noTypes := fs.Bool("no-types", false, "suppress leaf types in the tree output")
	digest := fs.Bool("digest", false, "print the schema digest")
	path := fs.String("path", "", "resolve a data path and print the node kind")
	validate := fs.String("validate", "", "validate a JSON instance document")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: yanglint --library <library.json> --modules <dir> [operation]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *libraryPath == "" || *modulesDir == "" {
		fmt.Fprintln(stderr, "error: --library and --modules are required")
		fs.Usage()
		return exitUsage
	}

	logger := newLogger(*debug)
	defer logger.Sync()

	code, err := runOperation(operation{
		libraryPath: *libraryPath,
		modulesDir:  *modulesDir,
		datastore:   *datastore,
		tree:        *tree,
		noTypes:     *noTypes,
		digest:      *digest,
		path:        *path,
		validate:    *validate,
	}, stdout, logger)
	if err != nil {
		fmt.Fprintf(stderr, "yanglint: %v\n", err)
	}
	return code
}

type operation struct {
	libraryPath string
	modulesDir  string
	datastore   string
	tree        bool
	noTypes     bool
	digest      bool
	path        string
	validate    string
}

func runOperation(op operation, stdout io.Writer, logger *zap.Logger) (int, error) {
	dm, err := loadDataModel(op.libraryPath, op.modulesDir, logger)
	if err != nil {
		return exitCode(err), err
	}
	ds, ok := dm.Datastore(op.datastore)
	if !ok {
		return exitUsage, fmt.Errorf("unknown datastore %q (have %s)", op.datastore, strings.Join(dm.Datastores(), ", "))
	}
	logger.Debug("data model compiled",
		zap.String("content-id", dm.ContentID()),
		zap.Int("modules", len(dm.Library().Modules)))

	switch {
	case op.tree:
		fmt.Fprint(stdout, ds.AsciiTree(op.noTypes))
	case op.digest:
		doc, err := ds.Digest()
		if err != nil {
			return exitError, err
		}
		fmt.Fprintln(stdout, string(doc))
	case op.path != "":
		node, err := ds.DataNode(op.path)
		if err != nil {
			return exitCode(err), err
		}
		if node == nil {
			fmt.Fprintln(stdout, "absent")
			return exitOK, nil
		}
		fmt.Fprintf(stdout, "%s %s\n", node.Kind, node.Path())
	case op.validate != "":
		if err := validateInstance(ds, op.validate, logger); err != nil {
			return exitCode(err), err
		}
		fmt.Fprintln(stdout, "valid")
	default:
		fmt.Fprint(stdout, ds.AsciiTree(op.noTypes))
	}
	return exitOK, nil
}

func loadDataModel(libraryPath, modulesDir string, logger *zap.Logger) (*yangkit.DataModel, error) {
	text, err := os.ReadFile(libraryPath)
	if err != nil {
		return nil, err
	}
	var lib *yangkit.Library
	if isYAML(libraryPath) {
		lib, err = yangkit.ParseLibraryYAML(text)
	} else {
		lib, err = yangkit.ParseLibrary(text)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("library parsed",
		zap.String("path", libraryPath),
		zap.Int("modules", len(lib.Modules)))
	provider := yangkit.ModuleProviderFunc(func(name, revision string) (*schema.Statement, error) {
		return loadStatement(modulesDir, name)
	})
	return yangkit.NewFromLibrary(lib, provider)
}

// statementDoc is the on-disk form of a pre-parsed statement tree.
type statementDoc struct {
	Keyword       string         `json:"keyword" yaml:"keyword"`
	Argument      string         `json:"argument" yaml:"argument"`
	Substatements []statementDoc `json:"substatements" yaml:"substatements"`
}

func (d statementDoc) toStatement() *schema.Statement {
	out := &schema.Statement{Keyword: d.Keyword, Argument: d.Argument}
	for _, sub := range d.Substatements {
		out.Substatements = append(out.Substatements, sub.toStatement())
	}
	return out
}

func loadStatement(dir, module string) (*schema.Statement, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(dir, module+ext)
		text, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var doc statementDoc
		if isYAML(path) {
			err = yaml.Unmarshal(text, &doc)
		} else {
			err = json.Unmarshal(text, &doc)
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return doc.toStatement(), nil
	}
	return nil, fmt.Errorf("no statement tree for module %q in %s", module, dir)
}

func validateInstance(ds *yangkit.Datastore, path string, logger *zap.Logger) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(text, &raw); err != nil {
		return yangerrors.New(yangerrors.ErrInstanceValidation, "invalid instance document: %v", err)
	}
	root, err := ds.FromRaw(raw)
	if err != nil {
		return err
	}
	logger.Debug("instance built", zap.Time("timestamp", root.Timestamp()))
	return nil
}

func isYAML(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func exitCode(err error) int {
	if code, ok := exitCodes[yangerrors.CodeOf(err)]; ok {
		return code
	}
	return exitError
}

func newLogger(debug bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
