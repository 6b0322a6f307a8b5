package schema

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/yangkit/yangkit/errors"
)

func asError(err error, target **errors.Error) bool {
	return stderrors.As(err, target)
}

func containsString(s, sub string) bool {
	return strings.Contains(s, sub)
}

// stmt builds a statement tree literal for tests.
func stmt(keyword, argument string, subs ...*Statement) *Statement {
	return &Statement{Keyword: keyword, Argument: argument, Substatements: subs}
}

// sysModule is a small system-management module exercising containers,
// lists, leaf-lists, choices (with a shorthand case), groupings,
// typedefs and state data.
func sysModule() Module {
	return Module{
		Name:      "sys",
		Namespace: "urn:example:sys",
		Statement: stmt("module", "sys",
			stmt("namespace", "urn:example:sys"),
			stmt("prefix", "sys"),
			stmt("typedef", "percent",
				stmt("type", "uint8"),
			),
			stmt("typedef", "port-number",
				stmt("type", "uint16"),
			),
			stmt("grouping", "endpoint",
				stmt("leaf", "address",
					stmt("type", "string"),
				),
				stmt("leaf", "port",
					stmt("type", "port-number"),
				),
			),
			stmt("container", "system",
				stmt("leaf", "hostname",
					stmt("type", "string"),
					stmt("mandatory", "true"),
				),
				stmt("leaf", "load",
					stmt("type", "percent"),
				),
				stmt("leaf-list", "ntp-server",
					stmt("type", "string"),
					stmt("ordered-by", "user"),
				),
				stmt("list", "user",
					stmt("key", "name"),
					stmt("leaf", "name",
						stmt("type", "string"),
					),
					stmt("leaf", "uid",
						stmt("type", "int32"),
					),
				),
				stmt("choice", "transport",
					stmt("case", "tls",
						stmt("leaf", "tls-port",
							stmt("type", "port-number"),
						),
					),
					stmt("leaf", "tcp-port",
						stmt("type", "port-number"),
					),
				),
				stmt("leaf", "uptime",
					stmt("type", "string"),
					stmt("config", "false"),
				),
			),
			stmt("container", "server",
				stmt("uses", "endpoint"),
			),
		),
	}
}

// extModule augments sys with a location leaf and a dns container.
func extModule() Module {
	return Module{
		Name:      "ext",
		Namespace: "urn:example:ext",
		Statement: stmt("module", "ext",
			stmt("namespace", "urn:example:ext"),
			stmt("prefix", "ext"),
			stmt("import", "sys",
				stmt("prefix", "sys"),
			),
			stmt("augment", "/sys:system",
				stmt("leaf", "location",
					stmt("type", "string"),
				),
				stmt("container", "dns",
					stmt("leaf-list", "search",
						stmt("type", "string"),
					),
				),
			),
		),
	}
}

func buildFixture(t *testing.T, modules ...Module) *Tree {
	t.Helper()
	ordered, err := SortModules(modules)
	if err != nil {
		t.Fatalf("SortModules() error = %v", err)
	}
	tree, err := Build(ordered, BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return tree
}

func mustDataRoute(t *testing.T, path string) Route {
	t.Helper()
	route, err := DataRoute(path)
	if err != nil {
		t.Fatalf("DataRoute(%q) error = %v", path, err)
	}
	return route
}
