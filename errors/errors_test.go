package errors

import (
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "code and message",
			err:  New(ErrDuplicateNode, "node %q already defined", "interfaces"),
			want: `[duplicate-node] node "interfaces" already defined`,
		},
		{
			name: "module context",
			err:  New(ErrAugmentTarget, "target does not exist").WithModule("example-ext").WithPath("/example:top/missing"),
			want: "[augment-target] target does not exist in module example-ext at /example:top/missing",
		},
		{
			name: "offset context",
			err:  NewAt(ErrPathSyntax, 7, "expected identifier"),
			want: "[path-syntax] expected identifier (offset 7)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	err := fmt.Errorf("build: %w", New(ErrTypeUnresolved, "no such type"))
	if got := CodeOf(err); got != ErrTypeUnresolved {
		t.Fatalf("CodeOf() = %q, want %q", got, ErrTypeUnresolved)
	}
	if CodeOf(fmt.Errorf("plain")) != "" {
		t.Fatalf("CodeOf(plain) should be empty")
	}
	if !HasCode(err, ErrTypeUnresolved) {
		t.Fatalf("HasCode() = false, want true")
	}
	if HasCode(err, ErrPathSyntax) {
		t.Fatalf("HasCode(wrong code) = true, want false")
	}
}
