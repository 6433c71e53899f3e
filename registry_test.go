package picture

import (
	"errors"
	"slices"
	"testing"
)

func TestRegisterAndNewBackend(t *testing.T) {
	defer Unregister("trace-test")

	Register("trace-test", func() Backend { return &traceBackend{} })

	backend, err := NewBackend("trace-test")
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	if _, ok := backend.(*traceBackend); !ok {
		t.Fatalf("backend is %T, want *traceBackend", backend)
	}
	if !IsRegistered("trace-test") {
		t.Error("IsRegistered() = false after Register")
	}
	if !slices.Contains(Backends(), "trace-test") {
		t.Errorf("Backends() = %v, missing trace-test", Backends())
	}

	// Each call returns a fresh instance.
	other := MustBackend("trace-test")
	if other == backend {
		t.Error("NewBackend returned the same instance twice")
	}
}

func TestNewBackendUnknown(t *testing.T) {
	_, err := NewBackend("nonexistent")
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("NewBackend() error = %v, want ErrUnknownBackend", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("MustBackend did not panic for unknown backend")
		}
	}()
	MustBackend("nonexistent")
}

func TestRegisterPanics(t *testing.T) {
	defer Unregister("dup-test")
	Register("dup-test", func() Backend { return &traceBackend{} })

	tests := []struct {
		name    string
		factory BackendFactory
	}{
		{"dup-test", func() Backend { return &traceBackend{} }},
		{"nil-test", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Register(%q) did not panic", tt.name)
				}
			}()
			Register(tt.name, tt.factory)
		})
	}
}

func TestBackendsSorted(t *testing.T) {
	for _, name := range []string{"zz-test", "aa-test", "mm-test"} {
		Register(name, func() Backend { return &traceBackend{} })
		defer Unregister(name)
	}
	names := Backends()
	if !slices.IsSorted(names) {
		t.Errorf("Backends() = %v, not sorted", names)
	}
}

func TestUnregister(t *testing.T) {
	Register("gone-test", func() Backend { return &traceBackend{} })
	Unregister("gone-test")
	if IsRegistered("gone-test") {
		t.Error("IsRegistered() = true after Unregister")
	}
	Unregister("never-registered")
}
