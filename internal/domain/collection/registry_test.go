package collection

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sgrust01/json-surf/internal/domain"
	"github.com/sgrust01/json-surf/internal/domain/collection/field"
)

func TestRegistry_Defaults(t *testing.T) {
	r := NewRegistry()
	if r.Home() != domain.DefaultHome {
		t.Errorf("Home() = %q, want %q", r.Home(), domain.DefaultHome)
	}
	if len(r.Names()) != 0 {
		t.Errorf("Names() = %v, want empty", r.Names())
	}
}

func TestRegistry_RegisterOrderAndPath(t *testing.T) {
	r := NewRegistry()
	if err := r.SetHome("data"); err != nil {
		t.Fatalf("SetHome: %v", err)
	}
	s := Reconstruct([]field.Field{makeText(t, "name")})

	for _, name := range []string{"users", "books", "users"} {
		if err := r.Register(name, s); err != nil {
			t.Fatalf("Register(%q): %v", name, err)
		}
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "users" || names[1] != "books" {
		t.Errorf("Names() = %v, want [users books]", names)
	}
	if got := r.Path("books"); got != filepath.Join("data", "books") {
		t.Errorf("Path(books) = %q", got)
	}
	if _, ok := r.Schema("books"); !ok {
		t.Error("Schema(books) not found")
	}
	if _, ok := r.Schema("missing"); ok {
		t.Error("Schema(missing) found")
	}
}

func TestRegistry_RejectsEmptySchema(t *testing.T) {
	r := NewRegistry()
	err := r.Register("empty", Reconstruct(nil))
	if !errors.Is(err, domain.ErrSchema) {
		t.Fatalf("error = %v, want ErrSchema", err)
	}
	if err := r.Register("nil", nil); err == nil {
		t.Fatal("expected error for nil schema")
	}
}

func TestRegistry_RejectsBadName(t *testing.T) {
	r := NewRegistry()
	err := r.Register("../escape", Reconstruct([]field.Field{makeText(t, "x")}))
	if !errors.Is(err, domain.ErrSchema) {
		t.Fatalf("error = %v, want ErrSchema", err)
	}
}

func TestRegistry_ConsumedOnce(t *testing.T) {
	r := NewRegistry()
	if err := r.Consume(); err != nil {
		t.Fatalf("first Consume: %v", err)
	}
	if err := r.Consume(); !errors.Is(err, ErrRegistryConsumed) {
		t.Errorf("second Consume = %v, want ErrRegistryConsumed", err)
	}
	if err := r.Register("late", Reconstruct([]field.Field{makeText(t, "x")})); !errors.Is(err, ErrRegistryConsumed) {
		t.Errorf("Register after Consume = %v, want ErrRegistryConsumed", err)
	}
	if err := r.SetHome("x"); !errors.Is(err, ErrRegistryConsumed) {
		t.Errorf("SetHome after Consume = %v, want ErrRegistryConsumed", err)
	}
}

func TestRegistry_String(t *testing.T) {
	r := NewRegistry()
	_ = r.SetHome("h")
	_ = r.Register("people", Reconstruct([]field.Field{makeText(t, "name")}))

	out := r.String()
	for _, want := range []string{"Home: h", "Index: people", "Name: name Type: text"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() = %q, missing %q", out, want)
		}
	}
}
