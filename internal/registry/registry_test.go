package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-match3/internal/core"
)

type stubGame struct{ id string }

func (g *stubGame) ID() string                          { return g.id }
func (g *stubGame) Title() string                       { return "Stub " + g.id }
func (g *stubGame) Reset(core.RuntimeConfig)            {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                 {}
func (g *stubGame) State() core.GameState               { return core.GameState{} }

func register(r *Registry, ids ...string) {
	for _, id := range ids {
		r.Register(id, func() Game { return &stubGame{id: id} })
	}
}

func TestRegisterAndCreate(t *testing.T) {
	r := New()
	register(r, "stub_b", "stub_a", "stub_c")

	if !r.Exists("stub_a") || r.Exists("stub_z") {
		t.Fatal("Exists() disagrees with Register()")
	}

	g, err := r.Create("stub_a")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if g.ID() != "stub_a" {
		t.Errorf("ID() = %q", g.ID())
	}
	if other, _ := r.Create("stub_a"); other == g {
		t.Error("Create() returned the same instance twice")
	}
	if r.Title("stub_b") != "Stub stub_b" {
		t.Errorf("Title() = %q", r.Title("stub_b"))
	}

	var ids []string
	for _, info := range r.List() {
		ids = append(ids, info.ID)
	}
	if strings.Join(ids, ",") != "stub_a,stub_b,stub_c" {
		t.Errorf("List() = %v, want sorted IDs", ids)
	}
}

func TestCreateUnknown(t *testing.T) {
	r := New()
	if _, err := r.Create("nope"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("err = %v, want ErrUnknownGame", err)
	}
	if r.Title("nope") != "nope" {
		t.Error("unknown IDs should fall back to the ID")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := New()
	register(r, "stub_dup")

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	register(r, "stub_dup")
}

func TestDefaultRegistry(t *testing.T) {
	Register("stub_default", func() Game { return &stubGame{id: "stub_default"} })

	if !Exists("stub_default") || Title("stub_default") != "Stub stub_default" {
		t.Error("package functions do not reach Default")
	}
	if _, err := Create("stub_default"); err != nil {
		t.Errorf("Create() failed: %v", err)
	}
	if len(List()) != len(Default.List()) {
		t.Error("List() differs from Default.List()")
	}
}
