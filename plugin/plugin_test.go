package plugin

import (
	"context"
	"testing"
)

// echoPlugin embeds Base and only overrides identity.
type echoPlugin struct {
	Base
}

func (p *echoPlugin) Name() string    { return "echo" }
func (p *echoPlugin) Version() string { return "0.0.1" }

func TestBaseImplementsOptionalContract(t *testing.T) {
	var _ Plugin = &echoPlugin{}
}

func TestBaseHooksAreIdentity(t *testing.T) {
	p := &echoPlugin{}
	in := Record{"message": "hi"}

	for _, h := range Hooks() {
		out, err := Invoke(context.Background(), p, h, in)
		if err != nil {
			t.Fatalf("hook %s: unexpected error %v", h, err)
		}
		if len(out) != 1 || out["message"] != "hi" {
			t.Errorf("hook %s: record was modified: %v", h, out)
		}
	}
}

func TestBaseConfigLazilyCreated(t *testing.T) {
	p := &echoPlugin{}
	cfg := p.Config()
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if !cfg.Enabled {
		t.Error("expected default config to be enabled")
	}
	if p.Config() != cfg {
		t.Error("expected Config to return the same instance")
	}
}

func TestNewBaseNilConfig(t *testing.T) {
	b := NewBase(nil)
	if b.Config() == nil || !b.Config().Enabled {
		t.Fatal("expected default config")
	}
}

func TestBaseLifecycleNoOp(t *testing.T) {
	p := &echoPlugin{}
	if err := p.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
