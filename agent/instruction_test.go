package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/relayworks/agentrelay/core"
)

func TestInstruction_Static(t *testing.T) {
	in := NewInstructionFromText("You answer billing questions.")
	if !in.IsStatic() {
		t.Fatal("text instruction should be static")
	}
	got, err := in.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != "You answer billing questions." {
		t.Fatalf("unexpected instruction: %q", got)
	}
}

func TestInstruction_Func(t *testing.T) {
	in := NewInstructionFromFunc(func(rc *core.RunContext) (string, error) {
		tenant := rc.UserContext.(string)
		return "You serve tenant " + tenant + ".", nil
	})
	if in.IsStatic() {
		t.Fatal("func instruction should be dynamic")
	}

	rc := core.NewRunContext(context.Background(), nil, "acme", 10, nil, nil)
	got, err := in.Resolve(rc)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != "You serve tenant acme." {
		t.Fatalf("unexpected instruction: %q", got)
	}
}

func TestInstruction_ProviderError(t *testing.T) {
	wantErr := errors.New("context store unavailable")
	in := NewInstructionFromFunc(func(*core.RunContext) (string, error) {
		return "", wantErr
	})

	_, err := in.Resolve(nil)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected provider error, got %v", err)
	}
}
