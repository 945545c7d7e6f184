package colors

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTableResolvesKnownNames(t *testing.T) {
	cm, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	rgb := cm.Lookup("minecraft:grass_block")
	if rgb == cm.Fallback {
		t.Error("grass_block resolved to the fallback color, expected a table entry")
	}
}

func TestUnknownNameResolvesToFallback(t *testing.T) {
	cm, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if got := cm.Lookup("minecraft:totally_unknown_block"); got != cm.Fallback {
		t.Errorf("Lookup(unknown) = %+v, want fallback %+v", got, cm.Fallback)
	}
}

func TestLoadFromExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.yaml")
	contents := "minecraft:custom: {r: 10, g: 20, b: 30}\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cm, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q): %v", path, err)
	}
	got := cm.Lookup("minecraft:custom")
	if got.R != 10 || got.G != 20 || got.B != 30 {
		t.Errorf("Lookup(custom) = %+v, want RGB(10,20,30)", got)
	}
}

func TestLoadMissingExplicitPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error loading a nonexistent color table path")
	}
}

func TestLoadInvalidYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("not: [valid: yaml: at: all"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error loading malformed YAML")
	}
}

func TestResolveNeededCoversOnlyRequestedNames(t *testing.T) {
	cm, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	resolved := cm.ResolveNeeded([]string{"minecraft:stone", "minecraft:unknown"})
	if len(resolved) != 2 {
		t.Fatalf("ResolveNeeded returned %d entries, want 2", len(resolved))
	}
	if resolved["minecraft:unknown"] != cm.Fallback {
		t.Errorf("ResolveNeeded(unknown) = %+v, want fallback", resolved["minecraft:unknown"])
	}
}
