package safety

import "testing"

func TestNewLibrary_CategoryOrder(t *testing.T) {
	lib := NewLibrary()

	want := []string{
		CategoryDestructive,
		CategoryPrivilegeEscalation,
		CategoryNetworkDangerous,
		CategorySystemModification,
		CategoryCredentialExposure,
	}

	cats := lib.Categories()
	if len(cats) != len(want) {
		t.Fatalf("len(Categories) = %d, want %d", len(cats), len(want))
	}
	for i, cat := range cats {
		if cat.Name != want[i] {
			t.Errorf("Categories[%d].Name = %q, want %q", i, cat.Name, want[i])
		}
		if len(cat.Patterns) == 0 {
			t.Errorf("category %q has no patterns", cat.Name)
		}
		for _, p := range cat.Patterns {
			if p.Compiled == nil {
				t.Errorf("pattern %q in %q not compiled", p.Raw, cat.Name)
			}
		}
	}
}

func TestNewLibrary_Tables(t *testing.T) {
	lib := NewLibrary()

	if len(lib.CriticalPaths()) == 0 {
		t.Fatalf("critical path set is empty")
	}

	flagCommands := map[string]bool{}
	for _, rule := range lib.RiskyFlags() {
		flagCommands[rule.Command] = true
		if len(rule.Flags) == 0 {
			t.Errorf("flag rule for %q has no flags", rule.Command)
		}
	}
	for _, cmd := range []string{"rm", "chmod", "dd", "curl", "wget", "find"} {
		if !flagCommands[cmd] {
			t.Errorf("risky flag table missing base command %q", cmd)
		}
	}
}
