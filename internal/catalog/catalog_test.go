package catalog_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fontsieve/internal/catalog"
	"fontsieve/internal/faults"
	"fontsieve/internal/unirange"
)

func TestResolveLatin(t *testing.T) {
	tokens := catalog.Default().Resolve([]string{"latin"})
	if len(tokens) == 0 {
		t.Fatal("expected latin to resolve to tokens")
	}
	if !slices.Contains(tokens, "U+0-FF") {
		t.Fatalf("expected U+0-FF in latin, got %v", tokens)
	}
}

func TestResolveUnknownIsEmpty(t *testing.T) {
	tokens := catalog.Default().Resolve([]string{"not-a-real-subset"})
	if len(tokens) != 0 {
		t.Fatalf("expected no tokens, got %v", tokens)
	}
}

func TestResolveTrimsNames(t *testing.T) {
	cat := catalog.Default()
	want := cat.Resolve([]string{"greek"})
	got := cat.Resolve([]string{"  greek\t"})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("trimmed lookup mismatch (-want +got):\n%s", diff)
	}
	if len(cat.Resolve([]string{"Greek"})) != 0 {
		t.Fatal("expected case-sensitive lookup")
	}
}

func TestResolveDuplicateNamesSameSelection(t *testing.T) {
	cat := catalog.Default()
	once, err := unirange.Parse(cat.Resolve([]string{"latin"}))
	if err != nil {
		t.Fatalf("parse latin: %v", err)
	}
	twice, err := unirange.Parse(cat.Resolve([]string{"latin", "latin"}))
	if err != nil {
		t.Fatalf("parse latin twice: %v", err)
	}
	if diff := cmp.Diff(once.Intervals(), twice.Intervals()); diff != "" {
		t.Fatalf("selection differs (-once +twice):\n%s", diff)
	}
	if diff := cmp.Diff(cat.Resolve([]string{"latin"}), cat.Resolve([]string{"latin", "latin"})); diff != "" {
		t.Fatalf("token lists differ (-once +twice):\n%s", diff)
	}
}

func TestResolveConcatenatesInRequestOrder(t *testing.T) {
	cat := catalog.Default()
	got := cat.Resolve([]string{"greek", "unknown", "greek-extended"})
	greek := cat.Resolve([]string{"greek"})
	want := append(slices.Clone(greek), "U+1F00-1FFF")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestGreekCarriesSharedPunctuation(t *testing.T) {
	cat := catalog.Default()
	for _, name := range []string{"greek", "greek-extended"} {
		set, err := unirange.Parse(cat.Resolve([]string{name}))
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		// space, digits, en dash, euro sign, replacement character
		for _, r := range []rune{' ', '0', 0x2013, 0x20AC, 0xFFFD} {
			if !set.Contains(r) {
				t.Fatalf("%s is missing U+%04X", name, r)
			}
		}
	}
}

func TestResolveSharedTokensAppearOnce(t *testing.T) {
	got := catalog.Default().Resolve([]string{"latin-extended", "vietnamese"})
	count := 0
	for _, token := range got {
		if token == "U+0323" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected U+0323 once, got %d times in %v", count, got)
	}
}

func TestAliases(t *testing.T) {
	cat := catalog.Default()
	for alias, target := range map[string]string{
		"latin-ext":    "latin-extended",
		"greek-ext":    "greek-extended",
		"cyrillic-ext": "cyrillic-extended",
	} {
		if diff := cmp.Diff(cat.Resolve([]string{target}), cat.Resolve([]string{alias})); diff != "" {
			t.Fatalf("alias %s mismatch (-target +alias):\n%s", alias, diff)
		}
		if !slices.Contains(cat.Aliases(target), alias) {
			t.Fatalf("expected %s listed as alias of %s", alias, target)
		}
	}
}

func TestNamesCoverRequiredSubsets(t *testing.T) {
	names := catalog.Default().Names()
	for _, want := range []string{"latin", "latin-extended", "greek", "greek-extended", "cyrillic", "cyrillic-extended", "vietnamese"} {
		if !slices.Contains(names, want) {
			t.Fatalf("expected %q in catalog names %v", want, names)
		}
	}
	if !slices.IsSorted(names) {
		t.Fatalf("expected sorted names, got %v", names)
	}
}

func TestBuiltinCatalogValidates(t *testing.T) {
	if err := catalog.Default().Validate(); err != nil {
		t.Fatalf("built-in catalog invalid: %v", err)
	}
}

func TestCustomEntriesOverride(t *testing.T) {
	cat := catalog.New(map[string][]string{
		"icons":     {"U+E000-E0FF"},
		"greek":     {"U+0391-03A9"},
		"latin-ext": {"U+0100-017F"},
	})
	if diff := cmp.Diff([]string{"U+E000-E0FF"}, cat.Resolve([]string{"icons"})); diff != "" {
		t.Fatalf("custom entry mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"U+0391-03A9"}, cat.Resolve([]string{"greek"})); diff != "" {
		t.Fatalf("override mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"U+0100-017F"}, cat.Resolve([]string{"latin-ext"})); diff != "" {
		t.Fatalf("alias override mismatch (-want +got):\n%s", diff)
	}
	if len(catalog.Default().Resolve([]string{"icons"})) != 0 {
		t.Fatal("custom entries must not leak into the default catalog")
	}
}

func TestValidateRejectsBadCustomEntry(t *testing.T) {
	cat := catalog.New(map[string][]string{"broken": {"U+41", "U+GG"}})
	err := cat.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestUnknown(t *testing.T) {
	got := catalog.Default().Unknown([]string{"latin", " klingon ", "", "latin-ext"})
	if diff := cmp.Diff([]string{"klingon"}, got); diff != "" {
		t.Fatalf("Unknown mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	cat := catalog.Default()
	tokens, ok := cat.Lookup("greek")
	if !ok {
		t.Fatal("expected greek")
	}
	tokens[0] = "U+41"
	again, _ := cat.Lookup("greek")
	if again[0] != "U+0-FF" {
		t.Fatalf("catalog mutated through Lookup result: %v", again)
	}
}
