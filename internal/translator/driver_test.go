package translator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeProvider prefixes text with the target language so tests can tell
// machine output from hand translations.
type fakeProvider struct {
	mu          sync.Mutex
	calls       []string
	failLang    string
	inflight    int
	maxInflight int
}

func (f *fakeProvider) Translate(_ context.Context, text, lang string) (string, error) {
	f.mu.Lock()
	f.inflight++
	if f.inflight > f.maxInflight {
		f.maxInflight = f.inflight
	}
	f.mu.Unlock()
	time.Sleep(time.Millisecond)
	defer func() {
		f.mu.Lock()
		f.inflight--
		f.mu.Unlock()
	}()

	if lang == f.failLang {
		return "", errors.New("provider unavailable")
	}
	f.mu.Lock()
	f.calls = append(f.calls, lang+":"+text)
	f.mu.Unlock()
	return "[" + lang + "] " + text, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func readTree(t *testing.T, path string) *Tree {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	tree, err := ParseTree(data)
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", path, err)
	}
	return tree
}

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func leafString(t *testing.T, tree *Tree, path string) string {
	t.Helper()
	var v any = tree
	for _, key := range strings.Split(path, ".") {
		sub, ok := v.(*Tree)
		if !ok {
			t.Fatalf("Expected tree at %s, got %T", path, v)
		}
		v, ok = sub.Get(key)
		if !ok {
			t.Fatalf("Expected key %s in %v", path, tree.Keys())
		}
	}
	s, ok := v.(string)
	if !ok {
		t.Fatalf("Expected string at %s, got %T", path, v)
	}
	return s
}

func TestDriverFillsGaps(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "i18n", "en", "common.json"),
		"{\n  \"Title\": \"Hello\",\n  \"Nested\": {\n    \"Sub\": \"World\"\n  }\n}\n")
	writeFile(t, filepath.Join(root, "i18n", "fr", "common.json"),
		"{\n  \"Title\": \"Bonjour\"\n}\n")

	provider := &fakeProvider{}
	cfg := RunConfig{
		Root:       root,
		Languages:  []string{"fr", "de"},
		References: []Reference{{Path: "i18n/en"}},
	}
	res := NewDriver(cfg, provider, zerolog.Nop()).Run(context.Background())

	if res.Failures != 0 || res.HasFailures() {
		t.Fatalf("Expected clean run, got %d failures, %d skipped", res.Failures, len(res.Skipped))
	}
	if res.Written != 2 {
		t.Errorf("Expected 2 files written, got %d", res.Written)
	}
	if res.Leaves != 3 {
		t.Errorf("Expected 3 translated leaves, got %d", res.Leaves)
	}
	if len(res.Outcomes) != 2 {
		t.Fatalf("Expected 2 outcomes, got %d", len(res.Outcomes))
	}

	fr := readTree(t, filepath.Join(root, "i18n", "fr", "common.json"))
	if got := leafString(t, fr, "Title"); got != "Bonjour" {
		t.Errorf("Expected existing translation kept, got %q", got)
	}
	if got := leafString(t, fr, "Nested.Sub"); got != "[fr] World" {
		t.Errorf("Expected missing branch translated, got %q", got)
	}

	// The de layout did not exist at all; directory and file are created
	// and fully translated, in base key order.
	want := "{\n  \"Title\": \"[de] Hello\",\n  \"Nested\": {\n    \"Sub\": \"[de] World\"\n  }\n}\n"
	if got := readString(t, filepath.Join(root, "i18n", "de", "common.json")); got != want {
		t.Errorf("Unexpected de file.\nwant:\n%s\ngot:\n%s", want, got)
	}

	for _, o := range res.Outcomes {
		switch o.Language {
		case "de":
			if !o.Created {
				t.Error("Expected de outcome to be marked created")
			}
		case "fr":
			if o.Created {
				t.Error("Expected fr outcome not to be marked created")
			}
		}
	}
}

func TestDriverSecondRunIsNoop(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "i18n", "en", "common.json"), `{"Title": "Hello"}`)

	cfg := RunConfig{
		Root:       root,
		Languages:  []string{"fr"},
		References: []Reference{{Path: "i18n/en"}},
	}
	NewDriver(cfg, &fakeProvider{}, zerolog.Nop()).Run(context.Background())

	frPath := filepath.Join(root, "i18n", "fr", "common.json")
	before := readString(t, frPath)

	second := &fakeProvider{}
	res := NewDriver(cfg, second, zerolog.Nop()).Run(context.Background())

	if second.callCount() != 0 {
		t.Errorf("Expected no provider calls on second run, got %d", second.callCount())
	}
	if res.Written != 0 {
		t.Errorf("Expected no writes on second run, got %d", res.Written)
	}
	if after := readString(t, frPath); after != before {
		t.Errorf("Expected file unchanged.\nbefore:\n%s\nafter:\n%s", before, after)
	}
}

func TestDriverFillsFalsyTargetValues(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "msgs", "en.json"), `{"Title": "Hello"}`)
	frPath := filepath.Join(root, "msgs", "fr.json")
	writeFile(t, frPath, `{"Title": ""}`)

	provider := &fakeProvider{}
	cfg := RunConfig{
		Root:       root,
		References: []Reference{{Path: "msgs/en.json"}},
	}
	res := NewDriver(cfg, provider, zerolog.Nop()).Run(context.Background())

	if provider.callCount() != 1 {
		t.Errorf("Expected 1 provider call, got %d", provider.callCount())
	}
	if res.Written != 1 {
		t.Errorf("Expected the file to be written, got %d writes", res.Written)
	}
	fr := readTree(t, frPath)
	if got := leafString(t, fr, "Title"); got != "[fr] Hello" {
		t.Errorf("Expected empty value filled with the translation, got %q", got)
	}

	// The gap is closed now; a rerun must not repeat the call.
	rerun := &fakeProvider{}
	NewDriver(cfg, rerun, zerolog.Nop()).Run(context.Background())
	if rerun.callCount() != 0 {
		t.Errorf("Expected no provider calls on rerun, got %d", rerun.callCount())
	}
}

func TestDriverMaxLengthMarker(t *testing.T) {
	root := t.TempDir()
	long := strings.Repeat("é", 11)  // 11 runes, 22 bytes
	edge := strings.Repeat("é", 10)  // at the limit, still translated
	writeFile(t, filepath.Join(root, "msgs", "en.json"),
		`{"Long": "`+long+`", "Edge": "`+edge+`", "Short": "Hi"}`)
	writeFile(t, filepath.Join(root, "msgs", "fr.json"), `{}`)

	provider := &fakeProvider{}
	cfg := RunConfig{
		Root:       root,
		MaxLength:  10,
		References: []Reference{{Path: "msgs/en.json"}},
	}
	res := NewDriver(cfg, provider, zerolog.Nop()).Run(context.Background())

	if res.Markers != 1 {
		t.Errorf("Expected 1 marker substitution, got %d", res.Markers)
	}
	if res.Leaves != 2 {
		t.Errorf("Expected 2 translated leaves, got %d", res.Leaves)
	}

	frPath := filepath.Join(root, "msgs", "fr.json")
	fr := readTree(t, frPath)
	if got := leafString(t, fr, "Long"); got != MissingMarker {
		t.Errorf("Expected marker for oversized value, got %q", got)
	}
	if got := leafString(t, fr, "Edge"); got != "[fr] "+edge {
		t.Errorf("Expected value at the limit to be translated, got %q", got)
	}

	// A plain rerun leaves the marker alone.
	rerun := &fakeProvider{}
	NewDriver(cfg, rerun, zerolog.Nop()).Run(context.Background())
	if rerun.callCount() != 0 {
		t.Errorf("Expected marker to stay closed without retranslate, got %d calls", rerun.callCount())
	}

	// Retranslate with the limit lifted replaces the marker.
	cfg.Retranslate = true
	cfg.MaxLength = 0
	retry := &fakeProvider{}
	res = NewDriver(cfg, retry, zerolog.Nop()).Run(context.Background())

	if retry.callCount() != 1 {
		t.Errorf("Expected exactly the marked key to be retried, got %d calls", retry.callCount())
	}
	if res.Leaves != 1 || res.Markers != 0 {
		t.Errorf("Expected 1 leaf and no markers on retry, got %d/%d", res.Leaves, res.Markers)
	}
	fr = readTree(t, frPath)
	if got := leafString(t, fr, "Long"); got != "[fr] "+long {
		t.Errorf("Expected marker replaced on retranslate, got %q", got)
	}
}

func TestTranslateMarkerFlagFollowsRetranslate(t *testing.T) {
	long := strings.Repeat("x", 250)

	provider := &fakeProvider{}
	d := NewDriver(RunConfig{MaxLength: 200}, provider, zerolog.Nop())
	res, err := d.translate(context.Background(), mustParse(t, `{"Big": "`+long+`"}`), "fr")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if res.Translated {
		t.Error("Expected a marker substitution not to count as translated without retranslate")
	}
	if res.Markers != 1 {
		t.Errorf("Expected 1 marker, got %d", res.Markers)
	}

	d = NewDriver(RunConfig{MaxLength: 200, Retranslate: true}, provider, zerolog.Nop())
	res, err = d.translate(context.Background(), mustParse(t, `{"Big": "`+long+`"}`), "fr")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if !res.Translated {
		t.Error("Expected a marker substitution to count as translated with retranslate")
	}
	if got, _ := res.Content.Get("Big"); got != MissingMarker {
		t.Errorf("Expected the marker as the leaf value, got %v", got)
	}
	if provider.callCount() != 0 {
		t.Errorf("Expected the oversized value never to reach the provider, got %d calls", provider.callCount())
	}
}

func TestTranslateNestedFlagAggregates(t *testing.T) {
	provider := &fakeProvider{}
	d := NewDriver(RunConfig{}, provider, zerolog.Nop())

	res, err := d.translate(context.Background(), mustParse(t, `{"Outer": {"Sub": "Hi"}}`), "de")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	// A leaf translated below ORs up to the root flag, and the nested
	// content survives as a tree, not a flag.
	if !res.Translated {
		t.Error("Expected a nested translation to set the aggregate flag")
	}
	outer, ok := res.Content.Get("Outer")
	if !ok {
		t.Fatal("Expected 'Outer' in the result content")
	}
	if v, _ := outer.(*Tree).Get("Sub"); v != "[de] Hi" {
		t.Errorf("Expected nested translated content preserved, got %v", v)
	}

	// Nothing translatable below: the flag stays unset.
	res, err = d.translate(context.Background(), mustParse(t, `{"Outer": {"Empty": ""}}`), "de")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if res.Translated {
		t.Error("Expected no aggregate flag without a translated leaf")
	}
}

func TestDriverProviderFailureLeavesFileUnmodified(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "msgs", "en.json"), `{"Greeting": "Hello", "Farewell": "Bye"}`)
	frPath := filepath.Join(root, "msgs", "fr.json")
	writeFile(t, frPath, "{\n  \"Greeting\": \"salut\"\n}\n")
	before := readString(t, frPath)

	provider := &fakeProvider{failLang: "fr"}
	cfg := RunConfig{
		Root:       root,
		Languages:  []string{"fr", "de"},
		References: []Reference{{Path: "msgs/en.json"}},
	}
	res := NewDriver(cfg, provider, zerolog.Nop()).Run(context.Background())

	if res.Failures != 1 {
		t.Errorf("Expected 1 failure, got %d", res.Failures)
	}
	if !res.HasFailures() {
		t.Error("Expected HasFailures to report the broken language")
	}
	if after := readString(t, frPath); after != before {
		t.Errorf("Expected failed target left unmodified.\nbefore:\n%s\nafter:\n%s", before, after)
	}

	// The healthy language still completes.
	de := readTree(t, filepath.Join(root, "msgs", "de.json"))
	if got := leafString(t, de, "Greeting"); got != "[de] Hello" {
		t.Errorf("Expected de translation despite fr failure, got %q", got)
	}
	if res.Written != 1 {
		t.Errorf("Expected 1 file written, got %d", res.Written)
	}
}

func TestDriverSkipsBadReference(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "i18n", "en", "app.json"), `{"k": "v"}`)

	cfg := RunConfig{
		Root:      root,
		Languages: []string{"fr"},
		References: []Reference{
			{Path: "does/not/exist"},
			{Path: "i18n/en"},
		},
	}
	res := NewDriver(cfg, &fakeProvider{}, zerolog.Nop()).Run(context.Background())

	if len(res.Skipped) != 1 || res.Skipped[0].Path != "does/not/exist" {
		t.Fatalf("Expected the missing reference to be skipped, got %v", res.Skipped)
	}
	if !res.HasFailures() {
		t.Error("Expected skipped references to count as failures")
	}
	if res.Written != 1 {
		t.Errorf("Expected the healthy reference to be processed, got %d writes", res.Written)
	}
}

func TestDriverBackup(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "en", "app.json"), `{"Title": "Hello"}`)
	frPath := filepath.Join(root, "fr", "app.json")
	writeFile(t, frPath, "{\n  \"Title\": \"Bonjour ancien\"\n}\n")
	before := readString(t, frPath)

	cfg := RunConfig{
		Root:       root,
		Backup:     true,
		References: []Reference{{Path: "en"}},
	}
	res := NewDriver(cfg, &fakeProvider{}, zerolog.Nop()).Run(context.Background())

	if res.BackupDir == "" {
		t.Fatal("Expected a backup directory on the result")
	}
	snap := filepath.Join(res.BackupDir, "en", "fr", "app.json")
	if got := readString(t, snap); got != before {
		t.Errorf("Expected backup to hold the pre-run content.\nwant:\n%s\ngot:\n%s", before, got)
	}
	// The backup lives under the reference root; the copy must not
	// descend into it.
	if _, err := os.Stat(filepath.Join(res.BackupDir, "en", ".glotfill")); !os.IsNotExist(err) {
		t.Error("Expected backup to skip the .glotfill directory")
	}
}

func TestDriverInjectSnippets(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "i18n", "en", "common.json"), `{"welcome": "Hi"}`)
	writeFile(t, filepath.Join(root, "snippets", "common", "welcome.md"), "Hand written welcome\n")
	writeFile(t, filepath.Join(root, "snippets", "common", "welcome.fr.md"), "Bienvenue à la main\n")

	provider := &fakeProvider{}
	cfg := RunConfig{
		Root:       root,
		Languages:  []string{"fr", "de"},
		References: []Reference{{Path: "i18n/en", Inject: "snippets"}},
	}
	res := NewDriver(cfg, provider, zerolog.Nop()).Run(context.Background())

	if res.Failures != 0 {
		t.Fatalf("Expected clean run, got %d failures", res.Failures)
	}

	// fr gets the hand translation verbatim, no provider involved.
	fr := readTree(t, filepath.Join(root, "i18n", "fr", "common.json"))
	if got := leafString(t, fr, "welcome"); got != "Bienvenue à la main" {
		t.Errorf("Expected hand snippet in fr, got %q", got)
	}

	// de translates the injected base text, not the original value.
	de := readTree(t, filepath.Join(root, "i18n", "de", "common.json"))
	if got := leafString(t, de, "welcome"); got != "[de] Hand written welcome" {
		t.Errorf("Expected snippet text translated for de, got %q", got)
	}
	if provider.callCount() != 1 {
		t.Errorf("Expected a single provider call, got %d: %v", provider.callCount(), provider.calls)
	}

	// The base file on disk stays untouched; injection is in-memory.
	base := readTree(t, filepath.Join(root, "i18n", "en", "common.json"))
	if got := leafString(t, base, "welcome"); got != "Hi" {
		t.Errorf("Expected base file unchanged, got %q", got)
	}
}

func TestDriverJobsLimit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "i18n", "en", "a.json"), `{"k1": "one", "k2": "two"}`)
	writeFile(t, filepath.Join(root, "i18n", "en", "b.json"), `{"k3": "three"}`)

	provider := &fakeProvider{}
	cfg := RunConfig{
		Root:       root,
		Languages:  []string{"fr", "de", "it"},
		Jobs:       1,
		References: []Reference{{Path: "i18n/en"}},
	}
	res := NewDriver(cfg, provider, zerolog.Nop()).Run(context.Background())

	if res.Written != 6 {
		t.Errorf("Expected 6 files written, got %d", res.Written)
	}
	if provider.maxInflight > 1 {
		t.Errorf("Expected at most 1 concurrent provider call with jobs=1, got %d", provider.maxInflight)
	}
}
