package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/idilsaglam/dreams/internal/fakeapi"
	"github.com/idilsaglam/dreams/internal/model"
)

type cliHarness struct {
	t    *testing.T
	fake *fakeapi.Server
	url  string
}

func newHarness(t *testing.T) *cliHarness {
	t.Helper()
	t.Setenv("DREAMS_NAMES", "Alex,Sam")
	t.Setenv("DREAMS_THEME", "classic")
	t.Setenv("DREAMS_HTTP_TIMEOUT", "5s")
	t.Setenv("DREAMS_LOG_FILE", filepath.Join(t.TempDir(), "dreams.log"))
	fake := fakeapi.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return &cliHarness{t: t, fake: fake, url: srv.URL}
}

// run executes dreams against the fake API with color disabled.
func (h *cliHarness) run(stdin string, args ...string) (code int, stdout, stderr string) {
	h.t.Helper()
	var out, errb bytes.Buffer
	full := append([]string{"--api", h.url, "--no-color"}, args...)
	code = Run(full, strings.NewReader(stdin), &out, &errb)
	return code, out.String(), errb.String()
}

func (h *cliHarness) seedPair() {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	h.fake.Seed(model.Item{Description: "See the northern lights", AddedBy: "Alex", CreatedAt: model.Timestamp{Time: created}})
	h.fake.Seed(model.Item{
		Description: "Swim with whale sharks",
		AddedBy:     "Sam",
		IsCompleted: true,
		CreatedAt:   model.Timestamp{Time: created.Add(time.Hour)},
		CompletedAt: model.At(created.AddDate(0, 1, 0)),
		Photos:      []model.Photo{{PhotoPath: "uploads/2_a.jpg"}, {PhotoPath: "uploads/2_b.jpg"}},
	})
}

func TestList_ShowsStatsAndCards(t *testing.T) {
	h := newHarness(t)
	h.seedPair()

	code, out, errOut := h.run("", "ls", "--photos")
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, errOut)
	}
	for _, want := range []string{
		"Our Dreams ✨", "✔ 1", "• 1", "Total 2", "50%",
		"#1", "See the northern lights", "#2", "Swim with whale sharks",
		"Completed on", "📸 2 photos", "#1 #2",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestList_GroupAndEmpty(t *testing.T) {
	h := newHarness(t)
	code, out, _ := h.run("", "ls", "--group")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(out, "Pending") || !strings.Contains(out, "(none)") || !strings.Contains(out, "0%") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestList_JSON(t *testing.T) {
	h := newHarness(t)
	h.seedPair()
	code, out, _ := h.run("", "ls", "--json")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	var items []model.Item
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 items, got %d", len(items))
	}
}

func TestList_StatsFailureOmitsCounters(t *testing.T) {
	h := newHarness(t)
	h.seedPair()
	h.fake.FailCalls("GET", "/api/stats")
	code, out, _ := h.run("", "ls")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(out, "stats unavailable") || !strings.Contains(out, "Swim with whale sharks") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	for _, absent := range []string{"Total", "50%", "█"} {
		if strings.Contains(out, absent) {
			t.Fatalf("counters shown without server stats (%q):\n%s", absent, out)
		}
	}
}

func TestExportHTML_StatsFailureOmitsCounters(t *testing.T) {
	h := newHarness(t)
	h.seedPair()
	h.fake.FailCalls("GET", "/api/stats")
	code, out, errOut := h.run("", "export-html")
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, errOut)
	}
	if strings.Contains(out, `id="total-count"`) || !strings.Contains(out, "See the northern lights") {
		t.Fatalf("unexpected page:\n%s", out)
	}
}

func TestList_LoadFailure(t *testing.T) {
	h := newHarness(t)
	h.fake.FailCalls("GET", "/api/items")
	code, _, errOut := h.run("", "ls")
	if code != 1 {
		t.Fatalf("want exit 1, got %d", code)
	}
	if !strings.Contains(errOut, "✖ load items") {
		t.Fatalf("stderr:\n%s", errOut)
	}
}

func TestAdd(t *testing.T) {
	h := newHarness(t)
	code, out, errOut := h.run("", "add", "--by", "Sam", "Learn", "to", "surf")
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "✔ Dream added successfully! ✨") {
		t.Fatalf("stdout:\n%s", out)
	}
	_, out, _ = h.run("", "ls", "--json")
	if !strings.Contains(out, `"description": "Learn to surf"`) || !strings.Contains(out, `"added_by": "Sam"`) {
		t.Fatalf("item not stored:\n%s", out)
	}
}

func TestAdd_UsageErrors(t *testing.T) {
	h := newHarness(t)
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown author", []string{"add", "--by", "Kim", "x"}, "added_by must be one of"},
		{"missing author", []string{"add", "x"}, "--by is required (one of Alex, Sam)"},
		{"blank description", []string{"add", "--by", "Sam", "   "}, "description is required"},
		{"no args", []string{"add", "--by", "Sam"}, "requires at least 1 arg"},
	}
	for _, tc := range cases {
		code, _, errOut := h.run("", tc.args...)
		if code != 2 {
			t.Errorf("%s: want exit 2, got %d (%s)", tc.name, code, errOut)
		}
		if !strings.Contains(errOut, tc.want) {
			t.Errorf("%s: stderr missing %q:\n%s", tc.name, tc.want, errOut)
		}
	}
	if n := h.fake.Hits("POST", "/api/items"); n != 0 {
		t.Fatalf("no request should be made, got %d", n)
	}
}

func TestAdd_ServerFailure(t *testing.T) {
	h := newHarness(t)
	h.fake.FailCalls("POST", "/api/items")
	code, out, errOut := h.run("", "add", "--by", "Alex", "Fly a kite")
	if code != 1 {
		t.Fatalf("want exit 1, got %d", code)
	}
	if !strings.Contains(errOut, "✖ Failed to add dream") {
		t.Fatalf("stderr:\n%s", errOut)
	}
	if strings.Contains(out, "✔") {
		t.Fatalf("no success line expected:\n%s", out)
	}
}

func TestEdit(t *testing.T) {
	h := newHarness(t)
	h.seedPair()

	code, out, errOut := h.run("", "edit", "1", "--desc", "See the aurora")
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "Dream updated successfully!") {
		t.Fatalf("stdout:\n%s", out)
	}
	_, out, _ = h.run("", "ls", "--json")
	if !strings.Contains(out, `"description": "See the aurora"`) || !strings.Contains(out, `"added_by": "Alex"`) {
		t.Fatalf("author should be kept:\n%s", out)
	}

	code, _, errOut = h.run("", "edit", "99", "--by", "Sam")
	if code != 1 || !strings.Contains(errOut, "dream not found: 99") || !strings.Contains(errOut, "dreams ls") {
		t.Fatalf("exit %d, stderr:\n%s", code, errOut)
	}

	code, _, _ = h.run("", "edit", "1")
	if code != 2 {
		t.Fatalf("edit with no changes: want exit 2, got %d", code)
	}
}

func TestRemove_Confirms(t *testing.T) {
	h := newHarness(t)
	h.seedPair()

	code, out, _ := h.run("n\n", "rm", "1")
	if code != 0 || !strings.Contains(out, "cancelled") {
		t.Fatalf("exit %d, stdout:\n%s", code, out)
	}
	if n := h.fake.Hits("DELETE", "/api/items/1"); n != 0 {
		t.Fatalf("declined delete still sent %d requests", n)
	}

	code, out, _ = h.run("y\n", "rm", "1")
	if code != 0 || !strings.Contains(out, "Dream deleted") {
		t.Fatalf("exit %d, stdout:\n%s", code, out)
	}

	code, out, _ = h.run("", "rm", "--yes", "2")
	if code != 0 || !strings.Contains(out, "Dream deleted") {
		t.Fatalf("exit %d, stdout:\n%s", code, out)
	}
	if n := h.fake.Hits("DELETE", "/api/items/2"); n != 1 {
		t.Fatalf("want one delete, got %d", n)
	}
}

func TestRemove_MissingDreamHintsAtList(t *testing.T) {
	h := newHarness(t)
	h.seedPair()

	code, _, errOut := h.run("", "rm", "--yes", "99")
	if code != 1 {
		t.Fatalf("want exit 1, got %d", code)
	}
	if !strings.Contains(errOut, "Failed to delete dream") || !strings.Contains(errOut, "run `dreams ls` to see valid ids") {
		t.Fatalf("stderr:\n%s", errOut)
	}

	// Other server failures get no id hint.
	h.fake.FailCalls("DELETE", "/api/items/1", 1)
	code, _, errOut = h.run("", "rm", "--yes", "1")
	if code != 1 || strings.Contains(errOut, "dreams ls") {
		t.Fatalf("exit %d, stderr:\n%s", code, errOut)
	}
}

func TestDoneUndone(t *testing.T) {
	h := newHarness(t)
	h.seedPair()

	code, out, _ := h.run("", "done", "1")
	if code != 0 || !strings.Contains(out, "Dream completed! 🎉") {
		t.Fatalf("exit %d, stdout:\n%s", code, out)
	}
	code, out, _ = h.run("", "stats")
	if code != 0 || !strings.Contains(out, "100%") {
		t.Fatalf("exit %d, stdout:\n%s", code, out)
	}
	code, out, _ = h.run("", "undone", "#2")
	if code != 0 || !strings.Contains(out, "Dream marked as pending") {
		t.Fatalf("exit %d, stdout:\n%s", code, out)
	}

	h.fake.FailCalls("PUT", "/api/items/*")
	code, _, errOut := h.run("", "done", "1")
	if code != 1 || !strings.Contains(errOut, "Failed to update status") {
		t.Fatalf("exit %d, stderr:\n%s", code, errOut)
	}

	code, _, errOut = h.run("", "done", "abc")
	if code != 2 || !strings.Contains(errOut, "not a valid id") {
		t.Fatalf("exit %d, stderr:\n%s", code, errOut)
	}
}

func writePhotos(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var out []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte("\xff\xd8\xff fake jpeg"), 0o600); err != nil {
			t.Fatal(err)
		}
		out = append(out, p)
	}
	return out
}

func TestPhotoAdd_Tally(t *testing.T) {
	h := newHarness(t)
	h.seedPair()
	files := writePhotos(t, "a.jpg", "b.jpg", "c.jpg")
	h.fake.FailCalls("POST", "/api/items/*/photos", 2)

	args := append([]string{"photo", "add", "2"}, files...)
	code, _, errOut := h.run("", args...)
	if code != 1 {
		t.Fatalf("want exit 1, got %d", code)
	}
	for _, want := range []string{"Uploading 1/3...", "Uploading 3/3...", "✖ 2 uploaded, 1 failed"} {
		if !strings.Contains(errOut, want) {
			t.Fatalf("missing %q in stderr:\n%s", want, errOut)
		}
	}
	_, out, _ := h.run("", "ls")
	if !strings.Contains(out, "📸 4 photos") {
		t.Fatalf("want 4 photos after upload:\n%s", out)
	}
}

func TestPhotoAdd_PendingDream(t *testing.T) {
	h := newHarness(t)
	h.seedPair()
	files := writePhotos(t, "a.jpg")
	code, _, errOut := h.run("", "photo", "add", "1", files[0])
	if code != 1 || !strings.Contains(errOut, "not completed yet") {
		t.Fatalf("exit %d, stderr:\n%s", code, errOut)
	}
	if n := h.fake.Hits("POST", "/api/items/1/photos"); n != 0 {
		t.Fatalf("no upload expected, got %d", n)
	}
}

func TestPhotoRemove(t *testing.T) {
	h := newHarness(t)
	h.seedPair()
	code, out, errOut := h.run("", "photo", "rm", "-y", "1")
	if code != 0 || !strings.Contains(out, "Photo deleted") {
		t.Fatalf("exit %d, stdout:\n%s\nstderr:\n%s", code, out, errOut)
	}
	_, out, _ = h.run("", "ls")
	if !strings.Contains(out, "📸 1 photo") {
		t.Fatalf("want one photo left:\n%s", out)
	}
}

func TestExportHTML(t *testing.T) {
	h := newHarness(t)
	h.fake.Seed(model.Item{Description: `<b>bold</b> & "quoted"`, AddedBy: "Alex"})
	p := filepath.Join(t.TempDir(), "board.html")

	code, _, errOut := h.run("", "export-html", "-o", p, "--title", "Bucket list")
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, errOut)
	}
	if !strings.Contains(errOut, "wrote "+p+" (1 dreams)") {
		t.Fatalf("stderr:\n%s", errOut)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	page := string(b)
	for _, want := range []string{"<title>Bucket list</title>", "&lt;b&gt;bold&lt;/b&gt; &amp; &#34;quoted&#34;", `id="total-count">1<`} {
		if !strings.Contains(page, want) {
			t.Fatalf("missing %q in page", want)
		}
	}
}

func TestUsage(t *testing.T) {
	h := newHarness(t)
	for _, args := range [][]string{
		{"nope"},
		{"ls", "--bogus"},
		{"rm"},
		{"tui", "--splash", "--no-splash"},
	} {
		code, _, errOut := h.run("", args...)
		if code != 2 {
			t.Errorf("%v: want exit 2, got %d (%s)", args, code, errOut)
		}
		if !strings.Contains(errOut, "Hint: run `dreams --help`") {
			t.Errorf("%v: missing hint:\n%s", args, errOut)
		}
	}

	var out, errb bytes.Buffer
	if code := Run([]string{"--api", "ftp://x", "ls"}, strings.NewReader(""), &out, &errb); code != 2 {
		t.Fatalf("bad --api: want exit 2, got %d", code)
	}
}
