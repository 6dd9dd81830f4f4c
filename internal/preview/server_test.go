package preview

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/idilsaglam/dreams/internal/action"
	"github.com/idilsaglam/dreams/internal/api"
	"github.com/idilsaglam/dreams/internal/cache"
	"github.com/idilsaglam/dreams/internal/fakeapi"
	"github.com/idilsaglam/dreams/internal/model"
)

func newPreview(t *testing.T) (*fakeapi.Server, *httptest.Server) {
	t.Helper()
	fake := fakeapi.New()
	backend := httptest.NewServer(fake.Handler())
	t.Cleanup(backend.Close)
	client := api.NewWithHTTP(backend.URL, backend.Client())
	loader := action.NewLoader(client, cache.New(), Notes)
	front := httptest.NewServer(New(loader, client.PhotoURL, "Our Dreams").Handler())
	t.Cleanup(front.Close)
	return fake, front
}

func get(t *testing.T, url string) (int, http.Header, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, resp.Header, string(b)
}

func TestPage_RendersBoard(t *testing.T) {
	fake, front := newPreview(t)
	fake.Seed(model.Item{Description: "Hike <Patagonia>", AddedBy: "Sam", IsCompleted: true,
		Photos: []model.Photo{{PhotoPath: "uploads/1_a.jpg"}}})
	fake.Seed(model.Item{Description: "Learn Italian", AddedBy: "Alex"})

	code, hdr, body := get(t, front.URL+"/")
	if code != http.StatusOK {
		t.Fatalf("status %d: %s", code, body)
	}
	if !strings.HasPrefix(hdr.Get("Content-Type"), "text/html") || hdr.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("unexpected headers: %v", hdr)
	}
	for _, want := range []string{
		"Hike &lt;Patagonia&gt;",
		"Learn Italian",
		`id="total-count">2<`,
		`id="completion-percentage">50%<`,
		`style="width: 50%"`,
		"/uploads/1_a.jpg",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in page:\n%s", want, body)
		}
	}
}

func TestGrid_EmptyState(t *testing.T) {
	_, front := newPreview(t)
	code, _, body := get(t, front.URL+"/grid")
	if code != http.StatusOK || !strings.Contains(body, `class="empty-state show"`) {
		t.Fatalf("status %d, body:\n%s", code, body)
	}
}

func TestPage_StatsFailureStillRenders(t *testing.T) {
	fake, front := newPreview(t)
	fake.Seed(model.Item{Description: "Road trip", AddedBy: "Alex"})
	fake.FailCalls(http.MethodGet, "/api/stats")
	code, _, body := get(t, front.URL+"/")
	if code != http.StatusOK || !strings.Contains(body, "Road trip") {
		t.Fatalf("status %d, body:\n%s", code, body)
	}
	if strings.Contains(body, `id="total-count"`) {
		t.Fatalf("counters must not be rendered without server stats:\n%s", body)
	}
}

func TestPage_ItemsFailure(t *testing.T) {
	fake, front := newPreview(t)
	fake.FailCalls(http.MethodGet, "/api/items")
	code, _, body := get(t, front.URL+"/")
	if code != http.StatusBadGateway || !strings.Contains(body, "Failed to load items") {
		t.Fatalf("status %d, body:\n%s", code, body)
	}
}

func TestHealthz(t *testing.T) {
	_, front := newPreview(t)
	if code, _, _ := get(t, front.URL+"/healthz"); code != http.StatusNoContent {
		t.Fatalf("status %d", code)
	}
}
