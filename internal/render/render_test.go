package render

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/idilsaglam/dreams/internal/model"
)

func completedItem(id int64, photos int) model.Item {
	it := model.Item{
		ID:          id,
		Description: "Swim with whale sharks",
		AddedBy:     "Sam",
		IsCompleted: true,
		CreatedAt:   model.Timestamp{Time: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		CompletedAt: model.At(time.Date(2024, 6, 3, 18, 30, 0, 0, time.UTC)),
	}
	for i := 0; i < photos; i++ {
		it.Photos = append(it.Photos, model.Photo{
			ID:        int64(100 + i),
			PhotoPath: fmt.Sprintf("uploads/%d_%d.jpg", id, i),
			ItemID:    id,
		})
	}
	return it
}

func TestCards_PhotoCap(t *testing.T) {
	cards := Cards([]model.Item{completedItem(1, 8)}, nil, nil)
	if len(cards) != 1 {
		t.Fatalf("want 1 card, got %d", len(cards))
	}
	c := cards[0]
	if len(c.Thumbs) != MaxThumbs {
		t.Fatalf("want %d thumbs, got %d", MaxThumbs, len(c.Thumbs))
	}
	if got := c.MoreLabel(); got != "+3 more" {
		t.Fatalf("more label: got %q", got)
	}
	if c.PhotoCount != "📸 8 photos" {
		t.Fatalf("photo count: got %q", c.PhotoCount)
	}
	if c.AddPhotoLabel != "Add More Photos" {
		t.Fatalf("add label: got %q", c.AddPhotoLabel)
	}
	if c.Thumbs[0].URL != "/uploads/1_0.jpg" {
		t.Fatalf("thumb url: got %q", c.Thumbs[0].URL)
	}

	var buf bytes.Buffer
	if err := (HTML{}).Grid(&buf, []model.Item{completedItem(1, 8)}); err != nil {
		t.Fatalf("grid: %v", err)
	}
	out := buf.String()
	if n := strings.Count(out, "<img "); n != MaxThumbs {
		t.Fatalf("want %d <img> tags, got %d", MaxThumbs, n)
	}
	if !strings.Contains(out, "+3 more") {
		t.Fatalf("missing overflow indicator:\n%s", out)
	}
}

func TestCards_CompletionSection(t *testing.T) {
	pending := completedItem(2, 0)
	pending.IsCompleted = false
	pending.CompletedAt = nil

	cards := Cards([]model.Item{completedItem(1, 0), completedItem(3, 1), pending}, nil, nil)

	if c := cards[0]; !c.ShowPhotos || c.AddPhotoLabel != "Add Photo" || c.PhotoCount != "" {
		t.Fatalf("completed without photos: %+v", c)
	}
	if c := cards[0]; c.CompletedLabel != "Jun 3, 2024" || c.CreatedLabel != "May 1, 2024" {
		t.Fatalf("date labels: created %q completed %q", c.CreatedLabel, c.CompletedLabel)
	}
	if c := cards[1]; c.PhotoCount != "📸 1 photo" || c.More != 0 || c.MoreLabel() != "" {
		t.Fatalf("single photo: %+v", c)
	}
	if c := cards[2]; c.ShowPhotos || c.CompletedLabel != "" || len(c.Thumbs) != 0 {
		t.Fatalf("pending card should have no photo section: %+v", c)
	}
}

func TestCards_PhotoURLFunc(t *testing.T) {
	url := func(p string) string { return "http://api.test/" + p }
	cards := Cards([]model.Item{completedItem(4, 1)}, url, nil)
	if got := cards[0].Thumbs[0].URL; got != "http://api.test/uploads/4_0.jpg" {
		t.Fatalf("got %q", got)
	}
}

func TestHTMLGrid_EscapesText(t *testing.T) {
	it := model.Item{
		ID:          9,
		Description: `<script>alert("x")</script> & 'quoted'`,
		AddedBy:     `<b>Alex</b>`,
		CreatedAt:   model.Timestamp{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	var buf bytes.Buffer
	if err := (HTML{}).Grid(&buf, []model.Item{it}); err != nil {
		t.Fatalf("grid: %v", err)
	}
	out := buf.String()
	for _, raw := range []string{"<script>", "</script>", `"x"`, "'quoted'", "<b>Alex</b>"} {
		if strings.Contains(out, raw) {
			t.Fatalf("found unescaped %q in:\n%s", raw, out)
		}
	}
	for _, esc := range []string{"&lt;script&gt;", "&amp;", "&#34;x&#34;", "&#39;quoted&#39;", "&lt;b&gt;Alex&lt;/b&gt;"} {
		if !strings.Contains(out, esc) {
			t.Fatalf("missing escaped %q in:\n%s", esc, out)
		}
	}
}

func TestHTMLGrid_EmptyState(t *testing.T) {
	var buf bytes.Buffer
	if err := (HTML{}).Grid(&buf, nil); err != nil {
		t.Fatalf("grid: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `class="empty-state show"`) {
		t.Fatalf("empty state should be shown:\n%s", out)
	}
	if strings.Contains(out, "item-card") {
		t.Fatalf("grid should be empty:\n%s", out)
	}

	buf.Reset()
	if err := (HTML{}).Grid(&buf, []model.Item{completedItem(1, 0)}); err != nil {
		t.Fatalf("grid: %v", err)
	}
	out = buf.String()
	if strings.Contains(out, "empty-state show") {
		t.Fatalf("empty state should be hidden:\n%s", out)
	}
	if strings.Count(out, `class="item-card`) != 1 {
		t.Fatalf("want exactly one card:\n%s", out)
	}
}

func TestHTMLGrid_Idempotent(t *testing.T) {
	items := []model.Item{completedItem(1, 2), completedItem(2, 7)}
	var a, b bytes.Buffer
	if err := (HTML{}).Grid(&a, items); err != nil {
		t.Fatal(err)
	}
	if err := (HTML{}).Grid(&b, items); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Fatal("rendering the same items twice produced different markup")
	}
}

func TestHTMLPage_Stats(t *testing.T) {
	var buf bytes.Buffer
	err := (HTML{}).Page(&buf, PageData{
		Stats: &model.Stats{Total: 10, Pending: 4, Completed: 6, CompletionPercentage: 60},
	})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`id="total-count">10<`,
		`id="pending-count">4<`,
		`id="completed-count">6<`,
		`id="completion-percentage">60%<`,
		`style="width: 60%"`,
		"<title>Our Dreams</title>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestHTMLPage_WithoutStats(t *testing.T) {
	var buf bytes.Buffer
	if err := (HTML{}).Page(&buf, PageData{Items: []model.Item{completedItem(1, 0)}}); err != nil {
		t.Fatalf("page: %v", err)
	}
	out := buf.String()
	for _, absent := range []string{`id="total-count"`, `id="completion-percentage"`, `id="progress-bar"`} {
		if strings.Contains(out, absent) {
			t.Fatalf("stats block rendered without stats (%q):\n%s", absent, out)
		}
	}
	if strings.Count(out, `class="item-card`) != 1 {
		t.Fatalf("grid missing:\n%s", out)
	}
}

func TestStatsView(t *testing.T) {
	cases := []struct {
		in      float64
		percent string
		frac    float64
	}{
		{60, "60%", 0.6},
		{66.7, "66.7%", 0.667},
		{0, "0%", 0},
		{150, "100%", 1},
		{-3, "0%", 0},
	}
	for _, tc := range cases {
		st := StatsView(model.Stats{CompletionPercentage: tc.in})
		if st.Percent != tc.percent || st.BarWidth != tc.percent {
			t.Errorf("%v: got percent %q bar %q, want %q", tc.in, st.Percent, st.BarWidth, tc.percent)
		}
		if diff := st.Fraction - tc.frac; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%v: fraction %v want %v", tc.in, st.Fraction, tc.frac)
		}
	}
}

func TestCharCount(t *testing.T) {
	if got := CharCount(""); got != "0/500" {
		t.Fatalf("got %q", got)
	}
	if got := CharCount("héllo ✨"); got != "7/500" {
		t.Fatalf("got %q", got)
	}
}

func TestPreviewNames(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	shown, more := PreviewNames(names, 6)
	if len(shown) != 6 || more != "+2 more" {
		t.Fatalf("got %v %q", shown, more)
	}
	shown, more = PreviewNames(names[:3], 6)
	if len(shown) != 3 || more != "" {
		t.Fatalf("got %v %q", shown, more)
	}
}
