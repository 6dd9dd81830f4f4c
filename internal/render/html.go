package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/idilsaglam/dreams/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("render").ParseFS(templateFS, "templates/*.html"))

// HTML renders cards as markup. Every interpolated value goes through
// html/template's contextual escaping, author included.
type HTML struct {
	PhotoURL URLFunc
	Location *time.Location
}

// PageData is the input for a full standalone page.
type PageData struct {
	Title string
	Items []model.Item
	// Stats is nil when the server's counters could not be fetched; the page
	// then omits the stats block instead of showing made-up numbers.
	Stats *model.Stats
}

type gridData struct {
	Cards []Card
}

type pageData struct {
	Title    string
	Cards    []Card
	Stats    *Stats
	BarStyle template.CSS
}

// Grid writes the item grid and the empty-state block. The empty state is
// marked "show" only when there are no items.
func (h HTML) Grid(w io.Writer, items []model.Item) error {
	data := gridData{Cards: Cards(items, h.PhotoURL, h.Location)}
	if err := templates.ExecuteTemplate(w, "grid", data); err != nil {
		return fmt.Errorf("render grid: %w", err)
	}
	return nil
}

// Page writes a complete HTML document: stats, progress bar and grid.
func (h HTML) Page(w io.Writer, in PageData) error {
	title := in.Title
	if title == "" {
		title = "Our Dreams"
	}
	data := pageData{
		Title: title,
		Cards: Cards(in.Items, h.PhotoURL, h.Location),
	}
	if in.Stats != nil {
		st := StatsView(*in.Stats)
		data.Stats = &st
		// BarWidth is built from a clamped float, never from user input.
		data.BarStyle = template.CSS("width: " + st.BarWidth)
	}
	if err := templates.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
