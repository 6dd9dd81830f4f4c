package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxDescriptionLen is the server-side column width for descriptions.
const MaxDescriptionLen = 500

var (
	ErrEmptyDescription   = errors.New("description is required")
	ErrDescriptionTooLong = fmt.Errorf("description exceeds %d characters", MaxDescriptionLen)
	ErrUnknownAuthor      = errors.New("added_by must be one of the configured names")
)

// Item is one bucket-list entry as served by GET /api/items.
type Item struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	AddedBy     string     `json:"added_by"`
	IsCompleted bool       `json:"is_completed"`
	IsHidden    bool       `json:"is_hidden,omitempty"`
	CreatedAt   Timestamp  `json:"created_at"`
	CompletedAt *Timestamp `json:"completed_at"`
	Photos      []Photo    `json:"photos"`
}

// Photo is an image attached to a completed item.
type Photo struct {
	ID         int64      `json:"id"`
	PhotoPath  string     `json:"photo_path"`
	ItemID     int64      `json:"item_id,omitempty"`
	UploadedAt *Timestamp `json:"uploaded_at,omitempty"`
}

// Stats is the server-computed aggregate over all items.
type Stats struct {
	Total                int     `json:"total"`
	Pending              int     `json:"pending"`
	Completed            int     `json:"completed"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// NewItem is the POST /api/items body.
type NewItem struct {
	Description string `json:"description"`
	AddedBy     string `json:"added_by"`
}

// ItemPatch is the PUT /api/items/{id} body. Nil fields are left untouched.
type ItemPatch struct {
	Description *string `json:"description,omitempty"`
	AddedBy     *string `json:"added_by,omitempty"`
	IsCompleted *bool   `json:"is_completed,omitempty"`
}

// UnmarshalJSON back-fills Photo.ItemID, which the API omits inside item payloads.
func (it *Item) UnmarshalJSON(b []byte) error {
	type plain Item
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	for i := range p.Photos {
		if p.Photos[i].ItemID == 0 {
			p.Photos[i].ItemID = p.ID
		}
	}
	*it = Item(p)
	return nil
}

// ValidateDescription trims and checks a description against the column limit.
func ValidateDescription(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyDescription
	}
	if utf8.RuneCountInString(s) > MaxDescriptionLen {
		return "", ErrDescriptionTooLong
	}
	return s, nil
}

// Timestamp decodes the API's ISO-8601 timestamps, which may carry no zone.
// Zoneless values are taken as UTC.
type Timestamp struct{ time.Time }

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		t.Time = time.Time{}
		return nil
	}
	s := strings.TrimSpace(*raw)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format("2006-01-02T15:04:05.000000"))
}

// At wraps a time as a Timestamp pointer.
func At(t time.Time) *Timestamp { return &Timestamp{Time: t} }
