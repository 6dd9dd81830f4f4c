package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/dreams/internal/action"
	"github.com/idilsaglam/dreams/internal/model"
)

type revealMsg struct{}

type itemsMsg struct {
	items []model.Item
	err   error
}

type statsMsg struct {
	stats model.Stats
	err   error
}

type op int

const (
	opAdd op = iota
	opEdit
	opDelete
	opToggle
	opUpload
	opPhotoDelete
)

// actionMsg carries a finished mutation back to Update.
type actionMsg struct {
	op  op
	key string
	id  int64
	res action.Result
}

type uploadProgressMsg struct {
	done, total int
	ch          <-chan uploadProgressMsg
}

type toastPhaseMsg struct{ id uint64 }

type toastExpireMsg struct{ id uint64 }

type copiedMsg struct{ err error }

// revealDelay is the pause between dismissing the splash and showing content.
const revealDelay = 300 * time.Millisecond

func revealCmd() tea.Cmd {
	return tea.Tick(revealDelay, func(time.Time) tea.Msg { return revealMsg{} })
}

func loadItemsCmd(ctx context.Context, l *action.Loader) tea.Cmd {
	return func() tea.Msg {
		items, err := l.LoadItems(ctx)
		return itemsMsg{items: items, err: err}
	}
}

func loadStatsCmd(ctx context.Context, l *action.Loader) tea.Cmd {
	return func() tea.Msg {
		st, err := l.LoadStats(ctx)
		return statsMsg{stats: st, err: err}
	}
}

func waitProgress(ch <-chan uploadProgressMsg) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		p.ch = ch
		return p
	}
}

func copyCmd(copyFn func(string) error, text string) tea.Cmd {
	return func() tea.Msg { return copiedMsg{err: copyFn(text)} }
}
