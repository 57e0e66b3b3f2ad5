package handler

import (
	"fmt"
	"html"
	"sort"
	"strconv"

	"bookbot/internal/domain"
	"bookbot/internal/lexicon"

	tele "gopkg.in/telebot.v3"
)

const previewLength = 100

// previewer returns the opening runes of a page
type previewer interface {
	Preview(n, limit int) string
}

// Buttons carry raw callback data (no Unique) so every press lands in
// the single OnCallback handler.
func dataBtn(text, data string) tele.Btn {
	return tele.Btn{Text: text, Data: data}
}

// renderPage returns the escaped page text and its pagination keyboard
func renderPage(p domain.Page, buttons lexicon.Buttons) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		tele.Row{
			dataBtn(buttons.Backward, DataBackward),
			dataBtn(p.Indicator(), p.Indicator()),
			dataBtn(buttons.Forward, DataForward),
		},
		tele.Row{
			dataBtn(buttons.Navigation, DataNavigation),
		},
	)
	return html.EscapeString(p.Text), markup
}

func sortedPages(pages []int) []int {
	sorted := append([]int(nil), pages...)
	sort.Ints(sorted)
	return sorted
}

// bookmarksMarkup lists bookmarks in ascending order, one button each
func bookmarksMarkup(pages []int, book previewer, buttons lexicon.Buttons) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(pages)+1)

	for _, p := range sortedPages(pages) {
		text := fmt.Sprintf("%d - %s", p, book.Preview(p, previewLength))
		rows = append(rows, tele.Row{dataBtn(text, strconv.Itoa(p))})
	}
	rows = append(rows, tele.Row{
		dataBtn(buttons.EditBookmarks, DataEditBookmarks),
		dataBtn(buttons.Cancel, DataCancel),
	})

	markup.Inline(rows...)
	return markup
}

// editBookmarksMarkup lists bookmarks with delete buttons
func editBookmarksMarkup(pages []int, book previewer, buttons lexicon.Buttons) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(pages)+1)

	for _, p := range sortedPages(pages) {
		text := fmt.Sprintf("%s %d - %s", buttons.Delete, p, book.Preview(p, previewLength))
		rows = append(rows, tele.Row{dataBtn(text, strconv.Itoa(p)+deleteSuffix)})
	}
	rows = append(rows, tele.Row{dataBtn(buttons.Cancel, DataCancel)})

	markup.Inline(rows...)
	return markup
}

// commandMenu converts the lexicon's command list for SetCommands
func commandMenu(commands []lexicon.Command) []tele.Command {
	menu := make([]tele.Command, 0, len(commands))
	for _, c := range commands {
		menu = append(menu, tele.Command{Text: c.Command, Description: c.Description})
	}
	return menu
}
