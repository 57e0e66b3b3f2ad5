package domain

import "fmt"

// Page is one rendered unit of the book
type Page struct {
	Number int
	Total  int
	Text   string
}

// Indicator returns the "<page>/<total>" label used on the bookmark button
func (p Page) Indicator() string {
	return fmt.Sprintf("%d/%d", p.Number, p.Total)
}
