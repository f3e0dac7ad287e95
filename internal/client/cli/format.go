package cli

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"country_explorer/internal/client/apiclient"
	"country_explorer/internal/platform/externalapi/restcountries"
)

// 国旗の絵文字は表示幅が2のため runewidth で揃える
func printFavorites(w io.Writer, favorites []apiclient.Favorite) {
	if len(favorites) == 0 {
		fmt.Fprintln(w, "No favorites yet.")
		return
	}
	nameWidth := 0
	for _, f := range favorites {
		nameWidth = max(nameWidth, runewidth.StringWidth(f.Country.Name))
	}
	for _, f := range favorites {
		fmt.Fprintf(w, "%s %s  %s  %s\n",
			runewidth.FillRight(f.Country.Flag, 2),
			runewidth.FillRight(f.Country.Code, 3),
			runewidth.FillRight(f.Country.Name, nameWidth),
			f.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}

func printCountries(w io.Writer, countries []restcountries.Country, isFavorite func(code string) bool) {
	if len(countries) == 0 {
		fmt.Fprintln(w, "No countries found.")
		return
	}
	nameWidth := 0
	for _, c := range countries {
		nameWidth = max(nameWidth, runewidth.StringWidth(c.Name))
	}
	for _, c := range countries {
		mark := " "
		if isFavorite(c.Code) {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s %s  %s  %s\n",
			mark,
			runewidth.FillRight(c.Flag, 2),
			runewidth.FillRight(c.Code, 3),
			runewidth.FillRight(c.Name, nameWidth),
			c.Region)
	}
}
