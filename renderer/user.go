package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/cryptofolio"
)

// UsersMarkdown renders the registered users. Password hashes are never
// printed.
func UsersMarkdown(users []*cryptofolio.User) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Users\n\n")
	if len(users) == 0 {
		fmt.Fprint(&b, "No user.\n")
		return b.String()
	}
	tableHeader(&b, "lllrl", "Username", "Email", "ID", "Portfolios", "Member Since")
	for _, u := range users {
		tableRow(&b,
			u.Username(),
			u.Email(),
			u.ID(),
			fmt.Sprintf("%d/%d", len(u.Portfolios()), cryptofolio.MaxPortfolios),
			u.CreatedAt().UTC().Format(DateFormat),
		)
	}
	return b.String()
}
