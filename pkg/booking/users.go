package booking

import (
	"strings"

	"github.com/jwalitptl/clinic-booking/internal/model"
)

// FilterUsers applies the admin users table filters to an in-memory list.
// Search matches name or email, case-insensitively. It mirrors the
// server-side filter of GET /users.
func FilterUsers(users []*model.User, f model.UserFilter) []*model.User {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	lo, hi, byAge := f.AgeBounds()

	out := make([]*model.User, 0, len(users))
	for _, u := range users {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		if f.Role != "" && string(u.Role) != f.Role {
			continue
		}
		if byAge && (u.Age < lo || (hi >= 0 && u.Age > hi)) {
			continue
		}
		out = append(out, u)
	}
	return out
}
