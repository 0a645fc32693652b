package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"userctl/internal/ece"
	"userctl/internal/provenance"
)

var (
	rule    = strings.Repeat("=", 80)
	divider = strings.Repeat("-", 80)
)

// UserDetail is the reportable view of one discovered account.
type UserDetail struct {
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
	Enabled   bool   `json:"enabled"`
	Builtin   bool   `json:"builtin"`
}

// Discovery is the renderable result of one provenance run. Usernames holds
// every discovered identifier in sorted order; Users holds detail rows for
// the subset the directory knows. Service accounts absent from the user
// listing appear in Usernames alone.
type Discovery struct {
	Creator   string       `json:"creator"`
	Usernames []string     `json:"usernames"`
	Users     []UserDetail `json:"users"`
}

// NewDiscovery assembles a Discovery from the resolved closure. Sorting
// happens here; resolution order is not a display order.
func NewDiscovery(creator string, usernames []string, dir *provenance.Directory) *Discovery {
	sorted := make([]string, 0, len(usernames))
	sorted = append(sorted, usernames...)
	sort.Strings(sorted)

	d := &Discovery{Creator: creator, Usernames: sorted, Users: make([]UserDetail, 0, len(sorted))}
	for _, name := range sorted {
		if u, ok := dir.Lookup(name); ok {
			d.Users = append(d.Users, userDetail(u))
		}
	}
	return d
}

// Empty reports whether the run discovered nothing.
func (d *Discovery) Empty() bool {
	return len(d.Usernames) == 0
}

// WritePipe writes bare usernames, one per line, for piping into other
// commands.
func (d *Discovery) WritePipe(w io.Writer) {
	for _, name := range d.Usernames {
		fmt.Fprintln(w, name)
	}
}

// WriteHuman writes the full operator report: a detail block per known
// account, a summary, and a scripting-friendly username list.
func (d *Discovery) WriteHuman(w io.Writer) {
	fmt.Fprintf(w, "\nFound %d users created by %q or their descendants:\n\n", len(d.Usernames), d.Creator)
	fmt.Fprintln(w, rule)

	for _, u := range d.Users {
		fmt.Fprintf(w, "Username: %s\n", u.Username)
		fmt.Fprintf(w, "  Full Name: %s\n", orNA(u.FullName))
		fmt.Fprintf(w, "  Email: %s\n", orNA(u.Email))
		fmt.Fprintf(w, "  Created By: %s\n", orNA(u.CreatedBy))
		fmt.Fprintf(w, "  Created At: %s\n", orNA(u.CreatedAt))
		fmt.Fprintf(w, "  Enabled: %t\n", u.Enabled)
		fmt.Fprintf(w, "  Builtin: %t\n", u.Builtin)
		fmt.Fprintln(w, divider)
	}

	fmt.Fprintln(w, "\nSummary:")
	fmt.Fprintf(w, "  Total users to potentially delete: %d\n", len(d.Usernames))
	fmt.Fprintln(w, "\nUsernames only (for scripting):")
	for _, name := range d.Usernames {
		fmt.Fprintf(w, "  - %s\n", name)
	}
}

func userDetail(u ece.User) UserDetail {
	return UserDetail{
		Username:  u.UserName,
		FullName:  u.FullName,
		Email:     u.Email,
		CreatedBy: u.Metadata.CreatedBy,
		CreatedAt: u.Metadata.CreatedAt,
		Enabled:   u.Security.Enabled,
		Builtin:   u.Builtin,
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
