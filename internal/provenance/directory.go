// Package provenance derives the creator→created relation from a user
// snapshot and resolves which accounts descend from a seed creator.
package provenance

import (
	"userctl/internal/ece"
)

// Directory is a read-only index over one fetched user snapshot. It maps
// each creator to the users it created, in snapshot order, and supports
// username lookup for reporting.
type Directory struct {
	users    map[string]ece.User
	children map[string][]string
}

// NewDirectory indexes the given snapshot. Users without a user_name are
// ignored; users without created_by metadata contribute no creator edge.
func NewDirectory(users []ece.User) *Directory {
	d := &Directory{
		users:    make(map[string]ece.User, len(users)),
		children: make(map[string][]string),
	}
	for _, u := range users {
		if u.UserName == "" {
			continue
		}
		d.users[u.UserName] = u
		if creator := u.Metadata.CreatedBy; creator != "" {
			d.children[creator] = append(d.children[creator], u.UserName)
		}
	}
	return d
}

// ChildrenOf returns the usernames created by the given creator, in
// snapshot order. Unknown or childless creators yield an empty result.
func (d *Directory) ChildrenOf(creator string) []string {
	return d.children[creator]
}

// Lookup returns the full user record for a username.
func (d *Directory) Lookup(username string) (ece.User, bool) {
	u, ok := d.users[username]
	return u, ok
}

// Len reports how many users the directory holds.
func (d *Directory) Len() int {
	return len(d.users)
}
