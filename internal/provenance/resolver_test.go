package provenance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"userctl/internal/ece"
)

func TestDescendants_DirectChildren(t *testing.T) {
	d := NewDirectory([]ece.User{
		user("alice", "root"),
		user("bob", "root"),
	})

	assert.Equal(t, []string{"alice", "bob"}, d.Descendants("root"))
}

func TestDescendants_Transitive(t *testing.T) {
	d := NewDirectory([]ece.User{
		user("alice", "root"),
		user("bob", "alice"),
		user("carol", "alice"),
		user("dave", "carol"),
	})

	assert.ElementsMatch(t, []string{"alice", "bob", "carol", "dave"}, d.Descendants("root"))
}

func TestDescendants_SeedNotIncluded(t *testing.T) {
	d := NewDirectory([]ece.User{
		user("root", ""),
		user("alice", "root"),
	})

	assert.NotContains(t, d.Descendants("root"), "root")
}

func TestDescendants_CycleTerminates(t *testing.T) {
	// a and b list each other as creator; traversal must still terminate.
	d := NewDirectory([]ece.User{
		user("a", "b"),
		user("b", "a"),
		user("c", "b"),
	})

	assert.ElementsMatch(t, []string{"a", "c"}, d.Descendants("b"))
}

func TestDescendants_SeedReappearsAsChild(t *testing.T) {
	// A cycle back to the seed puts the seed itself in the result.
	d := NewDirectory([]ece.User{
		user("root", "alice"),
		user("alice", "root"),
	})

	assert.ElementsMatch(t, []string{"alice", "root"}, d.Descendants("root"))
}

func TestDescendants_UnknownSeed(t *testing.T) {
	d := NewDirectory([]ece.User{user("alice", "root")})
	assert.Empty(t, d.Descendants("stranger"))
}

func TestDescendants_Deterministic(t *testing.T) {
	d := NewDirectory([]ece.User{
		user("alice", "root"),
		user("bob", "alice"),
		user("carol", "alice"),
	})

	first := d.Descendants("root")
	second := d.Descendants("root")
	assert.Equal(t, first, second, "re-resolution over the same snapshot must not change the result")
}

func TestClosure_UnionsServiceAccounts(t *testing.T) {
	// readonly created alice; alice created bob and carol; svc1 is a
	// service account unrelated to the creator chain.
	d := NewDirectory([]ece.User{
		user("readonly", ""),
		user("alice", "readonly"),
		user("bob", "alice"),
		user("carol", "alice"),
		user("unrelated", "someoneelse"),
	})

	got := d.Closure("readonly", []string{"svc1"})
	assert.ElementsMatch(t, []string{"alice", "bob", "carol", "svc1"}, got)
}

func TestClosure_EmptyResult(t *testing.T) {
	d := NewDirectory([]ece.User{user("loner", "")})
	assert.Empty(t, d.Closure("loner", nil))
}

func TestClosure_ServiceAccountsOnly(t *testing.T) {
	d := NewDirectory(nil)
	got := d.Closure("readonly", []string{"svc1", "svc2"})
	assert.Equal(t, []string{"svc1", "svc2"}, got)
}

func TestClosure_DeduplicatesServiceAccounts(t *testing.T) {
	d := NewDirectory([]ece.User{
		user("svc1", "readonly"),
	})

	got := d.Closure("readonly", []string{"svc1", "svc2", "svc2"})
	assert.ElementsMatch(t, []string{"svc1", "svc2"}, got)
}

func TestClosure_SkipsBlankServiceAccountIDs(t *testing.T) {
	d := NewDirectory(nil)
	got := d.Closure("readonly", []string{"", "svc1"})
	assert.Equal(t, []string{"svc1"}, got)
}
