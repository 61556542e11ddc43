package caster

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/shadow2d/internal/logger"
)

// ID identifies a caster or composite for the lifetime of a session.
type ID = uuid.UUID

// NoGroup is the root of an ungrouped caster.
var NoGroup ID = uuid.Nil

// NewID returns a fresh random id.
func NewID() ID {
	return uuid.New()
}

// Role tags how the registry currently sees an entity.
type Role int

const (
	Ungrouped Role = iota
	Member
	Root
)

func (r Role) String() string {
	switch r {
	case Member:
		return "member"
	case Root:
		return "root"
	default:
		return "ungrouped"
	}
}

// Registry maps casters to group roots. A root is either a caster standing
// for itself or a composite standing for the casters beneath it.
//
// Every caster maps to at most one root, and a registered root never maps to
// a different root. All mutation for one caster's frame runs inside a single
// Do call, which holds the registry lock for the whole sequence.
type Registry struct {
	mu      sync.Mutex
	rootOf  map[ID]ID
	members map[ID][]ID
	groups  []ID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rootOf:  make(map[ID]ID),
		members: make(map[ID][]ID),
	}
}

// Txn is the registry as seen while its lock is held.
type Txn struct {
	r *Registry
}

// Do runs fn with the registry locked.
func (r *Registry) Do(fn func(tx Txn)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(Txn{r: r})
}

// AddToGroup places c under desired. It reports false and changes nothing
// when c already maps to desired. Otherwise c joins desired's member set,
// its mapping moves to desired and it reports true. The caller is expected
// to remove c from its previous root afterwards. desired == c is the
// self-as-root case; the root entry is created if absent.
func (tx Txn) AddToGroup(c, desired ID) (bool, ID) {
	r := tx.r
	if desired == NoGroup {
		return false, r.rootOf[c]
	}
	if cur, ok := r.rootOf[c]; ok && cur == desired {
		return false, desired
	}

	if !slices.Contains(r.members[desired], c) {
		r.members[desired] = append(r.members[desired], c)
	}
	r.rootOf[c] = desired

	logger.Debug("caster joined group",
		zap.Stringer("caster", c),
		zap.Stringer("root", desired))
	return true, desired
}

// RemoveFromGroup takes c out of root's member set. A NoGroup root, a root c
// no longer belongs to, or a root that no longer exists are all no-ops;
// callers routinely pass the root they remembered from an earlier frame.
// Removing a caster from its own group also demotes it.
func (tx Txn) RemoveFromGroup(c, root ID) {
	r := tx.r
	if root == NoGroup {
		return
	}
	if root == c {
		tx.RemoveGroup(c)
	}

	if members, ok := r.members[root]; ok {
		if i := slices.Index(members, c); i >= 0 {
			members = slices.Delete(members, i, i+1)
			logger.Debug("caster left group",
				zap.Stringer("caster", c),
				zap.Stringer("root", root))
		}
		if len(members) == 0 && !slices.Contains(r.groups, root) {
			delete(r.members, root)
		} else {
			r.members[root] = members
		}
	}

	if cur, ok := r.rootOf[c]; ok && cur == root {
		delete(r.rootOf, c)
	}
}

// AddGroup registers c as a rendered group root. It is a no-op when c is
// already a root, or when c is currently a member of another root; a member
// is never promoted behind its root's back.
func (tx Txn) AddGroup(c ID) {
	r := tx.r
	if slices.Contains(r.groups, c) {
		return
	}
	if cur, ok := r.rootOf[c]; ok && cur != c {
		return
	}
	r.groups = append(r.groups, c)
	if _, ok := r.members[c]; !ok {
		r.members[c] = nil
	}
	logger.Debug("group added", zap.Stringer("root", c))
}

// RemoveGroup demotes c from root status. No-op if c is not a root. Members
// keep their mapping until their own update re-parents them.
func (tx Txn) RemoveGroup(c ID) {
	r := tx.r
	i := slices.Index(r.groups, c)
	if i < 0 {
		return
	}
	r.groups = slices.Delete(r.groups, i, i+1)
	if len(r.members[c]) == 0 {
		delete(r.members, c)
	}
	logger.Debug("group removed", zap.Stringer("root", c))
}

// RootOf returns the root c maps to.
func (tx Txn) RootOf(c ID) (ID, bool) {
	root, ok := tx.r.rootOf[c]
	return root, ok
}

// AddToGroup locks the registry and calls Txn.AddToGroup.
func (r *Registry) AddToGroup(c, desired ID) (joined bool, root ID) {
	r.Do(func(tx Txn) { joined, root = tx.AddToGroup(c, desired) })
	return joined, root
}

// RemoveFromGroup locks the registry and calls Txn.RemoveFromGroup.
func (r *Registry) RemoveFromGroup(c, root ID) {
	r.Do(func(tx Txn) { tx.RemoveFromGroup(c, root) })
}

// AddGroup locks the registry and calls Txn.AddGroup.
func (r *Registry) AddGroup(c ID) {
	r.Do(func(tx Txn) { tx.AddGroup(c) })
}

// RemoveGroup locks the registry and calls Txn.RemoveGroup.
func (r *Registry) RemoveGroup(c ID) {
	r.Do(func(tx Txn) { tx.RemoveGroup(c) })
}

// RootOf returns the root c maps to.
func (r *Registry) RootOf(c ID) (root ID, ok bool) {
	r.Do(func(tx Txn) { root, ok = tx.RootOf(c) })
	return root, ok
}

// Groups returns the registered roots in registration order.
func (r *Registry) Groups() []ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.groups)
}

// Members returns root's members in join order.
func (r *Registry) Members(root ID) []ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.members[root])
}

// IsRoot reports whether c is a registered root.
func (r *Registry) IsRoot(c ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.groups, c)
}

// Role classifies c. A registered root is Root, a caster mapped under
// another root is Member, anything else is Ungrouped.
func (r *Registry) Role(c ID) Role {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.groups, c) {
		return Root
	}
	if root, ok := r.rootOf[c]; ok && root != c {
		return Member
	}
	return Ungrouped
}

// Len returns the number of mapped casters.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rootOf)
}

// Reset drops every entry. Used when a scene is torn down.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rootOf = make(map[ID]ID)
	r.members = make(map[ID][]ID)
	r.groups = nil
}

// Validate checks the registry invariants and returns every violation.
// A violation is a programming error, not a runtime condition.
func (r *Registry) Validate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	seen := make(map[ID]ID)
	for root, members := range r.members {
		for _, c := range members {
			if other, dup := seen[c]; dup {
				err = multierr.Append(err, fmt.Errorf("caster %s is a member of %s and %s", c, other, root))
				continue
			}
			seen[c] = root
		}
	}

	for c, root := range r.rootOf {
		if !slices.Contains(r.members[root], c) {
			err = multierr.Append(err, fmt.Errorf("caster %s maps to %s but is not in its member set", c, root))
		}
		if next, ok := r.rootOf[root]; ok && next != root {
			err = multierr.Append(err, fmt.Errorf("root %s of caster %s maps to another root %s", root, c, next))
		}
	}

	for c, root := range seen {
		if r.rootOf[c] != root {
			err = multierr.Append(err, fmt.Errorf("caster %s is in the member set of %s but maps to %s", c, root, r.rootOf[c]))
		}
	}

	for _, g := range r.groups {
		if root, ok := r.rootOf[g]; ok && root != g {
			err = multierr.Append(err, fmt.Errorf("registered root %s maps to %s", g, root))
		}
	}
	return err
}
