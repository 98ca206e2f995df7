package querycache

// Tag labels a cache entry for invalidation. An entry usually carries a
// collection tag such as {User, LIST} and per-entity tags such as {User, 42}.
type Tag struct {
	Type string
	ID   string
}

// ListID is the conventional ID of a collection tag.
const ListID = "LIST"

// TypeTag matches every tag of the given type when used to invalidate.
func TypeTag(typ string) Tag { return Tag{Type: typ} }

// ListTag is the collection tag of a type.
func ListTag(typ string) Tag { return Tag{Type: typ, ID: ListID} }

// IDTag is the tag of a single entity.
func IDTag(typ, id string) Tag { return Tag{Type: typ, ID: id} }

// Matches reports whether invalidating inv affects an entry tagged t.
// An invalidation tag without an ID covers every tag of its type.
func (t Tag) Matches(inv Tag) bool {
	if t.Type != inv.Type {
		return false
	}
	return inv.ID == "" || inv.ID == t.ID
}

func (t Tag) String() string {
	if t.ID == "" {
		return t.Type
	}
	return t.Type + ":" + t.ID
}

func matchesAny(tags, invalidates []Tag) bool {
	for _, t := range tags {
		for _, inv := range invalidates {
			if t.Matches(inv) {
				return true
			}
		}
	}
	return false
}
