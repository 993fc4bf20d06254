package dataset

// Index holds the interaction table with posting lists by book and by user,
// plus a precomputed global positive-interaction count per book. It is
// built once at load time and is read-only afterwards, so unsynchronized
// concurrent reads are safe.
type Index struct {
	rows     []Interaction
	byBook   map[string][]int32
	byUser   map[string][]int32
	positive map[string]int
}

// NewIndex builds posting lists over the given rows. The rows slice is
// owned by the index after this call.
func NewIndex(rows []Interaction) *Index {
	ix := &Index{
		rows:     rows,
		byBook:   make(map[string][]int32),
		byUser:   make(map[string][]int32),
		positive: make(map[string]int),
	}
	for i, r := range rows {
		ix.byBook[r.BookID] = append(ix.byBook[r.BookID], int32(i))
		ix.byUser[r.UserID] = append(ix.byUser[r.UserID], int32(i))
		if r.Rating >= PositiveRating {
			ix.positive[r.BookID]++
		}
	}
	return ix
}

// Len returns the total number of interaction rows.
func (ix *Index) Len() int {
	return len(ix.rows)
}

// Users returns the number of distinct users in the index.
func (ix *Index) Users() int {
	return len(ix.byUser)
}

// BookRows calls fn for every interaction recorded against the book.
func (ix *Index) BookRows(id string, fn func(Interaction)) {
	for _, i := range ix.byBook[id] {
		fn(ix.rows[i])
	}
}

// UserRows calls fn for every interaction recorded by the user.
func (ix *Index) UserRows(user string, fn func(Interaction)) {
	for _, i := range ix.byUser[user] {
		fn(ix.rows[i])
	}
}

// GlobalPositive returns how many users across the whole dataset rated the
// book at PositiveRating or above.
func (ix *Index) GlobalPositive(id string) int {
	return ix.positive[id]
}
