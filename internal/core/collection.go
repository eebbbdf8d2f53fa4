package core

type identified interface {
	itemID() string
}

func (e Expense) itemID() string { return e.ID }
func (b Budget) itemID() string  { return b.ID }
func (g Goal) itemID() string    { return g.ID }

// UpdateItem returns a copy of items with the element sharing updated's id
// replaced in place. Edits keep position; only goal balance changes move a
// record (see ReplaceGoal).
func UpdateItem[T identified](items []T, updated T) ([]T, error) {
	out := make([]T, len(items))
	copy(out, items)
	for i, item := range out {
		if item.itemID() == updated.itemID() {
			out[i] = updated
			return out, nil
		}
	}
	return nil, ErrItemNotFound
}

// RemoveItem returns a copy of items without the element carrying id.
func RemoveItem[T identified](items []T, id string) ([]T, error) {
	out := make([]T, 0, len(items))
	found := false
	for _, item := range items {
		if item.itemID() == id {
			found = true
			continue
		}
		out = append(out, item)
	}
	if !found {
		return nil, ErrItemNotFound
	}
	return out, nil
}

// AppendItem returns a copy of items with item appended.
func AppendItem[T identified](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}
