package catalog

import (
	"errors"
	"fmt"
	"sort"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
)

var (
	ErrDuplicateCategoryID = errors.New("duplicate category id")
	ErrDuplicateItemID     = errors.New("duplicate item id")
)

// Snapshot is one consistent, immutable version of the catalog.
type Snapshot struct {
	version    string
	categories []Category
	items      map[string]Item
}

// NewSnapshot validates payload and builds a Snapshot tagged with version. Every problem
// found is reported (joined), and nothing is built unless the payload is fully valid.
func NewSnapshot(payload Payload, version string) (*Snapshot, error) {
	if version == "" {
		return nil, errs.NewValueIsRequiredError("version")
	}

	var problems []error
	seenCategories := make(map[string]struct{}, len(payload.Categories))
	items := make(map[string]Item)
	categories := make([]Category, 0, len(payload.Categories))

	for ci, cp := range payload.Categories {
		if cp.ID == "" {
			problems = append(problems, errs.NewValueIsRequiredError(fmt.Sprintf("categories[%d].id", ci)))
		} else if _, dup := seenCategories[cp.ID]; dup {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("categories[%d].id", ci), fmt.Errorf("%w: %q", ErrDuplicateCategoryID, cp.ID)))
		}
		seenCategories[cp.ID] = struct{}{}

		if cp.Name == "" {
			problems = append(problems, errs.NewValueIsRequiredError(fmt.Sprintf("categories[%d].name", ci)))
		}

		category := Category{id: cp.ID, name: cp.Name, rank: cp.Rank, items: make([]Item, 0, len(cp.Items))}
		for ii, ip := range cp.Items {
			item, err := newItem(cp.ID, ip, fmt.Sprintf("categories[%d].items[%d]", ci, ii))
			if err != nil {
				problems = append(problems, err)
				continue
			}
			if _, dup := items[item.id]; dup {
				problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
					fmt.Sprintf("categories[%d].items[%d].id", ci, ii), fmt.Errorf("%w: %q", ErrDuplicateItemID, item.id)))
				continue
			}
			items[item.id] = item
			category.items = append(category.items, item)
		}
		categories = append(categories, category)
	}

	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].rank < categories[j].rank
	})

	return &Snapshot{version: version, categories: categories, items: items}, nil
}

func newItem(categoryID string, ip ItemPayload, path string) (Item, error) {
	var problems []error
	if ip.ID == "" {
		problems = append(problems, errs.NewValueIsRequiredError(path+".id"))
	}
	if ip.Name == "" {
		problems = append(problems, errs.NewValueIsRequiredError(path+".name"))
	}

	var price kernel.Money
	if ip.Price == nil {
		problems = append(problems, errs.NewValueIsRequiredError(path+".price"))
	} else {
		p, err := kernel.NewMoney(*ip.Price)
		if err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(path+".price", err))
		}
		price = p
	}

	if len(problems) > 0 {
		return Item{}, errors.Join(problems...)
	}

	available := true
	if ip.Available != nil {
		available = *ip.Available
	}

	return Item{id: ip.ID, categoryID: categoryID, name: ip.Name, price: price, available: available}, nil
}

// Version is the token consumers compare to detect a stale copy.
func (s *Snapshot) Version() string {
	return s.version
}

// Categories returns the categories ordered by rank. The slice is a copy.
func (s *Snapshot) Categories() []Category {
	categories := make([]Category, len(s.categories))
	copy(categories, s.categories)
	return categories
}

// Item looks an item up by id.
func (s *Snapshot) Item(id string) (Item, bool) {
	item, ok := s.items[id]
	return item, ok
}

func (s *Snapshot) ItemCount() int {
	return len(s.items)
}
