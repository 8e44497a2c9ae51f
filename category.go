package zoo

import "fmt"

// Category classifies an animal. Rooms may hold animals of a single
// category at a time.
type Category string

const (
	CategoryDomestic Category = "DOMESTIC"
	CategoryWild     Category = "WILD"
	CategoryBird     Category = "BIRD"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryDomestic, CategoryWild, CategoryBird:
		return true
	}
	return false
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
