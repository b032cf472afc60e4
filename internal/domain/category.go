package domain

// Category identifies one independently toggled reminder group.
type Category string

const (
	CategoryWater    Category = "water"
	CategoryWorkout  Category = "workout"
	CategoryMeals    Category = "meals"
	CategorySleep    Category = "sleep"
	CategoryProgress Category = "progress"
)

// Categories lists every category in a stable order.
var Categories = []Category{
	CategoryWater,
	CategoryWorkout,
	CategoryMeals,
	CategorySleep,
	CategoryProgress,
}

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryWater, CategoryWorkout, CategoryMeals, CategorySleep, CategoryProgress:
		return true
	}
	return false
}

// IDPrefix is the sink identifier prefix shared by every reminder of the
// category. Cancelling a category means cancelling this prefix.
func (c Category) IDPrefix() string {
	return string(c) + ":"
}

// ParseCategory validates a category path or payload parameter.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}
