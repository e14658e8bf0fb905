package domain

// Status is the outcome of the latest request of one operation category.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusRejected:
		return "rejected"
	default:
		return "idle"
	}
}

// Category names one async operation category. Each has its own tracker.
type Category int

const (
	CategoryLoad Category = iota
	CategoryCreate
	CategoryUpdate
	CategoryDelete
)

// Categories lists every category in tracker order.
var Categories = []Category{CategoryLoad, CategoryCreate, CategoryUpdate, CategoryDelete}

func (c Category) String() string {
	switch c {
	case CategoryCreate:
		return "create"
	case CategoryUpdate:
		return "update"
	case CategoryDelete:
		return "delete"
	default:
		return "load"
	}
}
