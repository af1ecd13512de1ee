package faculty

// Faculty is a catalog entry holding its departments as an ordered list.
// Faculty names are unique across the catalog; department names are unique
// within their faculty.
type Faculty struct {
	ID          string
	Name        string
	Departments []Department
}

type Department struct {
	ID   string
	Name string
}
