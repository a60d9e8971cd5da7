package empty

// Point is not mapped to a table.
type Point struct {
	X, Y int
}
