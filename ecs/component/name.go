package component

// Name labels an entity for lookups, logs and the debug overlay.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
