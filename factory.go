package depot

type factory struct{}

var Factory factory

func (f factory) NewCatalog() *Catalog {
	return newCatalog()
}

func (f factory) NewWorld(catalog *Catalog, cfg Config) (World, error) {
	return newWorld(catalog, cfg)
}

func (f factory) NewQuery() *Query {
	return newQuery()
}

func (f factory) NewCursor(decl Declaration, w World) *Cursor {
	return newCursor(decl, w.(*world))
}

func (f factory) NewSystemList(systems ...System) *SystemList {
	list := &SystemList{}
	for _, s := range systems {
		list.AddSystem(s)
	}
	return list
}

// FactoryNewComponent registers T and returns its typed accessor.
func FactoryNewComponent[T any](catalog *Catalog) (AccessibleComponent[T], error) {
	id, err := Register[T](catalog)
	if err != nil {
		return AccessibleComponent[T]{}, err
	}
	return AccessibleComponent[T]{ID: id}, nil
}

func FactoryNewCache[T any](cap int) Cache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int),
		maxCapacity: cap,
	}
}
