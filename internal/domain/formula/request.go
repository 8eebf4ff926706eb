package formula

// Request is built fresh for every detected level change and never persisted
type Request struct {
	ActorID   string
	ActorName string

	PreviousLevel int
	NewLevel      int
	Known         KnownSet

	// Catalog is every recipe visible to the character, assembled from one or more sources
	Catalog []*Recipe
}

// Index maps recipe ids to catalog entries. The first entry wins for duplicate ids.
func Index(catalog []*Recipe) map[string]*Recipe {
	index := make(map[string]*Recipe, len(catalog))
	for _, recipe := range catalog {
		if recipe == nil || recipe.ID == "" {
			continue
		}
		if _, ok := index[recipe.ID]; ok {
			continue
		}
		index[recipe.ID] = recipe
	}
	return index
}

// Names returns the display names of recipes, in order
func Names(recipes []*Recipe) []string {
	names := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		names = append(names, recipe.Name)
	}
	return names
}

// IDs returns the ids of recipes, in order
func IDs(recipes []*Recipe) []string {
	ids := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		ids = append(ids, recipe.ID)
	}
	return ids
}
