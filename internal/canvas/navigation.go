package canvas

// NavigationState is a pure projection of the project used by slide
// navigation UIs. ThumbnailSize, IsNavigationVisible, and MaxCanvasCount are
// user preferences and never change as a side effect of generation or
// structural edits.
type NavigationState struct {
	ActiveCanvasID      string
	CanvasOrder         []string
	ThumbnailSize       int
	IsNavigationVisible bool
	MaxCanvasCount      int
}

// Recompute derives the navigation-visible fields from the project while
// carrying the preference fields over unchanged. It never mutates the
// project.
func (n NavigationState) Recompute(p Project) NavigationState {
	next := n
	next.ActiveCanvasID = ""
	next.CanvasOrder = make([]string, 0, len(p.Canvases))
	for _, c := range p.Canvases {
		next.CanvasOrder = append(next.CanvasOrder, c.ID)
		if c.IsActive {
			next.ActiveCanvasID = c.ID
		}
	}
	return next
}
