package compiler

// ProjectOverlay returns the overlay a project reads its units from.
func ProjectOverlay(p *Project) *OverlayFS {
	return p.overlay
}
