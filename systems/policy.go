package systems

// CompatPolicy is the blocking predicate: an explicit table over
// (obstacle class, topology kind) deciding which classes impede which kinds.
// Fragile kinds are blocked by every class regardless of the table. This is
// the single source of truth for shape/obstacle interaction and is deliberately
// decoupled from SwitchPolicy: a class can block without forcing a switch, and
// force a switch without blocking.
type CompatPolicy struct {
	blocks  []map[string]bool // indexed by Class
	fragile map[string]bool
}

// NewCompatPolicy creates an empty policy covering numClasses obstacle classes.
func NewCompatPolicy(numClasses int) *CompatPolicy {
	blocks := make([]map[string]bool, numClasses)
	for i := range blocks {
		blocks[i] = make(map[string]bool)
	}
	return &CompatPolicy{
		blocks:  blocks,
		fragile: make(map[string]bool),
	}
}

// SetBlocks marks the class as blocking the given topology kind.
func (p *CompatPolicy) SetBlocks(class Class, kind string) {
	p.blocks[class][kind] = true
}

// SetFragile marks a kind as blocked by every obstacle class.
func (p *CompatPolicy) SetFragile(kind string) {
	p.fragile[kind] = true
}

// Blocks reports whether the class impedes the kind's movement.
func (p *CompatPolicy) Blocks(class Class, kind string) bool {
	if p.fragile[kind] {
		return true
	}
	if int(class) >= len(p.blocks) {
		return false
	}
	return p.blocks[class][kind]
}

// NumClasses returns the number of classes the table covers.
func (p *CompatPolicy) NumClasses() int {
	return len(p.blocks)
}

// SwitchPolicy maps an obstacle class to the topology kind the body must
// assume when it passes near that class. At most one kind per class.
type SwitchPolicy struct {
	required map[Class]string
}

// NewSwitchPolicy creates an empty switch policy.
func NewSwitchPolicy() *SwitchPolicy {
	return &SwitchPolicy{required: make(map[Class]string)}
}

// Set records that proximity to the class forces the given kind.
func (p *SwitchPolicy) Set(class Class, kind string) {
	p.required[class] = kind
}

// RequiredKind returns the kind forced by the class, if any.
func (p *SwitchPolicy) RequiredKind(class Class) (string, bool) {
	kind, ok := p.required[class]
	return kind, ok
}
