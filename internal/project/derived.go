package project

// Derivation records where a derived directory's value came from.
type Derivation int

const (
	// Unset fields have no value yet.
	Unset Derivation = iota
	// Inherited fields track the project root and move when it moves.
	Inherited
	// Explicit fields were set by the caller and survive root changes.
	Explicit
)

func (d Derivation) String() string {
	switch d {
	case Inherited:
		return "inherited"
	case Explicit:
		return "explicit"
	default:
		return "unset"
	}
}

// DerivedPath is a directory that follows the root unless set explicitly.
type DerivedPath struct {
	state Derivation
	value string
}

func (d DerivedPath) State() Derivation { return d.state }
func (d DerivedPath) Value() string     { return d.value }

// follow recomputes an Unset or Inherited path from root.
func (d *DerivedPath) follow(root string) {
	if d.state == Explicit {
		return
	}
	d.state = Inherited
	d.value = root
}

func (d *DerivedPath) set(value string) {
	d.state = Explicit
	d.value = value
}
