package css

import "fmt"

// StylesheetRef is a reference to a stylesheet which could be bound after the
// referring import has been created. This is the only way to author cyclic
// imports with immutable nodes. Reference may be bound only once.
type StylesheetRef struct {
	Name  string
	sheet *Stylesheet
}

// NewRef creates an unbound reference, name is used for diagnostics only.
func NewRef(name string) *StylesheetRef {
	return &StylesheetRef{Name: name}
}

// RefTo creates reference bound to s.
func RefTo(s *Stylesheet) *StylesheetRef {
	return &StylesheetRef{sheet: s}
}

// Bind sets referenced stylesheet.
func (r *StylesheetRef) Bind(s *Stylesheet) error {
	if r.sheet != nil {
		return fmt.Errorf("stylesheet reference %q is already bound", r.Name)
	}
	if s == nil {
		return fmt.Errorf("stylesheet reference %q cannot be bound to nothing", r.Name)
	}
	r.sheet = s
	return nil
}

// Stylesheet returns referenced stylesheet or nil if reference was never
// bound.
func (r *StylesheetRef) Stylesheet() *Stylesheet {
	if r == nil {
		return nil
	}
	return r.sheet
}

func (r *StylesheetRef) String() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("%p", r.sheet)
}
