package project

import (
	"github.com/cockroachdb/errors"

	"projio/internal/datestamp"
	"projio/internal/template"
)

// Overrides lists the settings Using may change. Nil fields are left alone.
type Overrides struct {
	Root            *string
	Inputs          *string
	Outputs         *string
	UseDatestamp    *bool
	DatestampIn     *template.Placement
	DatestampFormat *string
	AutoCreate      *bool
	DryRun          *bool
}

// Using applies o, runs fn and restores the overridden settings afterwards,
// also when fn returns an error or panics. Settings o leaves nil keep
// whatever fn does to them. Invalid overrides are rejected before fn runs
// and leave the project untouched.
//
// Overrides are visible to other goroutines sharing p while fn runs.
func (p *ProjectIO) Using(o Overrides, fn func(*ProjectIO) error) error {
	p.mu.Lock()
	saved := p.st
	if err := p.applyLocked(o); err != nil {
		p.restoreLocked(o, saved)
		p.mu.Unlock()
		return err
	}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.restoreLocked(o, saved)
		p.mu.Unlock()
	}()
	return fn(p)
}

// restoreLocked puts back the fields o touches. A root override also moves
// inherited inputs and outputs, so both are restored with it.
func (p *ProjectIO) restoreLocked(o Overrides, saved state) {
	if o.Root != nil {
		p.st.root = saved.root
		p.st.iroot = saved.iroot
		p.st.oroot = saved.oroot
	}
	if o.Inputs != nil {
		p.st.iroot = saved.iroot
	}
	if o.Outputs != nil {
		p.st.oroot = saved.oroot
	}
	if o.UseDatestamp != nil {
		p.st.useDatestamp = saved.useDatestamp
	}
	if o.DatestampIn != nil {
		p.st.datestampIn = saved.datestampIn
	}
	if o.DatestampFormat != nil {
		p.st.datestampFormat = saved.datestampFormat
	}
	if o.AutoCreate != nil {
		p.st.autoCreate = saved.autoCreate
	}
	if o.DryRun != nil {
		p.st.dryRun = saved.dryRun
	}
}

func (p *ProjectIO) applyLocked(o Overrides) error {
	if o.Root != nil {
		if err := p.setRootLocked(*o.Root); err != nil {
			return err
		}
	}
	if o.Inputs != nil {
		abs, err := p.pinLocked(*o.Inputs)
		if err != nil {
			return err
		}
		p.st.iroot.set(abs)
	}
	if o.Outputs != nil {
		abs, err := p.pinLocked(*o.Outputs)
		if err != nil {
			return err
		}
		p.st.oroot.set(abs)
	}
	if o.UseDatestamp != nil {
		p.st.useDatestamp = *o.UseDatestamp
	}
	if o.DatestampIn != nil {
		parsed, ok := template.ParsePlacement(string(*o.DatestampIn))
		if !ok {
			return errors.Newf("PIO_PLACEMENT: invalid datestamp placement %q", *o.DatestampIn)
		}
		p.st.datestampIn = parsed
	}
	if o.DatestampFormat != nil {
		if err := datestamp.Validate(*o.DatestampFormat); err != nil {
			return err
		}
		p.st.datestampFormat = *o.DatestampFormat
	}
	if o.AutoCreate != nil {
		p.st.autoCreate = *o.AutoCreate
	}
	if o.DryRun != nil {
		p.st.dryRun = *o.DryRun
	}
	return nil
}
