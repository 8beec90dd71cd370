package InputParameters

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/tensorhvac/hvaccase/boundary"
	"github.com/tensorhvac/hvaccase/mesh"
	"github.com/tensorhvac/hvaccase/settings"
	"github.com/tensorhvac/hvaccase/units"
)

// Parameters obtained from the YAML case parameter file. Each section is optional;
// a command only applies the section it owns.
type CaseParameters struct {
	Title      string                   `json:"Title"`
	Boundaries *boundary.BoundaryConfig `json:"Boundaries,omitempty"`
	Mesh       *mesh.Settings           `json:"Mesh,omitempty"`
	General    *settings.General        `json:"General,omitempty"`
	Solver     *settings.Solver         `json:"Solver,omitempty"`
}

var ErrNoSection = errors.New("section missing from case parameters")

func (cp *CaseParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, cp); err != nil {
		return err
	}
	return cp.Validate()
}

// Validate rejects unknown units and resolution presets before any file is touched
func (cp *CaseParameters) Validate() error {
	tUnit := func(where string, u units.TemperatureUnit) error {
		if u != "" && !units.ValidTemperatureUnit(u) {
			return fmt.Errorf("%s: unknown temperature unit %q", where, u)
		}
		return nil
	}
	var errs []error
	if b := cp.Boundaries; b != nil {
		for i, f := range append(append([]boundary.FlowSpec{}, b.Inlets...), b.Outlets...) {
			if f.UUnit != "" && !units.ValidVelocityUnit(f.UUnit) {
				errs = append(errs, fmt.Errorf("Boundaries row %d: unknown velocity unit %q", i+1, f.UUnit))
			}
			errs = append(errs, tUnit(fmt.Sprintf("Boundaries row %d", i+1), f.TUnit))
		}
		for i, s := range append(append([]boundary.ThermalSpec{}, b.Objects...), b.Walls...) {
			errs = append(errs, tUnit(fmt.Sprintf("Boundaries surface %d", i+1), s.TUnit))
		}
		errs = append(errs, tUnit("Boundaries.Wind", b.Wind.TUnit))
	}
	if m := cp.Mesh; m != nil {
		switch m.GlobalResolution {
		case "", "coarse", "medium", "fine":
		case "manual":
			if _, err := m.GlobalDelta(); err != nil {
				errs = append(errs, fmt.Errorf("Mesh: %w", err))
			}
		default:
			errs = append(errs, fmt.Errorf("Mesh: unknown global resolution %q", m.GlobalResolution))
		}
		if _, ok := mesh.LocalLevels[m.LocalResolution]; m.LocalResolution != "" && !ok {
			errs = append(errs, fmt.Errorf("Mesh: unknown local resolution %q", m.LocalResolution))
		}
	}
	if g := cp.General; g != nil {
		errs = append(errs, tUnit("General.InitialTUnit", g.InitialTUnit))
	}
	return errors.Join(errs...)
}

func (cp *CaseParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", cp.Title)
	if b := cp.Boundaries; b != nil {
		fmt.Printf("[%d]\t\t\t= Inlets\n", len(b.Inlets))
		fmt.Printf("[%d]\t\t\t= Outlets\n", len(b.Outlets))
		fmt.Printf("[%d]\t\t\t= Objects\n", len(b.Objects))
		fmt.Printf("[%d]\t\t\t= Walls\n", len(b.Walls))
		fmt.Printf("[%v]\t\t\t= Wind\n", b.Wind.Enabled)
	}
	if m := cp.Mesh; m != nil {
		fmt.Printf("[%s]\t\t\t= Global Resolution\n", m.GlobalResolution)
		fmt.Printf("[%s]\t\t\t= Local Resolution\n", m.LocalResolution)
		fmt.Printf("%8.5f\t\t= Included Angle\n", m.Angle())
	}
	if g := cp.General; g != nil {
		fmt.Printf("[%s %s]\t\t= Initial T\n", g.InitialT, g.InitialTUnit)
		fmt.Printf("[%s]\t\t= Gravity\n", g.Gravity)
	}
	if s := cp.Solver; s != nil {
		keys := map[string]string{
			"startTime":     s.StartTime,
			"endTime":       s.EndTime,
			"deltaT":        s.DeltaT,
			"writeInterval": s.WriteInterval,
		}
		names := make([]string, 0, len(keys))
		for k := range keys {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Printf("Solver[%s] = %s\n", k, keys[k])
		}
		fmt.Printf("[%d]\t\t\t= Subdomains\n", s.Subdomains)
	}
}

// Marshal renders the parameters back to YAML, the form Parse reads
func (cp *CaseParameters) Marshal() ([]byte, error) {
	return yaml.Marshal(cp)
}

// Section returns ErrNoSection naming the section when it is nil
func Section(name string, present bool) error {
	if !present {
		return fmt.Errorf("%s: %w", name, ErrNoSection)
	}
	return nil
}
