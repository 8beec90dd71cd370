package boundary

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tensorhvac/hvaccase/casefile"
	"github.com/tensorhvac/hvaccase/foamdict"
	"github.com/tensorhvac/hvaccase/types"
	"github.com/tensorhvac/hvaccase/units"
)

const (
	VelocityFile    = "0/U"
	TemperatureFile = "0/T"
)

func AuxFile(field string) string {
	return "0/" + field
}

var (
	inletPrefix    = types.Role_Inlet.String()
	outletPrefix   = types.Role_Outlet.String()
	objectPrefix   = types.Role_Object.String()
	wallPrefix     = types.Role_Wall.String()
	floorPatch     = types.Role_Floor.String()
	ceilingPatch   = types.Role_Ceiling.String()
	windPatch      = types.Role_Wind.String()
	legacyPrefixes = []string{inletPrefix, objectPrefix, wallPrefix}
)

// Counts is the number of patches per indexed role after a save
type Counts struct {
	Inlets, Outlets, Objects, Walls int
}

// CountsFor applies the group minimums: at least one inlet and one outlet
func CountsFor(cfg BoundaryConfig) Counts {
	return Counts{
		Inlets:  max(len(cfg.Inlets), 1),
		Outlets: max(len(cfg.Outlets), 1),
		Objects: len(cfg.Objects),
		Walls:   len(cfg.Walls),
	}
}

// readFields reads 0/U and 0/T and migrates legacy patch names, writing back only
// the files that changed
func readFields(ctx *casefile.Context) (u, t string, err error) {
	if u, err = ctx.Read(VelocityFile); err != nil {
		return
	}
	if t, err = ctx.Read(TemperatureFile); err != nil {
		return
	}
	nu, nt := NormalizeLegacy(u, legacyPrefixes...), NormalizeLegacy(t, legacyPrefixes...)
	if nu != u {
		if err = ctx.Write(VelocityFile, nu); err != nil {
			return
		}
		ctx.Logger().Info("renamed legacy patches", zap.String("path", VelocityFile))
	}
	if nt != t {
		if err = ctx.Write(TemperatureFile, nt); err != nil {
			return
		}
		ctx.Logger().Info("renamed legacy patches", zap.String("path", TemperatureFile))
	}
	return nu, nt, nil
}

// Load reads the current boundary condition set. Values come back in SI units
// (m/s and K) with the units recorded on each row.
func Load(ctx *casefile.Context) (cfg BoundaryConfig, err error) {
	var u, t string
	if u, t, err = readFields(ctx); err != nil {
		return cfg, fmt.Errorf("loading boundary conditions: %w", err)
	}
	nIn := max(MaxIndex(u, inletPrefix), MaxIndex(t, inletPrefix), 1)
	for i := 1; i <= nIn; i++ {
		cfg.Inlets = append(cfg.Inlets, loadFlow(u, t, PatchName(inletPrefix, i), foamdict.ExtractUniformValue))
	}
	nOut := max(MaxIndex(u, outletPrefix), MaxIndex(t, outletPrefix), 1)
	for i := 1; i <= nOut; i++ {
		cfg.Outlets = append(cfg.Outlets, loadFlow(u, t, PatchName(outletPrefix, i), outletValue))
	}
	nObj := max(MaxIndex(u, objectPrefix), MaxIndex(t, objectPrefix))
	for i := 1; i <= nObj; i++ {
		cfg.Objects = append(cfg.Objects, loadThermal(t, PatchName(objectPrefix, i), DefaultObjectT))
	}
	nWall := max(MaxIndex(u, wallPrefix), MaxIndex(t, wallPrefix))
	for i := 1; i <= nWall; i++ {
		cfg.Walls = append(cfg.Walls, loadThermal(t, PatchName(wallPrefix, i), DefaultWallT))
	}
	cfg.Floor = loadSurface(t, floorPatch)
	cfg.Ceiling = loadSurface(t, ceilingPatch)
	cfg.Wind = loadWind(u, t)
	ctx.Logger().Debug("loaded boundary conditions",
		zap.Int("inlets", nIn), zap.Int("outlets", nOut), zap.Int("objects", nObj), zap.Int("walls", nWall))
	return cfg, nil
}

func outletValue(inner string) string {
	if v := foamdict.ExtractInletValue(inner); v != "" {
		return v
	}
	return foamdict.ExtractUniformValue(inner)
}

func loadFlow(u, t, name string, extract func(string) string) FlowSpec {
	spec := FlowSpec{
		U:     DefaultInletU,
		UUnit: units.MetersPerSecond,
		T:     foamdict.FormatNumber(DefaultInletT),
		TUnit: units.Kelvin,
	}
	if b, ok := foamdict.GetBlock(u, name); ok {
		if v := extract(b.Inner); v != "" {
			spec.U = foamdict.FormatVector(foamdict.ParseVector(v))
		}
	}
	if b, ok := foamdict.GetBlock(t, name); ok {
		if v, ok := foamdict.ParseScalar(extract(b.Inner)); ok {
			spec.T = foamdict.FormatNumber(v)
		}
	}
	return spec
}

func thermalFromBlock(inner string, defaultT float64) ThermalSpec {
	spec := ThermalSpec{Mode: DetectMode(inner), TUnit: units.Kelvin}
	switch spec.Mode {
	case types.Mode_Fixed:
		v, ok := foamdict.ParseScalar(foamdict.ExtractUniformValue(inner))
		if !ok {
			v = defaultT
		}
		spec.T = foamdict.FormatNumber(v)
	case types.Mode_Flux:
		g, _ := foamdict.ParseScalar(foamdict.ExtractUniformGradient(inner))
		spec.Gradient = foamdict.FormatNumber(g)
	}
	return spec
}

func loadThermal(t, name string, defaultT float64) ThermalSpec {
	b, ok := foamdict.GetBlock(t, name)
	if !ok {
		return ThermalSpec{Mode: types.Mode_Driven, TUnit: units.Kelvin}
	}
	return thermalFromBlock(b.Inner, defaultT)
}

func loadSurface(t, name string) *ThermalSpec {
	b, ok := foamdict.GetBlock(t, name)
	if !ok {
		return &ThermalSpec{Mode: types.Mode_Fixed, TUnit: units.Kelvin}
	}
	spec := thermalFromBlock(b.Inner, DefaultSurfaceT)
	return &spec
}

func loadWind(u, t string) (w WindSpec) {
	w.TUnit = units.Kelvin
	if b, ok := foamdict.GetBlock(u, windPatch); ok {
		w.Enabled = true
		w.U = foamdict.ParseVector(outletValue(b.Inner))
	}
	if b, ok := foamdict.GetBlock(t, windPatch); ok {
		if v, ok := foamdict.ParseScalar(foamdict.ExtractUniformValue(b.Inner)); ok {
			w.T = foamdict.FormatNumber(v)
		}
	}
	return
}

// ApplyToText applies cfg to the velocity and temperature texts
func ApplyToText(u, t string, cfg BoundaryConfig) (string, string) {
	n := CountsFor(cfg)
	u, t = NormalizeLegacy(u, legacyPrefixes...), NormalizeLegacy(t, legacyPrefixes...)

	inlet := func(i int) FlowSpec {
		if i <= len(cfg.Inlets) {
			return cfg.Inlets[i-1]
		}
		return FlowSpec{}
	}
	u = Reconcile(u, Group{
		Prefix: inletPrefix, Count: n.Inlets,
		Body:  func(i int) []string { return fixedValueBody(inlet(i).Velocity()) },
		Value: func(i int) string { return inlet(i).Velocity() },
	})
	t = Reconcile(t, Group{
		Prefix: inletPrefix, Count: n.Inlets,
		Body:  func(i int) []string { return fixedValueBody(inlet(i).Temperature(DefaultInletT)) },
		Value: func(i int) string { return inlet(i).Temperature(DefaultInletT) },
	})

	outlet := func(i int) FlowSpec {
		if i <= len(cfg.Outlets) {
			return cfg.Outlets[i-1]
		}
		return FlowSpec{}
	}
	u = Reconcile(u, Group{
		Prefix: outletPrefix, Count: n.Outlets, Overwrite: true,
		Body: func(i int) []string { return inletOutletBody(outlet(i).Velocity()) },
	})
	t = Reconcile(t, Group{
		Prefix: outletPrefix, Count: n.Outlets, Overwrite: true,
		Body: func(i int) []string { return inletOutletBody(outlet(i).Temperature(DefaultOutletT)) },
	})

	u, t = applyThermalGroup(u, t, objectPrefix, cfg.Objects, DefaultObjectT)
	u, t = applyThermalGroup(u, t, wallPrefix, cfg.Walls, DefaultWallT)

	if cfg.Floor != nil {
		t = foamdict.SetBody(t, floorPatch, cfg.Floor.Body(DefaultSurfaceT))
	}
	if cfg.Ceiling != nil {
		t = foamdict.SetBody(t, ceilingPatch, cfg.Ceiling.Body(DefaultSurfaceT))
	}
	if cfg.Wind.Enabled {
		u = foamdict.SetBody(u, windPatch, inletOutletBody(cfg.Wind.Velocity()))
		if k, ok := cfg.Wind.Temperature(); ok {
			t = foamdict.SetBody(t, windPatch, fixedValueBody(k))
		}
	}
	return u, t
}

func applyThermalGroup(u, t, prefix string, specs []ThermalSpec, defaultT float64) (string, string) {
	u = Reconcile(u, Group{
		Prefix: prefix, Count: len(specs),
		Body: func(int) []string { return noSlipBody },
	})
	t = Reconcile(t, Group{
		Prefix: prefix, Count: len(specs), Overwrite: true,
		Body: func(i int) []string { return specs[i-1].Body(defaultT) },
	})
	return u, t
}

// ApplyAux regenerates one auxiliary field text from the template table
func ApplyAux(text, field string, n Counts) string {
	text = foamdict.EnsureBlock(text, "boundaryField")
	text = NormalizeLegacy(text, legacyPrefixes...)
	groups := []struct {
		role  types.PatchRole
		count int
	}{
		{types.Role_Inlet, n.Inlets},
		{types.Role_Object, n.Objects},
		{types.Role_Wall, n.Walls},
	}
	for _, g := range groups {
		body, _ := AuxBody(field, g.role)
		text = Reconcile(text, Group{
			Prefix: g.role.String(), Count: g.count, Overwrite: true,
			Body: func(int) []string { return body },
		})
	}
	return text
}

// Apply writes cfg to the case: 0/U, then 0/T, then each auxiliary field in AuxFields
// order. The paths written are returned, including those written before a failure.
// Missing auxiliary files are skipped.
func Apply(ctx *casefile.Context, cfg BoundaryConfig) (written []string, err error) {
	log := ctx.Logger()
	u, t, err := readFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("applying boundary conditions: %w", err)
	}
	u, t = ApplyToText(u, t, cfg)

	if err = ctx.Write(VelocityFile, u); err != nil {
		return written, err
	}
	written = append(written, VelocityFile)
	if err = ctx.Write(TemperatureFile, t); err != nil {
		return written, err
	}
	written = append(written, TemperatureFile)

	n := CountsFor(cfg)
	for _, field := range AuxFields {
		var (
			rel  = AuxFile(field)
			text string
		)
		if text, err = ctx.Read(rel); err != nil {
			if casefile.IsNotExist(err) {
				log.Warn("auxiliary field missing, skipped", zap.String("path", rel))
				continue
			}
			return written, err
		}
		if err = ctx.Write(rel, ApplyAux(text, field, n)); err != nil {
			return written, err
		}
		written = append(written, rel)
	}
	log.Info("applied boundary conditions",
		zap.Int("inlets", n.Inlets), zap.Int("outlets", n.Outlets),
		zap.Int("objects", n.Objects), zap.Int("walls", n.Walls),
		zap.Strings("written", written))
	return written, nil
}
