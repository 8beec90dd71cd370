package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type PatchRole uint8

const (
	Role_None PatchRole = iota
	Role_Ceiling
	Role_Floor
	Role_Inlet
	Role_Object
	Role_Outlet
	Role_Wall
	Role_Wind
)

var RoleNameMap = map[string]PatchRole{
	"ceiling": Role_Ceiling,
	"floor":   Role_Floor,
	"inlet":   Role_Inlet,
	"object":  Role_Object,
	"outlet":  Role_Outlet,
	"wall":    Role_Wall,
	"wind":    Role_Wind,
}

var rolePrefix = [...]string{"", "ceiling", "floor", "inlet", "object", "outlet", "wall", "wind"}

// IndexedRoles are the roles whose patches are numbered <prefix>_<n>
var IndexedRoles = []PatchRole{Role_Inlet, Role_Object, Role_Outlet, Role_Wall}

// LegacyRoles may still appear un-numbered in older cases
var LegacyRoles = []PatchRole{Role_Inlet, Role_Object, Role_Wall}

func (r PatchRole) String() string {
	if int(r) < len(rolePrefix) {
		return rolePrefix[r]
	}
	return "PatchRole(" + strconv.Itoa(int(r)) + ")"
}

func (r PatchRole) Indexed() bool {
	switch r {
	case Role_Inlet, Role_Object, Role_Outlet, Role_Wall:
		return true
	}
	return false
}

func NewPatchRole(label string) PatchRole {
	return RoleNameMap[strings.ToLower(strings.TrimSpace(label))]
}

// NewPatchName returns the patch name for a role, "inlet_3" for indexed roles and
// "floor" for the single ones. An index below one yields the bare prefix.
func NewPatchName(role PatchRole, index int) string {
	if !role.Indexed() || index < 1 {
		return role.String()
	}
	return role.String() + "_" + strconv.Itoa(index)
}

// ParsePatchName is the inverse of NewPatchName. Index 0 is returned for un-numbered
// names. Non-canonical numbers such as "inlet_01" or "inlet_0" are rejected.
func ParsePatchName(name string) (role PatchRole, index int, ok bool) {
	prefix, num, numbered := strings.Cut(name, "_")
	if role = RoleNameMap[prefix]; role == Role_None {
		return Role_None, 0, false
	}
	if !numbered {
		return role, 0, true
	}
	if !role.Indexed() || num == "" || num[0] == '0' {
		return Role_None, 0, false
	}
	var err error
	if index, err = strconv.Atoi(num); err != nil || index < 1 {
		return Role_None, 0, false
	}
	return role, index, true
}

// BoundaryMode is the temperature treatment of a thermal patch
type BoundaryMode uint8

const (
	Mode_Driven BoundaryMode = iota // zeroGradient
	Mode_Fixed                      // fixedValue
	Mode_Flux                       // fixedGradient
)

var ModeNameMap = map[string]BoundaryMode{
	"driven": Mode_Driven,
	"fixed":  Mode_Fixed,
	"flux":   Mode_Flux,
}

func (m BoundaryMode) String() string {
	switch m {
	case Mode_Driven:
		return "driven"
	case Mode_Fixed:
		return "fixed"
	case Mode_Flux:
		return "flux"
	}
	return "BoundaryMode(" + strconv.Itoa(int(m)) + ")"
}

func NewBoundaryMode(label string) (BoundaryMode, error) {
	m, ok := ModeNameMap[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return Mode_Driven, fmt.Errorf("unknown boundary mode %q, must be one of driven, fixed, flux", label)
	}
	return m, nil
}

func (m BoundaryMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *BoundaryMode) UnmarshalJSON(data []byte) (err error) {
	var label string
	if err = json.Unmarshal(data, &label); err != nil {
		return err
	}
	*m, err = NewBoundaryMode(label)
	return
}
