package models

type Role string

const (
	RolePatient Role = "Patient"
	RoleDoctor  Role = "Doctor"
	RoleAdmin   Role = "Admin"
	RoleNurse   Role = "Nurse"
	RoleChemist Role = "Chemist"
)

// RoleSpec describes per-role behavior. New roles are added by extending the
// table, not by adding branches to the code paths that consume it.
type RoleSpec struct {
	IdPrefix        string // staff/patient id prefix, e.g. "911" -> "911-0042"
	PeersSameRole   bool   // whether two accounts of this role may friend each other
	RequiresLicense bool
}

var RoleTable = map[Role]RoleSpec{
	RolePatient: {IdPrefix: "944", PeersSameRole: false, RequiresLicense: false},
	RoleDoctor:  {IdPrefix: "911", PeersSameRole: true, RequiresLicense: true},
	RoleNurse:   {IdPrefix: "922", PeersSameRole: true, RequiresLicense: true},
	RoleChemist: {IdPrefix: "933", PeersSameRole: true, RequiresLicense: true},
	RoleAdmin:   {IdPrefix: "900", PeersSameRole: true, RequiresLicense: false},
}

func (r Role) Valid() bool {
	_, ok := RoleTable[r]
	return ok
}
