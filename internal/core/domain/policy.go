package domain

// Authorization predicates. Each lifecycle operation asks exactly one of
// these instead of comparing role strings inline.

// CanManageMission reports whether p may update, archive or delete a mission
// created by creatorID.
func CanManageMission(p Principal, creatorID uint) bool {
	return p.Role == RoleNGO && p.UserID == creatorID
}

// CanDecide reports whether p may accept or reject applications to a mission
// created by creatorID.
func CanDecide(p Principal, missionCreatorID uint) bool {
	return CanManageMission(p, missionCreatorID)
}

// CanApply reports whether p may submit applications
func CanApply(p Principal) bool {
	return p.Role == RoleVolunteer
}

// CanWithdraw reports whether p may withdraw an application owned by volunteerID
func CanWithdraw(p Principal, volunteerID uint) bool {
	return p.Role == RoleVolunteer && p.UserID == volunteerID
}

// CanViewApplication reports whether p may read an application: its
// applicant and the mission's creator may.
func CanViewApplication(p Principal, volunteerID, missionCreatorID uint) bool {
	return p.UserID == volunteerID || CanManageMission(p, missionCreatorID) || p.Role == RoleAdmin
}

// CanCreateMission reports whether p may post missions
func CanCreateMission(p Principal) bool {
	return p.Role == RoleNGO
}

// CanVerifyNGO reports whether p may toggle NGO verification
func CanVerifyNGO(p Principal) bool {
	return p.Role == RoleAdmin
}
