package models

import (
	"strings"

	"github.com/hashicorp/go-set/v3"
)

const (
	PermViewClients        = "viewClients"
	PermUnassignedClients  = "unassignedClients"
	PermAddOrEditGroups    = "addOrEditGroups"
	PermDeleteClients      = "deleteClients"
	PermAddEditContent     = "addEditContent"
	PermManageTeamMembers  = "manageTeamMembers"
	PermManageIntegrations = "manageIntegrations"
)

// FullPermissions is granted to a team creator.
var FullPermissions = []string{
	PermViewClients,
	PermUnassignedClients,
	PermAddOrEditGroups,
	PermDeleteClients,
	PermAddEditContent,
	PermManageTeamMembers,
	PermManageIntegrations,
}

func JoinPermissions(perms []string) string {
	return strings.Join(perms, ",")
}

// VerifyPermissions reports whether every given permission is a known one.
func VerifyPermissions(perms []string) bool {
	known := set.From(FullPermissions)
	return known.ContainsSlice(perms)
}
