package models

import "strings"

// Permission is a bitmask over the fixed capability flags below.
type Permission uint32

const (
	PermFollow   Permission = 1
	PermComment  Permission = 2
	PermWrite    Permission = 4
	PermModerate Permission = 8
	PermAdmin    Permission = 16
)

// AllPermissions is the union of every known flag.
const AllPermissions = PermFollow | PermComment | PermWrite | PermModerate | PermAdmin

var permissionNames = []struct {
	perm Permission
	name string
}{
	{PermFollow, "follow"},
	{PermComment, "comment"},
	{PermWrite, "write"},
	{PermModerate, "moderate"},
	{PermAdmin, "admin"},
}

// Flags splits the mask into its single-bit permissions, lowest bit first.
// Bits outside the known domain are dropped.
func (p Permission) Flags() []Permission {
	var out []Permission
	for _, entry := range permissionNames {
		if p&entry.perm != 0 {
			out = append(out, entry.perm)
		}
	}
	return out
}

func (p Permission) String() string {
	var names []string
	for _, entry := range permissionNames {
		if p&entry.perm != 0 {
			names = append(names, entry.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
