package domain

// Role identifies the privilege level carried by a token.
type Role string

// RoleAdmin is the only recognized privileged role.
const RoleAdmin Role = "admin"
