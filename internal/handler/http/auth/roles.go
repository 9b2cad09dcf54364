package auth

import (
	"slices"
	"strings"

	authuc "municipal-portal/internal/usecase/auth"
)

// Permission is the set of methods and paths a role may use on protected
// endpoints.
type Permission struct {
	AllowedMethods []string
	// AllowedPaths supports "/*" for everything and "/prefix/*" for a subtree.
	AllowedPaths []string
}

// RolePermissions maps each role to its permissions. Viewers sign in to the
// panel but cannot change anything.
var RolePermissions = map[string]Permission{
	authuc.RoleAdmin: {
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedPaths:   []string{"/*"},
	},
	authuc.RoleViewer: {
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedPaths:   []string{"/api/*", "/swagger/*"},
	},
}

// checkRolePermission reports whether role may call method on path. Unknown
// and empty roles are denied.
func checkRolePermission(role, method, path string) bool {
	perm, ok := RolePermissions[role]
	if !ok {
		return false
	}
	if !slices.Contains(perm.AllowedMethods, method) {
		return false
	}
	return matchesPathPattern(path, perm.AllowedPaths)
}

// matchesPathPattern: "/api/*" matches "/api" and everything below it.
func matchesPathPattern(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "/*" {
			return true
		}
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}
		if path == pattern {
			return true
		}
	}
	return false
}
