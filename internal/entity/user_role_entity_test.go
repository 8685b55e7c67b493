package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRoleHasPermission(t *testing.T) {
	role := &UserRole{
		Id:          uuid.New(),
		Name:        "moderator",
		Level:       50,
		Permissions: []string{"users.read", "Notifications.Broadcast", "  admin.reports  "},
		IsActive:    true,
	}

	tests := []struct {
		permission string
		want       bool
	}{
		{"users.read", true},
		{"USERS.READ", true},
		{"  users.read ", true},
		{"notifications.broadcast", true}, // stored value is normalized too
		{"admin.reports", true},
		{"users.write", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.permission, func(t *testing.T) {
			if got := role.HasPermission(tt.permission); got != tt.want {
				t.Errorf("HasPermission(%q) = %v, want %v", tt.permission, got, tt.want)
			}
		})
	}
}

func TestRolePermissionSets(t *testing.T) {
	role := &UserRole{Permissions: []string{"a", "b"}}

	if !role.HasAnyPermission("x", "b") {
		t.Error("HasAnyPermission should match b")
	}
	if role.HasAnyPermission("x", "y") {
		t.Error("HasAnyPermission should not match")
	}
	if !role.HasAllPermissions("a", "b") {
		t.Error("HasAllPermissions should match a and b")
	}
	if role.HasAllPermissions("a", "c") {
		t.Error("HasAllPermissions should fail on c")
	}
}

func TestRoleLevelComparisons(t *testing.T) {
	admin := &UserRole{Level: 100}
	user := &UserRole{Level: 10}
	peer := &UserRole{Level: 10}

	if !admin.IsHigherLevel(user) {
		t.Error("admin should outrank user")
	}
	if admin.IsLowerLevel(user) {
		t.Error("admin should not be below user")
	}
	if !user.IsSameLevel(peer) {
		t.Error("equal levels should compare equal")
	}
	if admin.IsHigherLevel(nil) || admin.IsSameLevel(nil) || admin.IsLowerLevel(nil) {
		t.Error("comparisons against nil should be false")
	}
}

func TestSystemRoleProtection(t *testing.T) {
	system := &UserRole{Name: RoleNameAdmin, IsSystem: true, IsActive: true}

	if err := system.Deactivate(); err == nil {
		t.Error("Deactivate() on a system role should error")
	}
	if !system.IsActive {
		t.Error("failed Deactivate() must not flip IsActive")
	}

	custom := &UserRole{Name: "auditor", IsSystem: false, IsActive: true}
	if err := custom.Deactivate(); err != nil {
		t.Errorf("Deactivate() on a custom role error = %v", err)
	}
	if custom.IsActive {
		t.Error("Deactivate() should clear IsActive")
	}

	custom.Activate()
	if !custom.IsActive {
		t.Error("Activate() should set IsActive")
	}
}

func TestAssignmentValidity(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name        string
		assignment  UserRoleAssignment
		wantExpired bool
		wantValid   bool
	}{
		{
			name:        "active without expiry",
			assignment:  UserRoleAssignment{IsActive: true},
			wantExpired: false,
			wantValid:   true,
		},
		{
			name:        "active with future expiry",
			assignment:  UserRoleAssignment{IsActive: true, ExpiresAt: &future},
			wantExpired: false,
			wantValid:   true,
		},
		{
			name:        "active but expired",
			assignment:  UserRoleAssignment{IsActive: true, ExpiresAt: &past},
			wantExpired: true,
			wantValid:   false,
		},
		{
			name:        "revoked",
			assignment:  UserRoleAssignment{IsActive: false},
			wantExpired: false,
			wantValid:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.assignment.IsExpired(); got != tt.wantExpired {
				t.Errorf("IsExpired() = %v, want %v", got, tt.wantExpired)
			}
			if got := tt.assignment.IsValid(); got != tt.wantValid {
				t.Errorf("IsValid() = %v, want %v", got, tt.wantValid)
			}
		})
	}
}
