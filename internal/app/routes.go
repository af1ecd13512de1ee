package app

import (
	"github.com/gorilla/mux"
	"github.com/univent/univent/pkg/user"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Accounts
	r.HandleFunc("/api/auth/signup", deps.UserHandler.SignUp).Methods("POST")
	r.HandleFunc("/api/auth/signin", deps.UserHandler.SignIn).Methods("POST")
	r.HandleFunc("/api/auth/change-password", deps.UserHandler.ChangePassword).Methods("PUT")
	r.HandleFunc("/api/auth/last-active", deps.UserHandler.LastActive).Methods("PUT")
	r.HandleFunc("/api/auth/all-users", requireRoles(deps.UserHandler.AllUsers, user.RoleAdmin)).Methods("GET")
	r.HandleFunc("/api/auth/update-user/{userId}", requireRoles(deps.UserHandler.UpdateUser, user.RoleAdmin)).Methods("PUT")
	r.HandleFunc("/api/auth/delete-user/{userId}", requireRoles(deps.UserHandler.DeleteUser, user.RoleAdmin)).Methods("DELETE")

	// Faculty catalog; the listing is public so the signup form can fill its
	// pickers, writes are administrator only.
	r.HandleFunc("/api/faculty", deps.FacultyHandler.ListFaculties).Methods("GET")
	r.HandleFunc("/api/faculty", requireRoles(deps.FacultyHandler.CreateFaculty, user.RoleAdmin)).Methods("POST")
	r.HandleFunc("/api/faculty/{facultyId}", requireRoles(deps.FacultyHandler.RenameFaculty, user.RoleAdmin)).Methods("PUT")
	r.HandleFunc("/api/faculty/{facultyId}", requireRoles(deps.FacultyHandler.DeleteFaculty, user.RoleAdmin)).Methods("DELETE")
	r.HandleFunc("/api/faculty/{facultyId}/department", requireRoles(deps.FacultyHandler.AddDepartment, user.RoleAdmin)).Methods("POST")
	r.HandleFunc("/api/faculty/{facultyId}/department/{departmentId}", requireRoles(deps.FacultyHandler.RenameDepartment, user.RoleAdmin)).Methods("PUT")
	r.HandleFunc("/api/faculty/{facultyId}/department/{departmentId}", requireRoles(deps.FacultyHandler.RemoveDepartment, user.RoleAdmin)).Methods("DELETE")

	// Clubs
	r.HandleFunc("/api/club", deps.ClubHandler.ListClubs).Methods("GET")
	r.HandleFunc("/api/club", requireRoles(deps.ClubHandler.CreateClub, user.RoleAdmin)).Methods("POST")
	r.HandleFunc("/api/club/validate", deps.ClubHandler.Validate).Methods("GET")
	r.HandleFunc("/api/club/{clubId}", requireRoles(deps.ClubHandler.UpdateClub, user.RoleAdmin)).Methods("PUT")
	r.HandleFunc("/api/club/{clubId}", requireRoles(deps.ClubHandler.DeleteClub, user.RoleAdmin)).Methods("DELETE")

	// Events
	r.HandleFunc("/api/event/create", deps.EventHandler.Create).Methods("POST")
	r.HandleFunc("/api/event/created-events", deps.EventHandler.CreatedEvents).Methods("GET")
	r.HandleFunc("/api/event/department-events",
		requireRoles(deps.EventHandler.DepartmentEvents, user.RoleHeadOfDepartment)).Methods("GET")
	r.HandleFunc("/api/event/faculty-events",
		requireRoles(deps.EventHandler.FacultyEvents, user.RoleDean)).Methods("GET")
	r.HandleFunc("/api/event/vc-events",
		requireRoles(deps.EventHandler.ChancellorEvents, user.RoleViceChancellor)).Methods("GET")
	r.HandleFunc("/api/event/approve/{eventId}",
		requireRoles(deps.EventHandler.Approve, user.RoleHeadOfDepartment, user.RoleDean, user.RoleViceChancellor)).Methods("PUT")
	r.HandleFunc("/api/event/reject/{eventId}",
		requireRoles(deps.EventHandler.Reject, user.RoleHeadOfDepartment, user.RoleDean, user.RoleViceChancellor)).Methods("PUT")
	r.HandleFunc("/api/event/event-edit/{eventId}", deps.EventHandler.Update).Methods("PUT")
	r.HandleFunc("/api/event/event-delete/{eventId}", deps.EventHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/event/events-approved", deps.EventHandler.Published).Methods("GET")
}
