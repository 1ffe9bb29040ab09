/*
store.go - Persistence interface consumed by the engine

PURPOSE:
  Defines what the engine needs from the storage collaborator. Persistence
  format, sync and deletion semantics belong to the implementation.

KEY INTERFACES:
  AppointmentStore: list / get / upsert appointments
  StaffStore:       get / upsert / list staff resources
  ClientStore:      list clients (read-only to the engine)
  Store:            all of the above

TENANT SCOPE:
  Every read takes the caller's tenant. Lookups by id return
  *ResourceNotFoundError when the id is unknown and *TenantScopeError when
  the id exists under another tenant. The engine re-checks TenantID on every
  record it receives.

IMPLEMENTATIONS:
  - studio/store/memory.go: In-memory for tests and development
  - store/sqlite/sqlite.go: SQLite
*/
package studio

import "context"

type AppointmentStore interface {
	// ListAppointments returns the tenant's appointments ordered by start.
	// An empty artistID returns every artist's appointments.
	ListAppointments(ctx context.Context, tenantID, artistID string) ([]Appointment, error)

	GetAppointment(ctx context.Context, tenantID, appointmentID string) (Appointment, error)

	// SaveAppointment upserts by ID.
	SaveAppointment(ctx context.Context, a Appointment) error
}

type StaffStore interface {
	GetStaffResource(ctx context.Context, tenantID, staffID string) (StaffResource, error)
	SaveStaffResource(ctx context.Context, s StaffResource) error
	ListStaffResources(ctx context.Context, tenantID string) ([]StaffResource, error)
}

type ClientStore interface {
	ListClients(ctx context.Context, tenantID string) ([]Client, error)
}

type Store interface {
	AppointmentStore
	StaffStore
	ClientStore
}

// TenantLister is implemented by stores that can enumerate tenants.
// Used by background sweeps that are not bound to one caller.
type TenantLister interface {
	ListTenants(ctx context.Context) ([]string, error)
}
