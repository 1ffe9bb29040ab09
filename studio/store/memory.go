// Package store provides studio.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/studio-engine/studio"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	appointments map[string]studio.Appointment
	staff        map[string]studio.StaffResource
	clients      map[string]studio.Client
}

func NewMemory() *Memory {
	m := &Memory{}
	m.resetLocked()
	return m
}

func (m *Memory) resetLocked() {
	m.appointments = make(map[string]studio.Appointment)
	m.staff = make(map[string]studio.StaffResource)
	m.clients = make(map[string]studio.Client)
}

// Reset drops every record.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	return nil
}

// =============================================================================
// APPOINTMENTS
// =============================================================================

func (m *Memory) ListAppointments(_ context.Context, tenantID, artistID string) ([]studio.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []studio.Appointment
	for _, a := range m.appointments {
		if a.TenantID != tenantID {
			continue
		}
		if artistID != "" && a.ArtistID != artistID {
			continue
		}
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Start.Equal(result[j].Start) {
			return result[i].Start.Before(result[j].Start)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) GetAppointment(_ context.Context, tenantID, appointmentID string) (studio.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.appointments[appointmentID]
	if !ok {
		return studio.Appointment{}, &studio.ResourceNotFoundError{Kind: studio.KindAppointment, ID: appointmentID}
	}
	if err := studio.CheckTenant(studio.KindAppointment, appointmentID, tenantID, a.TenantID); err != nil {
		return studio.Appointment{}, err
	}
	return a, nil
}

func (m *Memory) SaveAppointment(_ context.Context, a studio.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.appointments[a.ID]; ok {
		if err := studio.CheckTenant(studio.KindAppointment, a.ID, a.TenantID, existing.TenantID); err != nil {
			return err
		}
	}
	m.appointments[a.ID] = a
	return nil
}

// =============================================================================
// STAFF RESOURCES
// =============================================================================

func (m *Memory) GetStaffResource(_ context.Context, tenantID, staffID string) (studio.StaffResource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.staff[staffID]
	if !ok {
		return studio.StaffResource{}, &studio.ResourceNotFoundError{Kind: studio.KindStaff, ID: staffID}
	}
	if err := studio.CheckTenant(studio.KindStaff, staffID, tenantID, s.TenantID); err != nil {
		return studio.StaffResource{}, err
	}
	return s, nil
}

func (m *Memory) SaveStaffResource(_ context.Context, s studio.StaffResource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.staff[s.ID]; ok {
		if err := studio.CheckTenant(studio.KindStaff, s.ID, s.TenantID, existing.TenantID); err != nil {
			return err
		}
	}
	m.staff[s.ID] = s
	return nil
}

func (m *Memory) ListStaffResources(_ context.Context, tenantID string) ([]studio.StaffResource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []studio.StaffResource
	for _, s := range m.staff {
		if s.TenantID == tenantID {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// =============================================================================
// CLIENTS
// =============================================================================

func (m *Memory) ListClients(_ context.Context, tenantID string) ([]studio.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []studio.Client
	for _, c := range m.clients {
		if c.TenantID == tenantID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// SaveClient upserts a client. Clients are owned by the CRM side of the
// application; the engine only reads them.
func (m *Memory) SaveClient(_ context.Context, c studio.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.clients[c.ID]; ok {
		if err := studio.CheckTenant(studio.KindClient, c.ID, c.TenantID, existing.TenantID); err != nil {
			return err
		}
	}
	m.clients[c.ID] = c
	return nil
}

// ListTenants returns every tenant that owns at least one staff resource.
func (m *Memory) ListTenants(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var tenants []string
	for _, s := range m.staff {
		if !seen[s.TenantID] {
			seen[s.TenantID] = true
			tenants = append(tenants, s.TenantID)
		}
	}
	sort.Strings(tenants)
	return tenants, nil
}
