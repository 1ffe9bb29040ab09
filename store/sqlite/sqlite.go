/*
Package sqlite provides a SQLite-backed implementation of studio.Store.

PURPOSE:
  Persists appointments, staff resources and clients. Money is stored as
  decimal TEXT, instants as fixed-width UTC TEXT so that lexical order is
  chronological order.

INTERFACES IMPLEMENTED:
  studio.AppointmentStore
  studio.StaffStore
  studio.ClientStore
  studio.TenantLister

KEY TABLES:
  appointments:    one row per booking, financials inline
  staff_resources: contract terms flattened into nullable columns
  clients:         read-only to the engine, written by the CRM side / demo loader

TENANT SCOPE:
  Every lookup by id compares the row's tenant with the caller's. Upserts of
  an id owned by another tenant are rejected before the write.

CONCURRENCY:
  Uses sync.RWMutex and a single connection. Write serialization across a
  read-check-write sequence is the engine's Locker's job, not the store's.

USAGE:
  store, err := sqlite.New("./data/studio.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - studio/store.go: Interface definitions
  - studio/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/studio-engine/studio"
)

// timeLayout is fixed width so TEXT comparison orders instants.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store implements studio.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: ":memory:" databases are per connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection; used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS appointments (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		artist_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		status TEXT NOT NULL,
		price_quote TEXT NOT NULL DEFAULT '0',
		deposit_amount TEXT NOT NULL DEFAULT '0',
		deposit_paid BOOLEAN NOT NULL DEFAULT FALSE,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Conflict checks and per-artist listings (hot path)
	CREATE INDEX IF NOT EXISTS idx_appointments_tenant_artist_start
		ON appointments(tenant_id, artist_id, start_at);
	CREATE INDEX IF NOT EXISTS idx_appointments_tenant_start
		ON appointments(tenant_id, start_at);

	CREATE TABLE IF NOT EXISTS staff_resources (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		contract_type TEXT NOT NULL DEFAULT 'NONE',
		rent_amount TEXT,
		renewal_date TEXT,
		pack_total INTEGER,
		pack_used INTEGER,
		commission_rate INTEGER,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_staff_tenant
		ON staff_resources(tenant_id);

	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		preferred_style TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_clients_tenant
		ON clients(tenant_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// APPOINTMENT STORE
// =============================================================================

const appointmentColumns = `id, tenant_id, client_id, artist_id, title, start_at, end_at, status,
	price_quote, deposit_amount, deposit_paid, notes, created_at, updated_at`

// ListAppointments returns the tenant's appointments ordered by start.
func (s *Store) ListAppointments(ctx context.Context, tenantID, artistID string) ([]studio.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if artistID == "" {
		return s.queryAppointments(ctx,
			"SELECT "+appointmentColumns+" FROM appointments WHERE tenant_id = ? ORDER BY start_at, id",
			tenantID)
	}
	return s.queryAppointments(ctx,
		"SELECT "+appointmentColumns+" FROM appointments WHERE tenant_id = ? AND artist_id = ? ORDER BY start_at, id",
		tenantID, artistID)
}

// GetAppointment retrieves an appointment by ID within the caller's tenant.
func (s *Store) GetAppointment(ctx context.Context, tenantID, appointmentID string) (studio.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, err := s.queryAppointments(ctx,
		"SELECT "+appointmentColumns+" FROM appointments WHERE id = ?", appointmentID)
	if err != nil {
		return studio.Appointment{}, err
	}
	if len(list) == 0 {
		return studio.Appointment{}, &studio.ResourceNotFoundError{Kind: studio.KindAppointment, ID: appointmentID}
	}
	a := list[0]
	if err := studio.CheckTenant(studio.KindAppointment, appointmentID, tenantID, a.TenantID); err != nil {
		return studio.Appointment{}, err
	}
	return a, nil
}

// SaveAppointment upserts an appointment. CreatedAt is kept from the first write.
func (s *Store) SaveAppointment(ctx context.Context, a studio.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOwner(ctx, "appointments", studio.KindAppointment, a.ID, a.TenantID); err != nil {
		return err
	}

	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client_id = excluded.client_id,
			artist_id = excluded.artist_id,
			title = excluded.title,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			status = excluded.status,
			price_quote = excluded.price_quote,
			deposit_amount = excluded.deposit_amount,
			deposit_paid = excluded.deposit_paid,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`

	createdAt, updatedAt := a.CreatedAt, a.UpdatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.TenantID, a.ClientID, a.ArtistID, a.Title,
		formatTime(a.Start), formatTime(a.End), string(a.Status),
		a.Financials.PriceQuote.String(), a.Financials.DepositAmount.String(), a.Financials.DepositPaid,
		a.Notes, formatTime(createdAt), formatTime(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save appointment: %w", err)
	}
	return nil
}

func (s *Store) queryAppointments(ctx context.Context, query string, args ...any) ([]studio.Appointment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var result []studio.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func scanAppointment(rows *sql.Rows) (studio.Appointment, error) {
	var (
		a                                  studio.Appointment
		status, price, deposit             string
		startAt, endAt, createdAt, updated string
	)
	err := rows.Scan(&a.ID, &a.TenantID, &a.ClientID, &a.ArtistID, &a.Title,
		&startAt, &endAt, &status, &price, &deposit, &a.Financials.DepositPaid,
		&a.Notes, &createdAt, &updated)
	if err != nil {
		return a, fmt.Errorf("failed to scan appointment: %w", err)
	}

	a.Status = studio.Status(status)
	if a.Start, err = parseTime(startAt); err != nil {
		return a, err
	}
	if a.End, err = parseTime(endAt); err != nil {
		return a, err
	}
	a.CreatedAt, _ = parseTime(createdAt)
	a.UpdatedAt, _ = parseTime(updated)
	if a.Financials.PriceQuote, err = decimal.NewFromString(price); err != nil {
		return a, fmt.Errorf("appointment %s price_quote: %w", a.ID, err)
	}
	if a.Financials.DepositAmount, err = decimal.NewFromString(deposit); err != nil {
		return a, fmt.Errorf("appointment %s deposit_amount: %w", a.ID, err)
	}
	return a, nil
}

// =============================================================================
// STAFF STORE
// =============================================================================

const staffColumns = `id, tenant_id, name, contract_type, rent_amount, renewal_date,
	pack_total, pack_used, commission_rate, updated_at`

// GetStaffResource retrieves a staff resource by ID within the caller's tenant.
func (s *Store) GetStaffResource(ctx context.Context, tenantID, staffID string) (studio.StaffResource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, err := s.queryStaff(ctx, "SELECT "+staffColumns+" FROM staff_resources WHERE id = ?", staffID)
	if err != nil {
		return studio.StaffResource{}, err
	}
	if len(list) == 0 {
		return studio.StaffResource{}, &studio.ResourceNotFoundError{Kind: studio.KindStaff, ID: staffID}
	}
	if err := studio.CheckTenant(studio.KindStaff, staffID, tenantID, list[0].TenantID); err != nil {
		return studio.StaffResource{}, err
	}
	return list[0], nil
}

// ListStaffResources returns the tenant's staff ordered by id.
func (s *Store) ListStaffResources(ctx context.Context, tenantID string) ([]studio.StaffResource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryStaff(ctx,
		"SELECT "+staffColumns+" FROM staff_resources WHERE tenant_id = ? ORDER BY id", tenantID)
}

// SaveStaffResource upserts a staff resource with its contract terms.
func (s *Store) SaveStaffResource(ctx context.Context, r studio.StaffResource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOwner(ctx, "staff_resources", studio.KindStaff, r.ID, r.TenantID); err != nil {
		return err
	}

	var (
		rentAmount, renewalDate sql.NullString
		packTotal, packUsed     sql.NullInt64
		commission              sql.NullInt64
	)
	switch terms := r.Terms().(type) {
	case studio.MonthlyRent:
		rentAmount = nullString(terms.Amount.String())
		renewalDate = nullString(formatTime(terms.RenewalDate))
	case studio.RentPack:
		rentAmount = nullString(terms.Amount.String())
		packTotal = sql.NullInt64{Int64: int64(terms.Total), Valid: true}
		packUsed = sql.NullInt64{Int64: int64(terms.Used), Valid: true}
	}
	if r.CommissionRate != nil {
		commission = sql.NullInt64{Int64: int64(*r.CommissionRate), Valid: true}
	}

	updatedAt := r.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	query := `
		INSERT INTO staff_resources (` + staffColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			contract_type = excluded.contract_type,
			rent_amount = excluded.rent_amount,
			renewal_date = excluded.renewal_date,
			pack_total = excluded.pack_total,
			pack_used = excluded.pack_used,
			commission_rate = excluded.commission_rate,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.TenantID, r.Name, string(r.ContractType()),
		rentAmount, renewalDate, packTotal, packUsed, commission,
		formatTime(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save staff resource: %w", err)
	}
	return nil
}

func (s *Store) queryStaff(ctx context.Context, query string, args ...any) ([]studio.StaffResource, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff resources: %w", err)
	}
	defer rows.Close()

	var result []studio.StaffResource
	for rows.Next() {
		var (
			r                       studio.StaffResource
			contractType, updatedAt string
			rentAmount, renewalDate sql.NullString
			packTotal, packUsed     sql.NullInt64
			commission              sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.TenantID, &r.Name, &contractType, &rentAmount, &renewalDate,
			&packTotal, &packUsed, &commission, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan staff resource: %w", err)
		}

		terms, err := decodeTerms(studio.ContractType(contractType), rentAmount, renewalDate, packTotal, packUsed)
		if err != nil {
			return nil, fmt.Errorf("staff resource %s: %w", r.ID, err)
		}
		r.Contract = terms
		if commission.Valid {
			r.CommissionRate = studio.IntPtr(int(commission.Int64))
		}
		r.UpdatedAt, _ = parseTime(updatedAt)
		result = append(result, r)
	}
	return result, rows.Err()
}

func decodeTerms(ct studio.ContractType, rentAmount, renewalDate sql.NullString, packTotal, packUsed sql.NullInt64) (studio.ContractTerms, error) {
	amount := decimal.Zero
	if rentAmount.Valid {
		var err error
		if amount, err = decimal.NewFromString(rentAmount.String); err != nil {
			return nil, fmt.Errorf("rent_amount: %w", err)
		}
	}

	switch ct {
	case studio.ContractMonthly:
		renewal, err := parseTime(renewalDate.String)
		if err != nil {
			return nil, fmt.Errorf("renewal_date: %w", err)
		}
		return studio.MonthlyRent{Amount: amount, RenewalDate: renewal}, nil
	case studio.ContractPack:
		return studio.RentPack{Amount: amount, Total: int(packTotal.Int64), Used: int(packUsed.Int64)}, nil
	case studio.ContractNone, "":
		return studio.NoContract{}, nil
	default:
		return nil, fmt.Errorf("unknown contract type %q", ct)
	}
}

// =============================================================================
// CLIENT STORE
// =============================================================================

// ListClients returns the tenant's clients ordered by id.
func (s *Store) ListClients(ctx context.Context, tenantID string) ([]studio.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, tenant_id, first_name, last_name, phone, preferred_style FROM clients WHERE tenant_id = ? ORDER BY id",
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []studio.Client
	for rows.Next() {
		var c studio.Client
		if err := rows.Scan(&c.ID, &c.TenantID, &c.FirstName, &c.LastName, &c.Phone, &c.PreferredStyle); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// SaveClient upserts a client.
func (s *Store) SaveClient(ctx context.Context, c studio.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOwner(ctx, "clients", studio.KindClient, c.ID, c.TenantID); err != nil {
		return err
	}

	query := `
		INSERT INTO clients (id, tenant_id, first_name, last_name, phone, preferred_style)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			phone = excluded.phone,
			preferred_style = excluded.preferred_style
	`
	_, err := s.db.ExecContext(ctx, query, c.ID, c.TenantID, c.FirstName, c.LastName, c.Phone, c.PreferredStyle)
	if err != nil {
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// ListTenants returns every tenant that owns at least one staff resource.
func (s *Store) ListTenants(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT tenant_id FROM staff_resources ORDER BY tenant_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		tenants = append(tenants, id)
	}
	return tenants, rows.Err()
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"appointments", "staff_resources", "clients"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// checkOwner rejects an upsert of an id that belongs to another tenant.
// Must be called with s.mu held.
func (s *Store) checkOwner(ctx context.Context, table string, kind studio.ResourceKind, id, tenantID string) error {
	var owner string
	err := s.db.QueryRowContext(ctx, "SELECT tenant_id FROM "+table+" WHERE id = ?", id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check owner of %s %s: %w", kind, id, err)
	}
	return studio.CheckTenant(kind, id, tenantID, owner)
}

// Helper functions

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Rows written by hand or older tools.
		if t2, err2 := time.Parse(time.RFC3339, strings.TrimSpace(s)); err2 == nil {
			return t2.UTC(), nil
		}
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
