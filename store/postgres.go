package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"kuntur-store/core/catalog"
	"kuntur-store/core/order"
	"kuntur-store/core/pricing"
	"kuntur-store/internal/errors"
)

// Postgres is the production Store backed by PostgreSQL
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects to PostgreSQL and verifies the connection
func OpenPostgres(ctx context.Context, dsn string, maxOpenConns int) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Storage("failed to open database", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Storage("failed to ping database", err)
	}
	return &Postgres{db: db}, nil
}

// NewPostgres wraps an existing connection pool
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// DB exposes the underlying pool, for schema management
func (s *Postgres) DB() *sql.DB {
	return s.db
}

// ActiveRolesByID implements CatalogStore
func (s *Postgres) ActiveRolesByID(ctx context.Context, ids []uuid.UUID) ([]catalog.Role, error) {
	query := `SELECT id, slug, name, tagline, price_usdt, delivery_days, is_active
		FROM roles WHERE id = ANY($1) AND is_active`

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx, query, pq.Array(strIDs))
	if err != nil {
		return nil, errors.Storage("failed to query roles", err)
	}
	defer rows.Close()

	var roles []catalog.Role
	for rows.Next() {
		var r catalog.Role
		if err := rows.Scan(&r.ID, &r.Slug, &r.Name, &r.Tagline, &r.PriceUSDT, &r.DeliveryDays, &r.Active); err != nil {
			return nil, errors.Storage("failed to scan role", err)
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// ActivePlanByID implements CatalogStore
func (s *Postgres) ActivePlanByID(ctx context.Context, id uuid.UUID) (*catalog.HostingPlan, error) {
	query := `SELECT id, slug, name, tier, monthly_price, annual_price, discount_annual,
		ideal_roles_min, ideal_roles_max, is_active
		FROM hosting_plans WHERE id = $1 AND is_active`

	var p catalog.HostingPlan
	var minRoles, maxRoles sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Slug, &p.Name, &p.Tier, &p.MonthlyPrice, &p.AnnualPrice,
		&p.AnnualDiscount, &minRoles, &maxRoles, &p.Active,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("hosting plan", id.String())
	}
	if err != nil {
		return nil, errors.Storage("failed to query hosting plan", err)
	}

	if minRoles.Valid {
		v := int(minRoles.Int64)
		p.MinRoles = &v
	}
	if maxRoles.Valid {
		v := int(maxRoles.Int64)
		p.MaxRoles = &v
	}
	return &p, nil
}

// ResolveCode implements DiscountStore
func (s *Postgres) ResolveCode(ctx context.Context, code string, now time.Time) (*pricing.DiscountCode, error) {
	query := `SELECT id, code, description, percentage, max_uses, times_used, valid_until, is_active
		FROM discount_codes WHERE code = $1`

	var c pricing.DiscountCode
	var maxUses sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, strings.ToUpper(code)).Scan(
		&c.ID, &c.Code, &c.Description, &c.Percentage, &maxUses, &c.TimesUsed, &c.ValidUntil, &c.Active,
	)
	if err == sql.ErrNoRows {
		return nil, errors.InvalidCode(code)
	}
	if err != nil {
		return nil, errors.Storage("failed to query discount code", err)
	}
	if maxUses.Valid {
		v := int(maxUses.Int64)
		c.MaxUses = &v
	}

	// Expired and exhausted answer exactly like unknown codes
	if !c.Usable(now) {
		return nil, errors.InvalidCode(code)
	}
	return &c, nil
}

// ConsumeUse implements DiscountStore. The increment is guarded by the cap
// in the same statement, so two concurrent orders can never both take the
// last use.
func (s *Postgres) ConsumeUse(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE discount_codes
		SET times_used = times_used + 1, updated_at = NOW()
		WHERE id = $1 AND (max_uses IS NULL OR times_used < max_uses)`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return errors.Storage("failed to consume discount code use", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Storage("failed to read affected rows", err)
	}
	if affected == 0 {
		return errors.Conflict("discount code has no uses left")
	}
	return nil
}

// CreateOrder implements OrderStore
func (s *Postgres) CreateOrder(ctx context.Context, o *order.Order, initial *order.Interaction) error {
	rolesJSON, err := json.Marshal(o.Roles)
	if err != nil {
		return errors.Internal("failed to encode role selection", err)
	}
	utmJSON, err := json.Marshal(o.UTMParams)
	if err != nil {
		return errors.Internal("failed to encode utm params", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Storage("failed to begin transaction", err)
	}

	orderQuery := `INSERT INTO orders (
			id, order_number, client_name, client_email, client_phone, client_business,
			roles_selected, hosting_plan_id, hosting_is_annual,
			subtotal_usdt, discount_total, total_usdt, exchange_rate, total_bob,
			payment_status, source, utm_params, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`

	var planID interface{}
	if o.HostingPlanID != nil {
		planID = *o.HostingPlanID
	}

	_, err = tx.ExecContext(ctx, orderQuery,
		o.ID, o.Number, o.ClientName, o.ClientEmail, nullable(o.ClientPhone), nullable(o.ClientBusiness),
		rolesJSON, planID, o.HostingAnnual,
		o.SubtotalUSDT, o.DiscountTotal, o.TotalUSDT, o.ExchangeRate, o.TotalBOB,
		o.PaymentStatus, o.Source, utmJSON, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		_ = tx.Rollback()
		return errors.Storage("failed to insert order", err)
	}

	if initial != nil {
		if err := insertInteraction(ctx, tx, initial); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Storage("failed to commit order", err)
	}
	return nil
}

// GetOrder implements OrderStore
func (s *Postgres) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.getOrder(ctx, id)
}

func (s *Postgres) getOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	query := `SELECT id, order_number, client_name, client_email,
			COALESCE(client_phone, ''), COALESCE(client_business, ''),
			roles_selected, hosting_plan_id, hosting_is_annual,
			subtotal_usdt, discount_total, total_usdt, exchange_rate, total_bob,
			payment_status, COALESCE(payment_method, ''), COALESCE(comprobante_url, ''),
			comprobante_uploaded_at, paid_at, source, utm_params, created_at, updated_at
		FROM orders WHERE id = $1`

	var o order.Order
	var rolesJSON, utmJSON []byte
	var planID uuid.NullUUID

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.Number, &o.ClientName, &o.ClientEmail, &o.ClientPhone, &o.ClientBusiness,
		&rolesJSON, &planID, &o.HostingAnnual,
		&o.SubtotalUSDT, &o.DiscountTotal, &o.TotalUSDT, &o.ExchangeRate, &o.TotalBOB,
		&o.PaymentStatus, &o.PaymentMethod, &o.ComprobanteURL,
		&o.ComprobanteUploaded, &o.PaidAt, &o.Source, &utmJSON, &o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("order", id.String())
	}
	if err != nil {
		return nil, errors.Storage("failed to query order", err)
	}

	if err := json.Unmarshal(rolesJSON, &o.Roles); err != nil {
		return nil, errors.Internal("failed to decode role selection", err)
	}
	if len(utmJSON) > 0 {
		if err := json.Unmarshal(utmJSON, &o.UTMParams); err != nil {
			return nil, errors.Internal("failed to decode utm params", err)
		}
	}
	if planID.Valid {
		o.HostingPlanID = &planID.UUID
	}
	return &o, nil
}

// GetOrderDetail implements OrderStore
func (s *Postgres) GetOrderDetail(ctx context.Context, id uuid.UUID) (*OrderDetail, error) {
	o, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &OrderDetail{Order: o, Interactions: []order.Interaction{}}

	if o.HostingPlanID != nil {
		plan, err := s.ActivePlanByID(ctx, *o.HostingPlanID)
		if err != nil && !errors.IsType(err, errors.TypeNotFound) {
			return nil, err
		}
		detail.HostingPlan = plan
	}

	query := `SELECT id, order_id, type, description, metadata, created_at
		FROM order_interactions WHERE order_id = $1 ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, errors.Storage("failed to query interactions", err)
	}
	defer rows.Close()

	for rows.Next() {
		var in order.Interaction
		var metaJSON []byte
		if err := rows.Scan(&in.ID, &in.OrderID, &in.Type, &in.Description, &metaJSON, &in.CreatedAt); err != nil {
			return nil, errors.Storage("failed to scan interaction", err)
		}
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &in.Metadata); err != nil {
				return nil, errors.Internal("failed to decode interaction metadata", err)
			}
		}
		detail.Interactions = append(detail.Interactions, in)
	}
	return detail, rows.Err()
}

// UpdatePayment implements OrderStore
func (s *Postgres) UpdatePayment(ctx context.Context, upd PaymentUpdate) (*order.Order, error) {
	query := `UPDATE orders SET
			payment_status = $2,
			payment_method = COALESCE(NULLIF($3, ''), payment_method),
			comprobante_url = COALESCE(NULLIF($4, ''), comprobante_url),
			comprobante_uploaded_at = CASE WHEN $4 <> '' THEN NOW() ELSE comprobante_uploaded_at END,
			paid_at = COALESCE($5, paid_at),
			updated_at = NOW()
		WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query,
		upd.OrderID, upd.Status, string(upd.Method), upd.ComprobanteURL, upd.PaidAt)
	if err != nil {
		return nil, errors.Storage("failed to update payment", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Storage("failed to read affected rows", err)
	}
	if affected == 0 {
		return nil, errors.NotFound("order", upd.OrderID.String())
	}
	return s.getOrder(ctx, upd.OrderID)
}

// AddInteraction implements OrderStore
func (s *Postgres) AddInteraction(ctx context.Context, in *order.Interaction) error {
	return insertInteraction(ctx, s.db, in)
}

// Close implements Store
func (s *Postgres) Close() error {
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertInteraction(ctx context.Context, db execer, in *order.Interaction) error {
	metaJSON, err := json.Marshal(in.Metadata)
	if err != nil {
		return errors.Internal("failed to encode interaction metadata", err)
	}

	query := `INSERT INTO order_interactions (id, order_id, type, description, metadata, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`
	if _, err := db.ExecContext(ctx, query, in.ID, in.OrderID, in.Type, in.Description, metaJSON, in.CreatedAt); err != nil {
		return errors.Storage("failed to insert interaction", err)
	}
	return nil
}

// nullable maps empty strings to NULL
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
