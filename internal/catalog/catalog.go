// Package catalog turns the six benchmark questions into executable plans for
// each backend. The plan shape follows the backend's declared capabilities;
// the statement syntax follows its dialect.
package catalog

import (
	"time"

	"techmarket/internal/domain/entity"
	"techmarket/internal/domain/query"
	"techmarket/internal/errors"

	"github.com/google/uuid"
)

var (
	// ErrUnknownQuestion is returned for a question outside Q1..Q6.
	ErrUnknownQuestion = errors.New("unknown question")
	// ErrNoDialect is returned for a backend without a statement dialect.
	ErrNoDialect = errors.New("no dialect for backend")
	// ErrCapabilityMismatch is returned when a backend declares a capability its dialect lacks.
	ErrCapabilityMismatch = errors.New("declared capability not provided by dialect")
)

// dialect renders the statements every backend must support.
type dialect interface {
	customerByEmail(email string) query.Statement
	recentOrders(customerID uuid.UUID, limit int) query.Statement
	productsByCategory(category entity.Category, limit int) query.Statement
	ordersByStatus(customerID uuid.UUID, status entity.OrderStatus, limit int) query.Statement
	productSample(limit int) query.Statement
	paymentsInRange(t entity.PaymentType, from, to time.Time, limit int) query.Statement
	ordersInWindow(customerID uuid.UUID, from, to time.Time) query.Statement
}

// joiner is implemented by dialects that join server-side.
type joiner interface {
	customerWithRecentOrders(email string, limit int) query.Statement
}

// aggregator is implemented by dialects that aggregate server-side.
type aggregator interface {
	topSellers(limit int) query.Statement
	spendInWindow(customerID uuid.UUID, from, to time.Time) query.Statement
}

// Catalog builds plans.
type Catalog struct {
	dialects map[entity.Backend]dialect
	caps     func(entity.Backend) entity.Capabilities
}

// New creates a Catalog with the standard dialects.
func New() *Catalog {
	return &Catalog{
		dialects: map[entity.Backend]dialect{
			entity.BackendWideColumn: cqlDialect{},
			entity.BackendDocument:   documentDialect{},
			entity.BackendRelational: sqlDialect{},
		},
		caps: entity.Backend.Capabilities,
	}
}

// Plan returns how question q is answered on backend b with params p.
func (c *Catalog) Plan(b entity.Backend, q query.Question, p query.Params) (*query.Plan, error) {
	d, ok := c.dialects[b]
	if !ok {
		return nil, errors.Wrap(ErrNoDialect, b.String())
	}
	caps := c.caps(b)

	plan := &query.Plan{Question: q, Backend: b, Exact: true}

	switch q {
	case query.Q1:
		return c.planQ1(plan, d, caps, p)
	case query.Q2:
		plan.Steps = []query.Step{{Name: "products", Build: query.Static(d.productsByCategory(p.Category, p.ResultLimit))}}
	case query.Q3:
		status := p.Status
		if status == "" {
			status = entity.OrderStatusDelivered
		}
		plan.Steps = []query.Step{{Name: "orders", Build: query.Static(d.ordersByStatus(p.CustomerID, status, p.ResultLimit))}}
	case query.Q4:
		return c.planQ4(plan, d, caps)
	case query.Q5:
		from, to := p.MonthRange()
		plan.Steps = []query.Step{{Name: "payments", Build: query.Static(d.paymentsInRange(p.PaymentType, from, to, p.ResultLimit))}}
	case query.Q6:
		return c.planQ6(plan, d, caps, p)
	default:
		return nil, errors.Wrap(ErrUnknownQuestion, string(q))
	}

	return plan, nil
}

func (c *Catalog) planQ1(plan *query.Plan, d dialect, caps entity.Capabilities, p query.Params) (*query.Plan, error) {
	if caps.ServerSideJoin {
		j, ok := d.(joiner)
		if !ok {
			return nil, errors.Wrapf(ErrCapabilityMismatch, "%s join", plan.Backend)
		}
		plan.Steps = []query.Step{{
			Name:  "customer_orders",
			Build: query.Static(j.customerWithRecentOrders(p.Email, query.RecentOrdersLimit)),
		}}

		return plan, nil
	}

	plan.ClientSide = true
	plan.Steps = []query.Step{
		{Name: "customer", Build: query.Static(d.customerByEmail(p.Email))},
		{Name: "orders", Build: func(prev [][]query.Row) (query.Statement, error) {
			if len(prev[0]) == 0 {
				return nil, nil
			}
			id, ok := prev[0][0]["customer_id"].(uuid.UUID)
			if !ok {
				return nil, errors.Errorf("customer row has no customer_id: %v", prev[0][0])
			}

			return d.recentOrders(id, query.RecentOrdersLimit), nil
		}},
	}
	plan.Finish = composeCustomerOrders

	return plan, nil
}

// composeCustomerOrders merges the customer row into each of its order rows,
// matching the shape of a server-side join.
func composeCustomerOrders(steps [][]query.Row) []query.Row {
	if len(steps[0]) == 0 {
		return nil
	}
	cust := steps[0][0]

	out := make([]query.Row, 0, len(steps[1]))
	for _, o := range steps[1] {
		row := make(query.Row, len(cust)+len(o))
		for k, v := range cust {
			row[k] = v
		}
		for k, v := range o {
			row[k] = v
		}
		out = append(out, row)
	}

	return out
}

func (c *Catalog) planQ4(plan *query.Plan, d dialect, caps entity.Capabilities) (*query.Plan, error) {
	if caps.ServerSideAggregation {
		a, ok := d.(aggregator)
		if !ok {
			return nil, errors.Wrapf(ErrCapabilityMismatch, "%s aggregation", plan.Backend)
		}
		plan.Steps = []query.Step{{Name: "top_sellers", Build: query.Static(a.topSellers(query.TopSellersLimit))}}

		return plan, nil
	}

	// Without server-side aggregation there is no affordable way to rank by
	// units sold; an arbitrary sample stands in and the plan says so.
	plan.Exact = false
	plan.Steps = []query.Step{{Name: "sample", Build: query.Static(d.productSample(query.TopSellersLimit))}}

	return plan, nil
}

func (c *Catalog) planQ6(plan *query.Plan, d dialect, caps entity.Capabilities, p query.Params) (*query.Plan, error) {
	if caps.ServerSideAggregation {
		a, ok := d.(aggregator)
		if !ok {
			return nil, errors.Wrapf(ErrCapabilityMismatch, "%s aggregation", plan.Backend)
		}
		plan.Steps = []query.Step{{
			Name:  "spend",
			Build: query.Static(a.spendInWindow(p.SpendCustomerID, p.WindowStart, p.WindowEnd)),
		}}
		plan.Finish = func(steps [][]query.Row) []query.Row {
			if len(steps[0]) == 0 {
				return []query.Row{{"customer_id": p.SpendCustomerID, "total_spent": 0.0}}
			}
			row := steps[0][0]
			if v, ok := row["total_spent"].(float64); ok {
				row["total_spent"] = entity.MoneyFromFloat(v).Float()
			}

			return []query.Row{row}
		}

		return plan, nil
	}

	plan.ClientSide = true
	plan.Steps = []query.Step{{
		Name:  "orders",
		Build: query.Static(d.ordersInWindow(p.SpendCustomerID, p.WindowStart, p.WindowEnd)),
	}}
	plan.Finish = func(steps [][]query.Row) []query.Row {
		var cents int64
		for _, r := range steps[0] {
			if v, ok := r["total_value"].(float64); ok {
				cents += int64(entity.MoneyFromFloat(v))
			}
		}

		return []query.Row{{"customer_id": p.SpendCustomerID, "total_spent": entity.Money(cents).Float()}}
	}

	return plan, nil
}

// Plans returns a plan for every question, in report order.
func (c *Catalog) Plans(b entity.Backend, p query.Params) ([]*query.Plan, error) {
	plans := make([]*query.Plan, 0, len(query.Questions()))
	for _, q := range query.Questions() {
		plan, err := c.Plan(b, q, p)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	return plans, nil
}
