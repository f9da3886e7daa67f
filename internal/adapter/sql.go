package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/PolyQuery/go-polyquery/query"
	"github.com/PolyQuery/go-polyquery/service"
	"github.com/PolyQuery/go-polyquery/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Dialects that honor an INSERT ... RETURNING clause and echo the written
// rows, generated identifiers included. Everything else gets the input data
// back best-effort, same contract as the document path.
var returningDialects = map[string]bool{
	"postgres": true,
	"sqlite":   true,
}

// SQLAdapter translates a Spec into one parameterized gorm statement against
// a borrowed connection. It never owns or closes the connection.
type SQLAdapter struct {
	db        *gorm.DB
	returning bool
}

func NewSQL(db *gorm.DB) (*SQLAdapter, error) {
	if db == nil {
		return nil, fmt.Errorf("relational client not registered: %w", service.ErrMissingDependency)
	}
	return &SQLAdapter{db: db, returning: returningDialects[db.Dialector.Name()]}, nil
}

// session starts a clean statement on the borrowed connection. Global
// update/delete is allowed on purpose: an empty condition list means
// "every row" at this layer.
func (a *SQLAdapter) session(ctx context.Context) *gorm.DB {
	return a.db.Session(&gorm.Session{NewDB: true, AllowGlobalUpdate: true}).WithContext(ctx)
}

// condExpr maps one condition to a gorm clause expression. Operators outside
// the known vocabulary are rendered verbatim, which keeps backend-specific
// operators usable without this layer enumerating them.
func condExpr(c query.Condition) clause.Expression {
	col := clause.Column{Name: c.Field}
	switch strings.ToLower(strings.TrimSpace(c.Operator)) {
	case query.OpEq, "eq", "":
		return clause.Eq{Column: col, Value: c.Value}
	case query.OpNe, "<>", "ne":
		return clause.Neq{Column: col, Value: c.Value}
	case query.OpGt, "gt":
		return clause.Gt{Column: col, Value: c.Value}
	case query.OpGte, "gte":
		return clause.Gte{Column: col, Value: c.Value}
	case query.OpLt, "lt":
		return clause.Lt{Column: col, Value: c.Value}
	case query.OpLte, "lte":
		return clause.Lte{Column: col, Value: c.Value}
	case query.OpLike:
		return clause.Like{Column: col, Value: c.Value}
	case query.OpIn:
		return clause.IN{Column: col, Values: toValues(c.Value)}
	case query.OpNotIn, "not_in", "nin":
		return clause.Not(clause.IN{Column: col, Values: toValues(c.Value)})
	default:
		return clause.Expr{SQL: fmt.Sprintf("%s %s ?", c.Field, c.Operator), Vars: []any{c.Value}}
	}
}

func (a *SQLAdapter) applyConditions(tx *gorm.DB, spec *query.Spec) *gorm.DB {
	tx = tx.Table(spec.Target)
	for _, c := range spec.Conditions {
		tx = tx.Where(condExpr(c))
	}
	return tx
}

func (a *SQLAdapter) buildQuery(tx *gorm.DB, spec *query.Spec) *gorm.DB {
	tx = a.applyConditions(tx, spec)
	if len(spec.Fields) > 0 {
		tx = tx.Select(spec.Fields)
	}
	for _, s := range spec.SortKeys {
		dir := "DESC"
		if s.Direction == "asc" {
			dir = "ASC"
		}
		tx = tx.Order(fmt.Sprintf("%s %s", s.Field, dir))
	}
	if spec.Limit != nil {
		tx = tx.Limit(*spec.Limit)
	}
	if spec.Skip != nil {
		tx = tx.Offset(*spec.Skip)
	}
	return tx
}

func (a *SQLAdapter) Get(ctx context.Context, spec *query.Spec) ([]query.Row, error) {
	rows := make([]query.Row, 0)
	if err := a.buildQuery(a.session(ctx), spec).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// First never errors on an empty result; the caller gets a nil Row.
func (a *SQLAdapter) First(ctx context.Context, spec *query.Spec) (query.Row, error) {
	rows, err := a.Get(ctx, spec.WithLimit(1))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (a *SQLAdapter) InsertOne(ctx context.Context, spec *query.Spec, data query.Row) (query.Row, error) {
	row := copyRow(data)
	tx := a.session(ctx).Table(spec.Target)
	if a.returning {
		tx = tx.Clauses(clause.Returning{})
	}
	if err := tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (a *SQLAdapter) InsertMany(ctx context.Context, spec *query.Spec, data []query.Row) ([]query.Row, error) {
	rows := make([]query.Row, 0, len(data))
	for _, d := range data {
		rows = append(rows, copyRow(d))
	}
	tx := a.session(ctx).Table(spec.Target)
	if a.returning {
		tx = tx.Clauses(clause.Returning{})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (a *SQLAdapter) UpdateMany(ctx context.Context, spec *query.Spec, data query.Row) (int64, error) {
	res := a.applyConditions(a.session(ctx), spec).Updates(map[string]any(data))
	return res.RowsAffected, res.Error
}

func (a *SQLAdapter) DeleteMany(ctx context.Context, spec *query.Spec) (int64, error) {
	res := a.applyConditions(a.session(ctx), spec).Delete(nil)
	return res.RowsAffected, res.Error
}

// Count applies conditions only; the current page window and ordering are
// irrelevant to an aggregate.
func (a *SQLAdapter) Count(ctx context.Context, spec *query.Spec, field string) (int64, error) {
	if field == "" {
		field = "*"
	}
	rows := make([]query.Row, 0, 1)
	tx := a.applyConditions(a.session(ctx), spec).Select(fmt.Sprintf("COUNT(%s) AS aggregate", field))
	if err := tx.Find(&rows).Error; err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return utils.ToInt64(rows[0]["aggregate"])
}

// ToSQL renders the read statement the Spec would execute. Dry-run only,
// nothing reaches the backend.
func (a *SQLAdapter) ToSQL(spec *query.Spec) (string, error) {
	sql := a.db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return a.buildQuery(tx, spec).Find(&[]query.Row{})
	})
	if sql == "" {
		return "", fmt.Errorf("statement rendering produced no SQL for table %q", spec.Target)
	}
	return sql, nil
}

func copyRow(in query.Row) query.Row {
	out := make(query.Row, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
