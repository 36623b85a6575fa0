package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Op is a comparison operator usable in a Condition.
type Op string

const (
	OpEq   Op = "="
	OpNeq  Op = "<>"
	OpGt   Op = ">"
	OpGte  Op = ">="
	OpLt   Op = "<"
	OpLte  Op = "<="
	OpLike Op = "LIKE"
)

// Condition is one typed WHERE term. Conditions replace the stringly-typed
// column=>value maps of ad-hoc query builders: the operator is explicit, so
// "end_date >= ?" can never be mistaken for a column name.
type Condition struct {
	Column string
	Op     Op
	Value  any
}

func Eq(column string, value any) Condition   { return Condition{Column: column, Op: OpEq, Value: value} }
func Neq(column string, value any) Condition  { return Condition{Column: column, Op: OpNeq, Value: value} }
func Gt(column string, value any) Condition   { return Condition{Column: column, Op: OpGt, Value: value} }
func Gte(column string, value any) Condition  { return Condition{Column: column, Op: OpGte, Value: value} }
func Lt(column string, value any) Condition   { return Condition{Column: column, Op: OpLt, Value: value} }
func Lte(column string, value any) Condition  { return Condition{Column: column, Op: OpLte, Value: value} }
func Like(column string, value any) Condition { return Condition{Column: column, Op: OpLike, Value: value} }

// applyConditions ANDs every condition onto the query.
func applyConditions(tx *gorm.DB, conds []Condition) *gorm.DB {
	for _, c := range conds {
		tx = tx.Where(fmt.Sprintf("%s %s ?", c.Column, c.Op), c.Value)
	}
	return tx
}

// Order is one ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

func applyOrders(tx *gorm.DB, orders []Order) *gorm.DB {
	for _, o := range orders {
		direction := "ASC"
		if o.Desc {
			direction = "DESC"
		}
		tx = tx.Order(fmt.Sprintf("%s %s", o.Column, direction))
	}
	return tx
}
