package action

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/magicdao/matcher"
)

// Query builds a SELECT statement.
type Query struct {
	base
	columns []string
	orders  []Order
	page    *Page
}

// Mode implements Action.
func (*Query) Mode() Mode { return ModeQuery }

// Select sets the projected columns.
func (q *Query) Select(columns []string) *Query {
	q.columns = columns
	return q
}

// Count projects COUNT(1).
func (q *Query) Count() *Query {
	q.columns = []string{CountColumn}
	return q
}

// Where adds conditions joined with AND.
func (q *Query) Where(conds []matcher.Matcher) *Query {
	q.where(conds)
	return q
}

// OrderBy sets the ordering. A nil list omits ORDER BY.
func (q *Query) OrderBy(orders []Order) *Query {
	q.orders = orders
	return q
}

// Paginate sets the page. A nil page omits LIMIT and OFFSET.
func (q *Query) Paginate(p *Page) *Query {
	q.page = p
	return q
}

// SQL implements Action.
func (q *Query) SQL() (string, []any, error) {
	if len(q.columns) == 0 {
		return "", nil, fmt.Errorf("%w: empty projection", ErrNoFields)
	}
	for _, c := range q.columns {
		if c == CountColumn {
			continue
		}
		if err := checkIdent(c); err != nil {
			return "", nil, err
		}
	}
	table, err := q.resolve(nil)
	if err != nil {
		return "", nil, err
	}
	if err := checkIdent(table); err != nil {
		return "", nil, err
	}
	w := &writer{dialect: q.dialect}
	w.WriteString("SELECT ").WriteString(strings.Join(q.columns, ", ")).WriteString(" FROM ").WriteString(table)
	if err := w.Where(q.conds); err != nil {
		return "", nil, err
	}
	for i, o := range q.orders {
		if err := checkIdent(o.Column); err != nil {
			return "", nil, err
		}
		if i == 0 {
			w.WriteString(" ORDER BY ")
		} else {
			w.WriteString(", ")
		}
		w.WriteString(o.Column)
		if o.Desc {
			w.WriteString(" DESC")
		}
	}
	if p := q.page; p != nil {
		if p.Number < 1 || p.Size < 1 {
			return "", nil, fmt.Errorf("%w: number=%d size=%d", ErrInvalidPage, p.Number, p.Size)
		}
		w.WriteString(" LIMIT " + strconv.Itoa(p.Size) + " OFFSET " + strconv.Itoa(p.Offset()))
	}
	return w.String(), w.args, nil
}
