package store

import (
	"context"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Query selects a page of records.
//
// Search and filter fields are column paths: "title" names a column of the listed table,
// "project__client__name" follows project_id into projects, then client_id into clients.
// Search fields ending in "id" match the term exactly when it is a number.
type Query struct {
	Search       string
	SearchFields []string
	Filters      map[string]string
	Order        []string // "name" ascending, "-due_date" descending
	Preload      []string
	Page         int
	Limit        int
}

type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// List runs q against the table of T.
func List[T any](ctx context.Context, s *Store, q Query) (Page[T], error) {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	out := Page[T]{Items: []T{}, Page: page, Limit: limit}

	db := s.db.WithContext(ctx).Model(new(T))
	for field, value := range q.Filters {
		db = db.Where(pathCondition(s.db, field, func(col clause.Column) clause.Expression {
			return clause.Eq{Column: col, Value: value}
		}))
	}
	if term := strings.TrimSpace(q.Search); term != "" && len(q.SearchFields) > 0 {
		db = db.Where(searchCondition(s.db, term, q.SearchFields))
	}
	db = db.Session(&gorm.Session{})

	if err := db.Count(&out.Total).Error; err != nil {
		return out, err
	}
	for _, p := range q.Preload {
		db = db.Preload(p)
	}
	for _, o := range q.Order {
		desc := strings.HasPrefix(o, "-")
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: strings.TrimPrefix(o, "-")}, Desc: desc})
	}
	if err := db.Limit(limit).Offset((page - 1) * limit).Find(&out.Items).Error; err != nil {
		return out, err
	}
	return out, nil
}

func searchCondition(db *gorm.DB, term string, fields []string) clause.Expression {
	like := "%" + strings.ToLower(term) + "%"
	id, idErr := strconv.ParseUint(term, 10, 64)

	var exprs []clause.Expression
	for _, f := range fields {
		if f == "id" || strings.HasSuffix(f, "_id") {
			if idErr != nil {
				continue
			}
			exprs = append(exprs, pathCondition(db, f, func(col clause.Column) clause.Expression {
				return clause.Eq{Column: col, Value: id}
			}))
			continue
		}
		exprs = append(exprs, pathCondition(db, f, func(col clause.Column) clause.Expression {
			return clause.Expr{SQL: "LOWER(?) LIKE ?", Vars: []any{col, like}}
		}))
	}
	switch len(exprs) {
	case 0:
		return clause.Expr{SQL: "1 = 0"}
	case 1:
		// a lone OrConditions would be OR-ed onto the filters
		return exprs[0]
	}
	return clause.Or(exprs...)
}

// pathCondition applies cond to the column at the end of path, nesting an
// "fk IN (SELECT id FROM related ...)" subquery for every relation hop.
func pathCondition(db *gorm.DB, path string, cond func(clause.Column) clause.Expression) clause.Expression {
	hop, rest, found := strings.Cut(path, "__")
	if !found {
		return cond(clause.Column{Table: clause.CurrentTable, Name: path})
	}
	sub := db.Session(&gorm.Session{NewDB: true}).
		Table(hop + "s").
		Select("id").
		Where(pathCondition(db, rest, cond))
	return clause.Expr{
		SQL:  "? IN (?)",
		Vars: []any{clause.Column{Table: clause.CurrentTable, Name: hop + "_id"}, sub},
	}
}
