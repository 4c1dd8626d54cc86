package sq

import (
	"context"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"go.uber.org/zap"

	"github.com/sq-lang/sq/dataset"
	"github.com/sq-lang/sq/fetch"
	"github.com/sq-lang/sq/load"
)

// Engine runs execute(sql) for a configured logger. The zero value is
// ready to use and logs nothing: Execute falls back to a no-op logger
// when none is set.
type Engine struct {
	log *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a structured logger. Every pipeline stage transition
// is logged at debug level; every propagated error is logged at warn level.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine builds an Engine. With no options, it is silent.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the fixed five-stage pipeline: parse, then either build an
// empty literal-only table or fetch+load, then project, filter, sort, and
// slice, in that order.
func (e *Engine) Execute(ctx context.Context, sql string) (*dataset.DataSet, error) {
	if e.log == nil {
		e = &Engine{log: zap.NewNop()}
	}
	q, err := Parse(sql)
	if err != nil {
		e.log.Warn("parse failed", zap.Error(err))
		return nil, err
	}
	e.log.Debug("parsed", zap.Int("projections", len(q.Projections)))

	var ds *dataset.DataSet
	if q.Source == nil {
		ds, err = executeLiteralOnly(q)
		if err != nil {
			e.log.Warn("literal projection failed", zap.Error(err))
			return nil, err
		}
		return ds, nil
	}

	res, err := fetch.Fetch(ctx, *q.Source)
	if err != nil {
		werr := FetchError("", err)
		e.log.Warn("fetch failed", zap.String("source", *q.Source), zap.Error(werr))
		return nil, werr
	}
	e.log.Debug("fetched", zap.Int("bytes", len(res.Bytes)))

	ds, err = load.Load(res)
	if err != nil {
		werr := LoadError("%s", err.Error())
		e.log.Warn("load failed", zap.Error(werr))
		return nil, werr
	}
	e.log.Debug("loaded", zap.Int("rows", ds.NumRows()), zap.Int("cols", ds.NumCols()))

	ds, err = computeProjection(q.Projections, ds)
	if err != nil {
		e.log.Warn("projection failed", zap.Error(err))
		return nil, err
	}
	e.log.Debug("projected", zap.Int("cols", ds.NumCols()))

	if q.Condition != nil {
		ds, err = applyFilter(q.Condition, ds)
		if err != nil {
			e.log.Warn("filter failed", zap.Error(err))
			return nil, err
		}
		e.log.Debug("filtered", zap.Int("rows", ds.NumRows()))
	}

	if len(q.OrderBy) > 0 {
		ds, err = applySort(q.OrderBy, ds)
		if err != nil {
			e.log.Warn("sort failed", zap.Error(err))
			return nil, err
		}
		e.log.Debug("sorted")
	}

	if q.Limit != nil || q.Offset != nil {
		offset := 0
		if q.Offset != nil {
			offset = int(*q.Offset)
		}
		length := ds.NumRows()
		if q.Limit != nil {
			length = int(*q.Limit)
		}
		ds = ds.Slice(offset, length)
		e.log.Debug("sliced", zap.Int("rows", ds.NumRows()))
	}

	return ds, nil
}

// Execute runs the pipeline with a default, silent Engine.
func Execute(ctx context.Context, sql string) (*dataset.DataSet, error) {
	return NewEngine().Execute(ctx, sql)
}

func executeLiteralOnly(q *Query) (*dataset.DataSet, error) {
	fields := make([]dataset.Field, 0, len(q.Projections))
	values := make([]cell, 0, len(q.Projections))
	for _, p := range q.Projections {
		name := p.String()
		expr := p
		if a, ok := p.(Aliased); ok {
			name = a.Alias
			expr = a.Expr
		}
		v, err := evalConst(expr)
		if err != nil {
			return nil, err
		}
		fields = append(fields, dataset.Field{Name: name, Kind: v.Kind})
		values = append(values, v)
	}

	b := dataset.NewBuilder(fields)
	for col, v := range values {
		appendCell(b, col, v)
	}
	return b.Build(), nil
}

func appendCell(b *dataset.Builder, col int, v cell) {
	if v.Null {
		b.AppendNull(col)
		return
	}
	switch v.Kind {
	case dataset.KindFloat64:
		b.AppendFloat64(col, v.F64)
	case dataset.KindBool:
		b.AppendBool(col, v.Bool)
	default:
		b.AppendString(col, v.Str)
	}
}

// computeProjection applies the projection expression list. Column order
// in the output follows the order of projections; a Wildcard expands to
// every column of ds, in place.
func computeProjection(projs []Expr, ds *dataset.DataSet) (*dataset.DataSet, error) {
	var fields []dataset.Field
	var cols []arrow.Array
	nrows := ds.NumRows()

	for _, p := range projs {
		if _, ok := p.(Wildcard); ok {
			fields = append(fields, ds.Fields()...)
			for i := 0; i < ds.NumCols(); i++ {
				cols = append(cols, ds.Column(i))
			}
			continue
		}

		name := p.String()
		expr := p
		if a, ok := p.(Aliased); ok {
			name = a.Alias
			expr = a.Expr
		}

		if col, ok := expr.(Column); ok {
			idx, found := ds.ColumnIndex(col.Name)
			if !found {
				return nil, EngineError("no such column %q", col.Name)
			}
			fields = append(fields, dataset.Field{Name: name, Kind: ds.Fields()[idx].Kind})
			cols = append(cols, ds.Column(idx))
			continue
		}

		kind, err := exprKind(expr, ds)
		if err != nil {
			return nil, err
		}
		colFields := []dataset.Field{{Name: name, Kind: kind}}
		b := dataset.NewBuilder(colFields)
		for row := 0; row < nrows; row++ {
			v, err := evalRow(expr, ds, row)
			if err != nil {
				return nil, err
			}
			appendCell(b, 0, v)
		}
		built := b.Build()
		fields = append(fields, colFields[0])
		cols = append(cols, built.Column(0))
	}

	return dataset.New(fields, cols), nil
}

func applyFilter(cond Expr, ds *dataset.DataSet) (*dataset.DataSet, error) {
	var keep []int
	for row := 0; row < ds.NumRows(); row++ {
		v, err := evalRow(cond, ds, row)
		if err != nil {
			return nil, err
		}
		if !v.Null && v.Bool {
			keep = append(keep, row)
		}
	}
	return ds.Take(keep), nil
}

// applySort sorts by all keys in the given order with each key's
// descending flag. Tie-breaks across equal keys are left to Go's
// sort.Slice, which is not stable — matching the contract's "not stable
// across keys" clause.
func applySort(keys []OrderKey, ds *dataset.DataSet) (*dataset.DataSet, error) {
	n := ds.NumRows()
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	var sortErr error
	sort.Slice(indices, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		ri, rj := indices[i], indices[j]
		for _, k := range keys {
			lv, err := evalRow(k.Expr, ds, ri)
			if err != nil {
				sortErr = err
				return false
			}
			rv, err := evalRow(k.Expr, ds, rj)
			if err != nil {
				sortErr = err
				return false
			}
			if lv.Null || rv.Null {
				if lv.Null != rv.Null {
					return lv.Null
				}
				continue
			}
			cmp, err := compareCells(lv, rv)
			if err != nil {
				sortErr = err
				return false
			}
			if cmp == 0 {
				continue
			}
			if k.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return ds.Take(indices), nil
}
