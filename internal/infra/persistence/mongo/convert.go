package mongo

import (
	"strconv"
	"time"

	"techmarket/internal/domain/query"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// toValue converts a logical value to its BSON form. Identifiers are stored as
// canonical UUID strings.
func toValue(v any) any {
	switch val := v.(type) {
	case uuid.UUID:
		return val.String()
	case time.Time:
		return val.UTC()
	case map[string]any:
		return toDocument(val)
	case []any:
		out := make(bson.A, 0, len(val))
		for _, e := range val {
			out = append(out, toValue(e))
		}

		return out
	}

	return v
}

func toDocument(m map[string]any) bson.M {
	doc := make(bson.M, len(m))
	for k, v := range m {
		doc[k] = toValue(v)
	}

	return doc
}

func fromValue(v any) any {
	switch val := v.(type) {
	case primitive.M:
		return fromDocument(val)
	case primitive.D:
		return fromDocument(val.Map())
	case primitive.A:
		out := make([]any, 0, len(val))
		for _, e := range val {
			out = append(out, fromValue(e))
		}

		return out
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.Decimal128:
		if f, err := strconv.ParseFloat(val.String(), 64); err == nil {
			return f
		}
	}

	return v
}

func fromDocument(d bson.M) map[string]any {
	out := make(map[string]any, len(d))
	for k, v := range d {
		out[k] = fromValue(v)
	}

	return out
}

// filterDoc folds conditions on the same path into one operator document,
// keeping the order of first appearance.
func filterDoc(conds []query.Cond) bson.D {
	filter := bson.D{}
	index := make(map[string]int)
	for _, c := range conds {
		i, ok := index[c.Path]
		if !ok {
			index[c.Path] = len(filter)
			filter = append(filter, bson.E{Key: c.Path, Value: bson.D{}})
			i = len(filter) - 1
		}
		ops, _ := filter[i].Value.(bson.D)
		filter[i].Value = append(ops, bson.E{Key: string(c.Op), Value: toValue(c.Value)})
	}

	return filter
}

func sortDoc(keys []query.SortKey) bson.D {
	doc := make(bson.D, 0, len(keys))
	for _, k := range keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		doc = append(doc, bson.E{Key: k.Path, Value: dir})
	}

	return doc
}

// projectionDoc renames fields with aggregation expressions; _id is dropped
// unless it is one of the outputs.
func projectionDoc(fields []query.Field) bson.D {
	doc := bson.D{}
	keepID := false
	for _, f := range fields {
		if f.As == "_id" {
			keepID = true
		}
	}
	if !keepID {
		doc = append(doc, bson.E{Key: "_id", Value: 0})
	}
	for _, f := range fields {
		doc = append(doc, bson.E{Key: f.As, Value: "$" + f.Path})
	}

	return doc
}

func findOptions(f query.Find) *options.FindOptions {
	opts := options.Find()
	if len(f.Sort) > 0 {
		opts.SetSort(sortDoc(f.Sort))
	}
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	if len(f.Fields) > 0 {
		opts.SetProjection(projectionDoc(f.Fields))
	}

	return opts
}

func pipeline(stages []query.Stage) mongo.Pipeline {
	p := make(mongo.Pipeline, 0, len(stages))
	for _, st := range stages {
		switch s := st.(type) {
		case query.Match:
			p = append(p, bson.D{{Key: "$match", Value: filterDoc(s.Conds)}})
		case query.Unwind:
			p = append(p, bson.D{{Key: "$unwind", Value: "$" + s.Path}})
		case query.Group:
			p = append(p, bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$" + s.Key},
				{Key: s.As, Value: bson.D{{Key: "$sum", Value: "$" + s.SumOf}}},
			}}})
		case query.Sort:
			p = append(p, bson.D{{Key: "$sort", Value: sortDoc(s.Keys)}})
		case query.Limit:
			p = append(p, bson.D{{Key: "$limit", Value: s.N}})
		case query.Lookup:
			p = append(p, bson.D{{Key: "$lookup", Value: bson.D{
				{Key: "from", Value: s.From},
				{Key: "localField", Value: s.LocalField},
				{Key: "foreignField", Value: s.ForeignField},
				{Key: "as", Value: s.As},
			}}})
		case query.Project:
			p = append(p, bson.D{{Key: "$project", Value: projectionDoc(s.Fields)}})
		}
	}

	return p
}
