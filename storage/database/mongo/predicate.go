package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/qori-edu/backend/core/visibility"
)

// matchNone is a filter no document satisfies. Disjunctions with no
// branches and visibility.None translate to it.
var matchNone = bson.M{"_id": bson.M{"$exists": false}}

// toFilter translates a visibility predicate into a native filter. The
// in-memory Match and this translation must agree: a blank equality also
// matches documents where the field is unset, since scope fields are
// stored with omitempty.
func toFilter(pred visibility.Predicate) bson.M {
	switch p := pred.(type) {
	case visibility.Cond:
		return condFilter(p)

	case visibility.Conj:
		if len(p) == 0 {
			return bson.M{}
		}
		clauses := make(bson.A, 0, len(p))
		for _, sub := range p {
			clauses = append(clauses, toFilter(sub))
		}
		return bson.M{"$and": clauses}

	case visibility.Disj:
		if len(p) == 0 {
			return matchNone
		}
		clauses := make(bson.A, 0, len(p))
		for _, sub := range p {
			clauses = append(clauses, toFilter(sub))
		}
		return bson.M{"$or": clauses}

	case visibility.None:
		return matchNone
	}
	return matchNone
}

func condFilter(c visibility.Cond) bson.M {
	switch c.Op {
	case visibility.OpEq:
		if s, ok := c.Value.(string); ok && s == "" {
			return bson.M{c.Field: bson.M{"$in": bson.A{"", nil}}}
		}
		return bson.M{c.Field: c.Value}
	case visibility.OpIn:
		return bson.M{c.Field: bson.M{"$in": c.Value}}
	case visibility.OpGte:
		return bson.M{c.Field: bson.M{"$gte": c.Value}}
	case visibility.OpLte:
		return bson.M{c.Field: bson.M{"$lte": c.Value}}
	}
	return matchNone
}
