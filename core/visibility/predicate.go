package visibility

import "time"

// Record field names shared by the resolver, the repositories and the
// stored documents. A predicate only ever references these.
const (
	FieldInstitution = "institution"
	FieldStudent     = "student"
	FieldTeacher     = "teacher"
	FieldSender      = "sender"
	FieldCourse      = "course"
	FieldGradeLevel  = "gradeLevel"
	FieldSection     = "section"
	FieldCommission  = "commission"
	FieldExamType    = "examType"
	FieldDate        = "date"
)

type Op string

const (
	OpEq  Op = "eq"
	OpIn  Op = "in"
	OpGte Op = "gte"
	OpLte Op = "lte"
)

// Predicate is a declarative "can-see" condition over a record collection.
// It is built once per request by the Resolver, evaluated in-process by the
// in-memory store and translated to a native filter by the mongo store.
type Predicate interface {
	// Match evaluates the predicate against a flat field document.
	Match(doc map[string]interface{}) bool
}

type (
	// Cond is a single field condition.
	Cond struct {
		Field string
		Op    Op
		Value interface{}
	}

	// Conj matches when every member matches. An empty Conj matches all.
	Conj []Predicate

	// Disj matches when at least one member matches.
	Disj []Predicate

	// None matches nothing. Unrecognized roles resolve to it: the safe
	// default is the empty set, never "all".
	None struct{}
)

func Eq(field string, value interface{}) Cond { return Cond{Field: field, Op: OpEq, Value: value} }
func In(field string, values []string) Cond   { return Cond{Field: field, Op: OpIn, Value: values} }
func Gte(field string, value time.Time) Cond  { return Cond{Field: field, Op: OpGte, Value: value} }
func Lte(field string, value time.Time) Cond  { return Cond{Field: field, Op: OpLte, Value: value} }
func All(preds ...Predicate) Conj             { return Conj(preds) }
func Any(preds ...Predicate) Disj             { return Disj(preds) }

func (c Cond) Match(doc map[string]interface{}) bool {
	val, ok := doc[c.Field]
	if !ok {
		val = ""
	}
	switch c.Op {
	case OpEq:
		return val == c.Value
	case OpIn:
		members, ok := c.Value.([]string)
		if !ok {
			return false
		}
		s, ok := val.(string)
		if !ok {
			return false
		}
		for _, m := range members {
			if s == m {
				return true
			}
		}
		return false
	case OpGte:
		t, ok1 := val.(time.Time)
		lim, ok2 := c.Value.(time.Time)
		return ok1 && ok2 && !t.Before(lim)
	case OpLte:
		t, ok1 := val.(time.Time)
		lim, ok2 := c.Value.(time.Time)
		return ok1 && ok2 && !t.After(lim)
	}
	return false
}

func (c Conj) Match(doc map[string]interface{}) bool {
	for _, p := range c {
		if !p.Match(doc) {
			return false
		}
	}
	return true
}

func (d Disj) Match(doc map[string]interface{}) bool {
	for _, p := range d {
		if p.Match(doc) {
			return true
		}
	}
	return false
}

func (None) Match(map[string]interface{}) bool { return false }
