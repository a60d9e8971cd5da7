// Package matcher provides the predicates used to filter statements.
//
// A Matcher binds a column, an operator and a value. Condition lists are
// plain []Matcher values joined with AND when rendered; there is no OR
// composition.
//
//	conds := []matcher.Matcher{
//	    matcher.Eq("customer_id", 7),
//	    matcher.In("status", "NEW", "PAID"),
//	}
//
// Typed columns give compile-time checked values:
//
//	var Status = matcher.String("status")
//	conds := []matcher.Matcher{Status.EQ("NEW"), Status.HasPrefix("N")}
package matcher
