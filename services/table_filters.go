package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yeremiapane/mesa-backend/utils"
	"gorm.io/gorm/clause"
)

const likeEscape = "!"

// searchPredicate builds the WHERE expression for one search key. dialect is
// the gorm dialector name, needed because text casts differ per database.
type searchPredicate func(dialect, value string) (clause.Expression, error)

// mesaSearchFields lists every scalar column of Mesa that may be searched.
// Keys are the wire names, anything else is rejected.
var mesaSearchFields = map[string]searchPredicate{
	"id":             textContains("id"),
	"numero":         numberContains("numero"),
	"capacity":       numberContains("capacity"),
	"location":       textContains("location"),
	"restaurantCnpj": textContains("restaurant_cnpj"),
	"delete":         boolEquals("delete"),
}

func mesaColumn(name string) clause.Column {
	return clause.Column{Table: "mesas", Name: name}
}

func textContains(column string) searchPredicate {
	return func(_ string, value string) (clause.Expression, error) {
		return clause.Expr{
			SQL:  "LOWER(?) LIKE ? ESCAPE '" + likeEscape + "'",
			Vars: []interface{}{mesaColumn(column), containsPattern(value)},
		}, nil
	}
}

func numberContains(column string) searchPredicate {
	return func(dialect string, value string) (clause.Expression, error) {
		cast := "CAST(? AS TEXT)"
		if dialect == "mysql" {
			cast = "CAST(? AS CHAR)"
		}
		return clause.Expr{
			SQL:  "LOWER(" + cast + ") LIKE ? ESCAPE '" + likeEscape + "'",
			Vars: []interface{}{mesaColumn(column), containsPattern(value)},
		}, nil
	}
}

func boolEquals(column string) searchPredicate {
	return func(_ string, value string) (clause.Expression, error) {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%w: field %q expects a boolean, got %q", utils.ErrValidation, column, value)
		}
		return clause.Eq{Column: mesaColumn(column), Value: b}, nil
	}
}

func containsPattern(value string) string {
	escaped := strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	).Replace(strings.ToLower(value))
	return "%" + escaped + "%"
}
